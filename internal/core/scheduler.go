// internal/core/scheduler.go

package core

import (
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"hotelac/internal/config"
	"hotelac/internal/db"
	"hotelac/internal/logger"
	"hotelac/internal/timemaster"
	"hotelac/internal/types"
)

// Core 中央空调核心：调度器、温度模拟器、计费结算器共享一把锁和同一份房间状态。
// 任何命令都不会暴露中间状态。
type Core struct {
	mu         sync.Mutex
	clock      *timemaster.TimeMaster
	cfg        *config.Config
	rooms      *registry
	queue      *queueManager
	settler    *settler
	detailRepo *db.DetailRepository
}

func New(database *gorm.DB, clock *timemaster.TimeMaster, cfg *config.Config) (*Core, error) {
	detailRepo := db.NewDetailRepository(database)
	rooms, err := newRegistry(db.NewRoomRepository(database), clock.Now())
	if err != nil {
		return nil, fmt.Errorf("加载房间状态失败: %v", err)
	}
	c := &Core{
		clock:      clock,
		cfg:        cfg,
		rooms:      rooms,
		queue:      newQueueManager(),
		settler:    newSettler(detailRepo, cfg),
		detailRepo: detailRepo,
	}
	c.restoreQueues()
	return c, nil
}

// restoreQueues 进程重启后按落库的锚点恢复队列成员关系
func (c *Core) restoreQueues() {
	for _, room := range c.rooms.all() {
		if !room.ACOn || room.TargetTemp == nil {
			continue
		}
		req := c.requestFor(room)
		switch {
		case room.ServingStartTime != nil && room.BillingStartTemp != nil:
			t := *room.ServingStartTime
			req.ServingTime = &t
			c.queue.addServing(req)
		case room.WaitingStartTime != nil:
			t := *room.WaitingStartTime
			req.WaitingTime = &t
			c.queue.addWaiting(req)
		}
	}
}

// Clock 暴露逻辑时钟（管理接口调速用）
func (c *Core) Clock() *timemaster.TimeMaster {
	return c.clock
}

func (c *Core) Config() *config.Config {
	return c.cfg
}

// UpdateTempRange 管理端调整某模式的温度范围，立即作用于后续的温度校验
func (c *Core) UpdateTempRange(mode types.Mode, minTemp, maxTemp, defaultTarget float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if mode == types.ModeHeating {
		c.cfg.HeatingMinTemp = minTemp
		c.cfg.HeatingMaxTemp = maxTemp
		c.cfg.HeatingDefaultTarget = defaultTarget
	} else {
		c.cfg.CoolingMinTemp = minTemp
		c.cfg.CoolingMaxTemp = maxTemp
		c.cfg.CoolingDefaultTarget = defaultTarget
	}
	logger.Info("模式 %s 温度范围调整为 [%.1f, %.1f], 默认 %.1f度", mode, minTemp, maxTemp, defaultTarget)
}

// Tick 周期驱动：推进温度模拟并跑一遍调度
func (c *Core) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	c.advanceAllLocked(now)
	c.schedulePassLocked(now)
	c.rooms.flushAll()
}

// PowerOn 开机。currentTemp 非空时用它初始化当前温度（来自房间温控面板）。
func (c *Core) PowerOn(roomID int, currentTemp *float32) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	c.advanceAllLocked(now)

	room := c.rooms.get(roomID)
	if room == nil {
		return "", ErrRoomNotFound
	}
	if room.Status == types.RoomMaintenance {
		return "", ErrRoomInMaintenance
	}
	if room.ACOn {
		return "", ErrACAlreadyOn
	}

	if currentTemp != nil {
		room.CurrentTemp = *currentTemp
	}
	room.ACOn = true
	room.ACSessionStart = &now
	room.LastTempUpdate = now
	if room.FanSpeed == "" {
		room.FanSpeed = types.SpeedMedium
	}
	if room.TargetTemp == nil {
		target := c.cfg.DefaultTemp
		room.TargetTemp = &target
	}

	if c.cfg.EnableCycleDailyFee {
		if err := c.settler.writeRoomFee(room, now); err != nil {
			logger.Error("开机房费落账失败 - 房间 %d: %v", roomID, err)
		}
	}

	c.admitLocked(room, now)
	c.schedulePassLocked(now)
	c.rooms.flushAll()

	logger.Info("房间 %d 开机, 当前 %.1f度, 目标 %.1f度, 风速 %s",
		roomID, room.CurrentTemp, *room.TargetTemp, room.FanSpeed)
	return "开机成功", nil
}

// PowerOff 关机：结算打开的区间，清空全部调度与计费锚点
func (c *Core) PowerOff(roomID int) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	c.advanceAllLocked(now)

	room := c.rooms.get(roomID)
	if room == nil {
		return "", ErrRoomNotFound
	}
	if !room.ACOn {
		return "", ErrACNotOn
	}

	if err := c.settler.settle(room, now, "power_off"); err != nil {
		return "", err
	}
	if c.cfg.EnableCycleDailyFee {
		if err := c.settler.writePowerOffCycle(room, now); err != nil {
			logger.Error("关机周期落账失败 - 房间 %d: %v", roomID, err)
		}
	}

	c.queue.remove(roomID)
	room.resetOnPowerOff(c.cfg.TempRange(room.ACMode).Default)
	room.LastTempUpdate = now

	c.schedulePassLocked(now)
	c.rooms.flushAll()

	logger.Info("房间 %d 关机", roomID)
	return "关机成功", nil
}

// ChangeTemp 调整目标温度。目标必须落在当前模式的温度范围内。
// 不关闭当前计费区间；暂停中的房间会被唤醒重新入队。
func (c *Core) ChangeTemp(roomID int, target float32) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	c.advanceAllLocked(now)

	room := c.rooms.get(roomID)
	if room == nil {
		return "", ErrRoomNotFound
	}
	if !room.ACOn {
		return "", ErrACNotOn
	}
	band := c.cfg.TempRange(room.ACMode)
	if !band.Contains(target) {
		return "", fmt.Errorf("%w: %.1f度 不在 [%.1f, %.1f]",
			ErrTempOutOfRange, target, band.Min, band.Max)
	}

	room.TargetTemp = &target
	if req := c.queue.getRequest(roomID); req != nil {
		req.TargetTemp = target
	}
	if room.CoolingPaused {
		c.wakeLocked(room, now)
	}

	c.schedulePassLocked(now)
	c.rooms.flushAll()

	logger.Info("房间 %d 目标温度调整为 %.1f度", roomID, target)
	return "温度设置成功", nil
}

// ChangeSpeed 调整风速。风速变化关闭当前计费区间，并按新风速重新走完整准入，
// 可能触发抢占。
func (c *Core) ChangeSpeed(roomID int, speed types.FanSpeed) (string, error) {
	if !types.ValidSpeed(speed) {
		return "", fmt.Errorf("%w: %s", ErrInvalidSpeed, speed)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	c.advanceAllLocked(now)

	room := c.rooms.get(roomID)
	if room == nil {
		return "", ErrRoomNotFound
	}
	if !room.ACOn {
		return "", ErrACNotOn
	}
	if room.FanSpeed == speed {
		return "风速未变化", nil
	}

	wasQueued := c.queue.getRequest(roomID) != nil
	if c.queue.isServing(roomID) {
		// 旧风速的区间到此为止，新区间从当前温度重新开始
		if err := c.settler.settle(room, now, "speed_change"); err != nil {
			return "", err
		}
	}
	c.queue.remove(roomID)
	room.FanSpeed = speed

	if wasQueued {
		c.admitLocked(room, now)
	}
	// 暂停中的房间只记录新风速，回温唤醒后按新风速入队

	c.schedulePassLocked(now)
	c.rooms.flushAll()

	logger.Info("房间 %d 风速调整为 %s", roomID, speed)
	return "风速设置成功", nil
}

// ChangeMode 切换工作模式。结算当前区间，目标温度重置为新模式默认值，重新准入。
func (c *Core) ChangeMode(roomID int, mode types.Mode) (string, error) {
	if !types.ValidMode(mode) {
		return "", fmt.Errorf("%w: %s", ErrInvalidMode, mode)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	c.advanceAllLocked(now)

	room := c.rooms.get(roomID)
	if room == nil {
		return "", ErrRoomNotFound
	}
	if !room.ACOn {
		return "", ErrACNotOn
	}
	if room.ACMode == mode {
		return "模式未变化", nil
	}

	if c.queue.isServing(roomID) {
		if err := c.settler.settle(room, now, "mode_change"); err != nil {
			return "", err
		}
	}
	c.queue.remove(roomID)

	room.ACMode = mode
	target := c.cfg.TempRange(mode).Default
	room.TargetTemp = &target
	room.CoolingPaused = false
	room.PauseStartTemp = nil

	c.admitLocked(room, now)
	c.schedulePassLocked(now)
	c.rooms.flushAll()

	logger.Info("房间 %d 模式切换为 %s, 目标温度 %.1f度", roomID, mode, target)
	return "模式设置成功", nil
}

// requestFor 按房间当前参数构造服务请求
func (c *Core) requestFor(room *Room) *ServiceRequest {
	target := c.cfg.DefaultTemp
	if room.TargetTemp != nil {
		target = *room.TargetTemp
	}
	return &ServiceRequest{
		RoomID:     room.RoomID,
		FanSpeed:   room.FanSpeed,
		Mode:       room.ACMode,
		TargetTemp: target,
	}
}

// admitLocked 准入：已达目标温度的请求直接挂起不占机位；
// 有空位直接服务；满员时高优先级抢占最低优先级中服务最久者；否则排队等待。
func (c *Core) admitLocked(room *Room, now time.Time) {
	if c.reached(room) {
		c.pauseLocked(room, now)
		return
	}

	req := c.requestFor(room)
	if c.queue.servingCount() < c.cfg.ACTotalCount {
		c.startServingLocked(room, req, now)
		return
	}

	victim := c.preemptionVictimLocked(req.priority())
	if victim != nil {
		c.evictLocked(victim, now, "preempted")
		c.startServingLocked(room, req, now)
		logger.Info("房间 %d (%s) 抢占房间 %d", room.RoomID, req.FanSpeed, victim.RoomID)
		return
	}

	c.enqueueWaitingLocked(room, req, now)
}

// preemptionVictimLocked 在服务队列中选出优先级严格低于 priority 的牺牲者：
// 最低优先级优先，同优先级取服务最久者
func (c *Core) preemptionVictimLocked(priority int) *Room {
	minPriority := priority
	for _, req := range c.queue.servingRequests() {
		if req.priority() < minPriority {
			minPriority = req.priority()
		}
	}
	if minPriority >= priority {
		return nil
	}
	return c.victimAmongLocked(minPriority)
}

// victimAmongLocked 服务队列中指定优先级里服务最久的房间
func (c *Core) victimAmongLocked(priority int) *Room {
	var victim *ServiceRequest
	for _, req := range c.queue.servingRequests() {
		if req.priority() != priority {
			continue
		}
		if victim == nil || req.ServingTime.Before(*victim.ServingTime) {
			victim = req
		}
	}
	if victim == nil {
		return nil
	}
	return c.rooms.get(victim.RoomID)
}

// startServingLocked 进入服务队列：打点 serving_time，打开计费区间
func (c *Core) startServingLocked(room *Room, req *ServiceRequest, now time.Time) {
	t := now
	req.ServingTime = &t
	c.queue.addServing(req)

	start := now
	startTemp := room.CurrentTemp
	room.ServingStartTime = &start
	room.BillingStartTemp = &startTemp
	room.WaitingStartTime = nil
	room.ScheduleCount++
}

func (c *Core) enqueueWaitingLocked(room *Room, req *ServiceRequest, now time.Time) {
	t := now
	req.WaitingTime = &t
	c.queue.addWaiting(req)
	room.WaitingStartTime = &t
	logger.Info("房间 %d 加入等待队列", room.RoomID)
}

// evictLocked 把服务中的房间结算后移入等待队列
func (c *Core) evictLocked(room *Room, now time.Time, reason string) {
	req := c.queue.removeServing(room.RoomID)
	if req == nil {
		return
	}
	if err := c.settler.settle(room, now, reason); err != nil {
		logger.Error("驱逐结算失败 - 房间 %d: %v", room.RoomID, err)
	}
	c.enqueueWaitingLocked(room, req, now)
}

// promoteLocked 等待队列头部晋升服务
func (c *Core) promoteLocked(now time.Time) bool {
	req := c.queue.popWaiting()
	if req == nil {
		return false
	}
	room := c.rooms.get(req.RoomID)
	if room == nil {
		return false
	}
	c.startServingLocked(room, req, now)
	logger.Info("房间 %d 从等待队列晋升至服务队列", room.RoomID)
	return true
}

// pauseLocked 达到目标温度：离开队列挂起，记录暂停温度
func (c *Core) pauseLocked(room *Room, now time.Time) {
	room.CoolingPaused = true
	pauseTemp := room.CurrentTemp
	room.PauseStartTemp = &pauseTemp
	room.WaitingStartTime = nil
	logger.Info("房间 %d 达到目标温度 %.1f度, 暂停送风", room.RoomID, room.CurrentTemp)
}

// wakeLocked 回温唤醒：清除暂停标记后重新走准入
func (c *Core) wakeLocked(room *Room, now time.Time) {
	if !room.CoolingPaused {
		return
	}
	room.CoolingPaused = false
	room.PauseStartTemp = nil
	logger.Info("房间 %d 回温唤醒, 当前 %.1f度", room.RoomID, room.CurrentTemp)
	c.admitLocked(room, now)
}

// schedulePassLocked 一次完整调度：时间片轮转，再做容量收敛。
// 任何入口在状态变更后都要走到这里。
func (c *Core) schedulePassLocked(now time.Time) {
	c.rotateLocked(now)

	// 容量收敛：超员先驱逐，空位再晋升
	for c.queue.servingCount() > c.cfg.ACTotalCount {
		victim := c.lowestServingVictimLocked()
		if victim == nil {
			break
		}
		c.evictLocked(victim, now, "capacity")
	}
	for c.queue.servingCount() < c.cfg.ACTotalCount && c.queue.waitingCount() > 0 {
		if !c.promoteLocked(now) {
			break
		}
	}

	if c.queue.servingCount() > c.cfg.ACTotalCount {
		logger.Error("调度不变量被破坏: 服务数 %d 超过容量 %d",
			c.queue.servingCount(), c.cfg.ACTotalCount)
	}
}

// rotateLocked 时间片轮转：等待超过时间片的请求换出
// 优先级不高于它、且服务最久的在服房间
func (c *Core) rotateLocked(now time.Time) {
	for _, waiter := range c.queue.waitingRequests() {
		if waiter.WaitingTime == nil {
			continue
		}
		waited := float32(now.Sub(*waiter.WaitingTime).Seconds())
		if waited < c.cfg.TimeSlice {
			continue
		}

		victim := c.rotationVictimLocked(waiter.priority())
		if victim == nil {
			continue
		}

		c.evictLocked(victim, now, "time_slice")
		c.queue.removeWaiting(waiter.RoomID)
		if room := c.rooms.get(waiter.RoomID); room != nil {
			c.startServingLocked(room, waiter, now)
			logger.Info("时间片轮转: 房间 %d 换入, 房间 %d 换出", waiter.RoomID, victim.RoomID)
		}
	}
}

// rotationVictimLocked 服务队列中优先级 <= priority 里服务最久的房间
func (c *Core) rotationVictimLocked(priority int) *Room {
	var victim *ServiceRequest
	for _, req := range c.queue.servingRequests() {
		if req.priority() > priority {
			continue
		}
		if victim == nil || req.ServingTime.Before(*victim.ServingTime) {
			victim = req
		}
	}
	if victim == nil {
		return nil
	}
	return c.rooms.get(victim.RoomID)
}

// lowestServingVictimLocked 最低优先级、服务最久的在服房间
func (c *Core) lowestServingVictimLocked() *Room {
	minPriority := int(^uint(0) >> 1)
	for _, req := range c.queue.servingRequests() {
		if req.priority() < minPriority {
			minPriority = req.priority()
		}
	}
	return c.victimAmongLocked(minPriority)
}

// reached 当前温度是否已在目标温度阈值内
func (c *Core) reached(room *Room) bool {
	if room.TargetTemp == nil {
		return false
	}
	diff := room.CurrentTemp - *room.TargetTemp
	if diff < 0 {
		diff = -diff
	}
	return diff < types.ReachThreshold
}
