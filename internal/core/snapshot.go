// internal/core/snapshot.go

package core

import (
	"time"

	"hotelac/internal/types"
)

// RequestState 房间状态快照。字段名是对外契约，消费方按位解析。
type RequestState struct {
	RoomID         int              `json:"roomId"`
	ACOn           bool             `json:"acOn"`
	CurrentTemp    float32          `json:"currentTemp"`
	TargetTemp     *float32         `json:"targetTemp"`
	ACMode         types.Mode       `json:"acMode"`
	FanSpeed       types.FanSpeed   `json:"fanSpeed"`
	QueueState     types.QueueState `json:"queueState"`
	ServingSeconds float32          `json:"servingSeconds"`
	WaitingSeconds float32          `json:"waitingSeconds"`
	RoomFee        float32          `json:"roomFee"`
	ACFee          float32          `json:"acFee"`
	TotalCost      float32          `json:"totalCost"`
	ScheduleCount  int              `json:"scheduleCount"`
	CustomerID     *int             `json:"customerId,omitempty"`
}

// ScheduleEntry 队列快照里的一条
type ScheduleEntry struct {
	RoomID         int            `json:"roomId"`
	FanSpeed       types.FanSpeed `json:"fanSpeed"`
	ServingTime    *time.Time     `json:"servingTime,omitempty"`
	WaitingTime    *time.Time     `json:"waitingTime,omitempty"`
	ServingSeconds float32        `json:"servingSeconds,omitempty"`
	WaitingSeconds float32        `json:"waitingSeconds,omitempty"`
}

// ScheduleStatus 调度器全局视图
type ScheduleStatus struct {
	Capacity  int             `json:"capacity"`
	TimeSlice float32         `json:"timeSlice"`
	Serving   []ScheduleEntry `json:"serving"`
	Waiting   []ScheduleEntry `json:"waiting"`
}

// RequestState 查询单个房间状态。查询本身也推进温度模拟。
func (c *Core) RequestState(roomID int) (*RequestState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	c.advanceAllLocked(now)
	c.schedulePassLocked(now)
	c.rooms.flushAll()

	room := c.rooms.get(roomID)
	if room == nil {
		return nil, ErrRoomNotFound
	}
	return c.requestStateLocked(room, now)
}

// AllRequestStates 全部房间的状态快照（监控面板用）
func (c *Core) AllRequestStates() ([]*RequestState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	c.advanceAllLocked(now)
	c.schedulePassLocked(now)
	c.rooms.flushAll()

	result := make([]*RequestState, 0, len(c.rooms.rooms))
	for _, room := range c.rooms.all() {
		state, err := c.requestStateLocked(room, now)
		if err != nil {
			return nil, err
		}
		result = append(result, state)
	}
	return result, nil
}

func (c *Core) requestStateLocked(room *Room, now time.Time) (*RequestState, error) {
	state := &RequestState{
		RoomID:        room.RoomID,
		ACOn:          room.ACOn,
		CurrentTemp:   room.CurrentTemp,
		TargetTemp:    room.TargetTemp,
		ACMode:        room.ACMode,
		FanSpeed:      room.FanSpeed,
		QueueState:    c.queueStateLocked(room),
		ScheduleCount: room.ScheduleCount,
		CustomerID:    room.CustomerID,
	}

	if req := c.queue.getRequest(room.RoomID); req != nil {
		if req.ServingTime != nil {
			state.ServingSeconds = float32(now.Sub(*req.ServingTime).Seconds())
		}
		if req.WaitingTime != nil {
			state.WaitingSeconds = float32(now.Sub(*req.WaitingTime).Seconds())
		}
	}

	// 费用窗口：入住中按入住时间起算，否则取全部历史
	windowStart := time.Time{}
	if room.CheckInTime != nil {
		windowStart = *room.CheckInTime
	}
	roomFee, err := c.detailRepo.SumCostByType(room.RoomID, types.DetailTypeRoomFee, windowStart, now)
	if err != nil {
		return nil, err
	}
	acFee, err := c.detailRepo.SumCostByType(room.RoomID, types.DetailTypeAC, windowStart, now)
	if err != nil {
		return nil, err
	}
	state.RoomFee = roomFee
	state.ACFee = acFee
	state.TotalCost = roomFee + acFee
	return state, nil
}

func (c *Core) queueStateLocked(room *Room) types.QueueState {
	switch {
	case c.queue.isServing(room.RoomID):
		return types.QueueServing
	case c.queue.isWaiting(room.RoomID):
		return types.QueueWaiting
	case room.ACOn && room.CoolingPaused:
		return types.QueuePaused
	default:
		return types.QueueIdle
	}
}

// ScheduleStatus 服务/等待队列全局快照
func (c *Core) ScheduleStatus() *ScheduleStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	c.advanceAllLocked(now)
	c.schedulePassLocked(now)
	c.rooms.flushAll()

	status := &ScheduleStatus{
		Capacity:  c.cfg.ACTotalCount,
		TimeSlice: c.cfg.TimeSlice,
		Serving:   make([]ScheduleEntry, 0, c.queue.servingCount()),
		Waiting:   make([]ScheduleEntry, 0, c.queue.waitingCount()),
	}
	for _, req := range c.queue.servingRequests() {
		status.Serving = append(status.Serving, ScheduleEntry{
			RoomID:         req.RoomID,
			FanSpeed:       req.FanSpeed,
			ServingTime:    req.ServingTime,
			ServingSeconds: float32(now.Sub(*req.ServingTime).Seconds()),
		})
	}
	for _, req := range c.queue.waitingRequests() {
		status.Waiting = append(status.Waiting, ScheduleEntry{
			RoomID:         req.RoomID,
			FanSpeed:       req.FanSpeed,
			WaitingTime:    req.WaitingTime,
			WaitingSeconds: float32(now.Sub(*req.WaitingTime).Seconds()),
		})
	}
	return status
}
