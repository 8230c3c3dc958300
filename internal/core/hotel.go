// internal/core/hotel.go

package core

import (
	"errors"
	"time"

	"hotelac/internal/logger"
	"hotelac/internal/types"
)

// 入住、退房、维修由外部流程发起，但房间状态的迁移必须经过核心，
// 保证与调度队列原子一致。

var (
	ErrRoomNotAvailable = errors.New("房间当前不可入住")
	ErrRoomNotOccupied  = errors.New("房间没有入住记录")
	ErrACStillOn        = errors.New("空调开启中，不能直接调整温度")
)

// SetOccupied 入住：房间转为已入住并关联顾客
func (c *Core) SetOccupied(roomID int, customerID int, customerName string, checkInTime time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	room := c.rooms.get(roomID)
	if room == nil {
		return ErrRoomNotFound
	}
	if room.Status != types.RoomAvailable {
		return ErrRoomNotAvailable
	}

	room.Status = types.RoomOccupied
	room.CustomerID = &customerID
	room.CustomerName = customerName
	t := checkInTime
	room.CheckInTime = &t
	c.rooms.flushAll()

	logger.Info("房间 %d 入住, 顾客 %s", roomID, customerName)
	return nil
}

// Release 退房：空调开着先走完整关机结算，再释放房间
func (c *Core) Release(roomID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	c.advanceAllLocked(now)

	room := c.rooms.get(roomID)
	if room == nil {
		return ErrRoomNotFound
	}
	if room.Status != types.RoomOccupied {
		return ErrRoomNotOccupied
	}

	if room.ACOn {
		if err := c.settler.settle(room, now, "check_out"); err != nil {
			return err
		}
		if c.cfg.EnableCycleDailyFee {
			if err := c.settler.writePowerOffCycle(room, now); err != nil {
				logger.Error("退房关机周期落账失败 - 房间 %d: %v", roomID, err)
			}
		}
		c.queue.remove(roomID)
		room.resetOnPowerOff(c.cfg.TempRange(room.ACMode).Default)
		room.LastTempUpdate = now
	}

	room.Status = types.RoomAvailable
	room.CustomerID = nil
	room.CustomerName = ""
	room.CheckInTime = nil

	c.schedulePassLocked(now)
	c.rooms.flushAll()

	logger.Info("房间 %d 退房", roomID)
	return nil
}

// SetMaintenance 维修状态切换。转入维修前先关机。
func (c *Core) SetMaintenance(roomID int, underMaintenance bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	c.advanceAllLocked(now)

	room := c.rooms.get(roomID)
	if room == nil {
		return ErrRoomNotFound
	}

	if underMaintenance {
		if room.Status == types.RoomOccupied {
			return ErrRoomNotAvailable
		}
		if room.ACOn {
			if err := c.settler.settle(room, now, "maintenance"); err != nil {
				return err
			}
			c.queue.remove(roomID)
			room.resetOnPowerOff(c.cfg.TempRange(room.ACMode).Default)
			room.LastTempUpdate = now
		}
		room.Status = types.RoomMaintenance
	} else {
		if room.Status != types.RoomMaintenance {
			return errors.New("房间不在维修状态")
		}
		room.Status = types.RoomAvailable
	}

	c.schedulePassLocked(now)
	c.rooms.flushAll()

	logger.Info("房间 %d 维修状态: %v", roomID, underMaintenance)
	return nil
}

// InitRoomTemp 演练用：同时重置环境温度与当前温度。空调开启时拒绝。
func (c *Core) InitRoomTemp(roomID int, temp float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	room := c.rooms.get(roomID)
	if room == nil {
		return ErrRoomNotFound
	}
	if room.ACOn {
		return ErrACStillOn
	}

	room.DefaultTemp = temp
	room.CurrentTemp = temp
	room.LastTempUpdate = c.clock.Now()
	c.rooms.flushAll()

	logger.Info("房间 %d 温度初始化为 %.1f度", roomID, temp)
	return nil
}

// RoomOverview 注册表中的房间概况（工作流层只读）
type RoomOverview struct {
	RoomID       int              `json:"roomId"`
	Status       types.RoomStatus `json:"status"`
	DefaultTemp  float32          `json:"defaultTemp"`
	CurrentTemp  float32          `json:"currentTemp"`
	ACOn         bool             `json:"acOn"`
	DailyRate    float32          `json:"dailyRate"`
	CustomerID   *int             `json:"customerId,omitempty"`
	CustomerName string           `json:"customerName,omitempty"`
	CheckInTime  *time.Time       `json:"checkInTime,omitempty"`
}

func overviewOf(room *Room) RoomOverview {
	return RoomOverview{
		RoomID:       room.RoomID,
		Status:       room.Status,
		DefaultTemp:  room.DefaultTemp,
		CurrentTemp:  room.CurrentTemp,
		ACOn:         room.ACOn,
		DailyRate:    room.DailyRate,
		CustomerID:   room.CustomerID,
		CustomerName: room.CustomerName,
		CheckInTime:  room.CheckInTime,
	}
}

// RoomOverviews 全部房间概况
func (c *Core) RoomOverviews() []RoomOverview {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]RoomOverview, 0, len(c.rooms.rooms))
	for _, room := range c.rooms.all() {
		result = append(result, overviewOf(room))
	}
	return result
}

// GetRoomOverview 单个房间概况
func (c *Core) GetRoomOverview(roomID int) (*RoomOverview, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room := c.rooms.get(roomID)
	if room == nil {
		return nil, ErrRoomNotFound
	}
	overview := overviewOf(room)
	return &overview, nil
}
