// internal/core/settler.go

package core

import (
	"time"

	"hotelac/internal/config"
	"hotelac/internal/db"
	"hotelac/internal/logger"
	"hotelac/internal/types"
)

// ACRate 空调费率（元/度）。费用由温差驱动，服务时长仅进报表。
const ACRate float32 = 1.0

// settler 把一段闭合的服务区间换成一条详单。
// 只依赖房间状态与结束时间，不回头依赖调度器，调用方持有调度器锁。
type settler struct {
	detailRepo *db.DetailRepository
	cfg        *config.Config
}

func newSettler(detailRepo *db.DetailRepository, cfg *config.Config) *settler {
	return &settler{detailRepo: detailRepo, cfg: cfg}
}

// settle 结算房间当前打开的服务区间。没有打开的区间时是空操作。
// 唯一键 (room_id, AC, start_time) 保证同一区间至多落一条详单。
func (s *settler) settle(room *Room, end time.Time, reason string) error {
	if room.ServingStartTime == nil && room.BillingStartTemp == nil {
		return nil
	}
	if (room.ServingStartTime == nil) != (room.BillingStartTemp == nil) {
		logger.Error("结算拒绝 - 房间 %d: serving_start_time 与 billing_start_temp 不同步 (原因: %s)",
			room.RoomID, reason)
		return ErrInvariantViolation
	}

	start := *room.ServingStartTime
	startTemp := *room.BillingStartTemp

	var tempDiff float32
	if room.ACMode == types.ModeHeating {
		tempDiff = room.CurrentTemp - startTemp
	} else {
		tempDiff = startTemp - room.CurrentTemp
	}
	if tempDiff < 0 {
		tempDiff = 0
	}

	// 温差可忽略的区间不产生详单，但锚点照常清空
	if tempDiff < 0.001 {
		room.ServingStartTime = nil
		room.BillingStartTemp = nil
		return nil
	}

	existing, err := s.detailRepo.FindACDetail(room.RoomID, start)
	if err != nil {
		return err
	}
	if existing != nil {
		// 已有详单视为权威，跳过本次结算
		logger.Warn("详单冲突 - 房间 %d 开始时间 %s 已结算，跳过 (原因: %s)",
			room.RoomID, start.Format("15:04:05"), reason)
		room.ServingStartTime = nil
		room.BillingStartTemp = nil
		return nil
	}

	detail := &db.DetailRecord{
		RoomID:          room.RoomID,
		CustomerID:      s.customerID(room),
		ACMode:          room.ACMode,
		FanSpeed:        room.FanSpeed,
		RequestTime:     start,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: float32(end.Sub(start).Minutes()),
		Rate:            ACRate,
		Cost:            tempDiff * ACRate,
		DetailType:      types.DetailTypeAC,
	}
	if err := s.detailRepo.CreateDetail(detail); err != nil {
		return err
	}

	room.ServingStartTime = nil
	room.BillingStartTemp = nil
	logger.Debug("结算完成 - 房间 %d, 温差 %.2f度, 费用 %.2f元 (原因: %s)",
		room.RoomID, tempDiff, detail.Cost, reason)
	return nil
}

// writeRoomFee 开机周期房费：start = end = now，费用为日房费
func (s *settler) writeRoomFee(room *Room, now time.Time) error {
	rate := room.DailyRate
	if rate <= 0 {
		rate = s.cfg.BillingRoomRate
	}
	return s.detailRepo.CreateDetail(&db.DetailRecord{
		RoomID:      room.RoomID,
		CustomerID:  s.customerID(room),
		ACMode:      room.ACMode,
		FanSpeed:    room.FanSpeed,
		RequestTime: now,
		StartTime:   now,
		EndTime:     now,
		Rate:        rate,
		Cost:        rate,
		DetailType:  types.DetailTypeRoomFee,
	})
}

// writePowerOffCycle 关机时落一条周期标记，零费用，记录本次开机的跨度
func (s *settler) writePowerOffCycle(room *Room, now time.Time) error {
	if room.ACSessionStart == nil {
		return nil
	}
	start := *room.ACSessionStart
	return s.detailRepo.CreateDetail(&db.DetailRecord{
		RoomID:          room.RoomID,
		CustomerID:      s.customerID(room),
		ACMode:          room.ACMode,
		FanSpeed:        room.FanSpeed,
		RequestTime:     now,
		StartTime:       start,
		EndTime:         now,
		DurationMinutes: float32(now.Sub(start).Minutes()),
		DetailType:      types.DetailTypePowerOffCycle,
	})
}

func (s *settler) customerID(room *Room) *int {
	if room.Status == types.RoomOccupied {
		return room.CustomerID
	}
	return nil
}
