// internal/core/thermal.go

package core

import (
	"time"

	"hotelac/internal/types"
)

// advanceAllLocked 把所有房间的温度推进到 now。
// 阈值事件（达标暂停、回温唤醒）先收集再处理，避免遍历中改队列；
// 处理前重新校验条件，两次并发推进不会重复触发。
func (c *Core) advanceAllLocked(now time.Time) {
	var reached, wake []*Room
	for _, room := range c.rooms.all() {
		c.advanceRoomLocked(room, now, &reached, &wake)
	}
	for _, room := range reached {
		c.handleTempReachedLocked(room, now)
	}
	for _, room := range wake {
		if room.CoolingPaused {
			c.wakeLocked(room, now)
		}
	}
}

// advanceRoomLocked 单房间温度推进。elapsed 为模拟分钟。
func (c *Core) advanceRoomLocked(room *Room, now time.Time, reached, wake *[]*Room) {
	elapsed := float32(now.Sub(room.LastTempUpdate).Minutes())
	if elapsed <= 0 {
		return
	}

	switch {
	case !room.ACOn:
		// 关机房间向环境温度漂移
		room.CurrentTemp = driftToward(room.CurrentTemp, room.DefaultTemp, types.RewarmRate*elapsed)

	case c.queue.isServing(room.RoomID) && !room.CoolingPaused:
		rate := types.SpeedTempRate[room.FanSpeed]
		target := room.CurrentTemp
		if room.TargetTemp != nil {
			target = *room.TargetTemp
		}
		if room.ACMode == types.ModeHeating {
			next := room.CurrentTemp + rate*elapsed
			if next > target {
				next = target
			}
			room.CurrentTemp = next
		} else {
			next := room.CurrentTemp - rate*elapsed
			if next < target {
				next = target
			}
			room.CurrentTemp = next
		}
		if c.reached(room) {
			room.CurrentTemp = target
			*reached = append(*reached, room)
		}

	default:
		// 开机但在等待队列或已暂停：与关机房间一样回温
		room.CurrentTemp = driftToward(room.CurrentTemp, room.DefaultTemp, types.RewarmRate*elapsed)
		if room.CoolingPaused && room.PauseStartTemp != nil {
			drift := room.CurrentTemp - *room.PauseStartTemp
			if drift < 0 {
				drift = -drift
			}
			if drift >= types.WakeThreshold {
				*wake = append(*wake, room)
			}
		}
	}

	room.LastTempUpdate = now
}

// handleTempReachedLocked 达到目标温度：结算、让出机位、挂起，并让等待者补位
func (c *Core) handleTempReachedLocked(room *Room, now time.Time) {
	// 重新校验，另一次推进可能已经处理过
	if !c.queue.isServing(room.RoomID) || room.CoolingPaused {
		return
	}
	if err := c.settler.settle(room, now, "target_reached"); err != nil {
		return
	}
	c.queue.removeServing(room.RoomID)
	c.pauseLocked(room, now)
}

// driftToward 朝 target 漂移至多 step 度，不允许过冲
func driftToward(current, target, step float32) float32 {
	if current > target {
		next := current - step
		if next < target {
			return target
		}
		return next
	}
	next := current + step
	if next > target {
		return target
	}
	return next
}
