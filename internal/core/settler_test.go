package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelac/internal/types"
)

// 同一服务区间只结算一次：锚点被还原后重放，唯一键挡住第二条详单
func TestDoubleSettleGuard(t *testing.T) {
	c, clock := newTestCore(t)

	_, err := c.PowerOn(1, nil)
	require.NoError(t, err)
	advance(clock, 2*time.Minute)

	c.mu.Lock()
	room := c.rooms.get(1)
	now := clock.Now()
	c.advanceAllLocked(now)
	start := *room.ServingStartTime
	startTemp := *room.BillingStartTemp

	require.NoError(t, c.settler.settle(room, now, "test"))
	require.Nil(t, room.ServingStartTime)

	// 模拟并发路径把同一区间的锚点又放回来
	room.ServingStartTime = &start
	room.BillingStartTemp = &startTemp
	require.NoError(t, c.settler.settle(room, now, "test_replay"))
	require.Nil(t, room.ServingStartTime, "重复结算后锚点必须清空")
	c.mu.Unlock()

	details := acDetails(t, c, 1)
	assert.Len(t, details, 1, "同一区间不允许出现两条详单")
}

// 温差可忽略的区间不落详单，但锚点照常清空
func TestSettleNegligibleDiff(t *testing.T) {
	c, clock := newTestCore(t)

	_, err := c.PowerOn(1, nil)
	require.NoError(t, err)

	c.mu.Lock()
	room := c.rooms.get(1)
	require.NoError(t, c.settler.settle(room, clock.Now(), "test"))
	assert.Nil(t, room.ServingStartTime)
	assert.Nil(t, room.BillingStartTemp)
	c.mu.Unlock()

	assert.Empty(t, acDetails(t, c, 1))
}

// 锚点半空半满是不变量破坏，结算必须拒绝而不是悄悄修复
func TestSettleInvariantViolation(t *testing.T) {
	c, clock := newTestCore(t)

	_, err := c.PowerOn(1, nil)
	require.NoError(t, err)

	c.mu.Lock()
	room := c.rooms.get(1)
	room.BillingStartTemp = nil // 人为破坏
	err = c.settler.settle(room, clock.Now(), "test")
	c.mu.Unlock()

	assert.ErrorIs(t, err, ErrInvariantViolation)
}

// 结算方向与模式绑定：制冷模式按降温温差计费，并记录区间时长
func TestSettleDirectionByMode(t *testing.T) {
	c, clock := newTestCore(t)

	_, err := c.PowerOn(1, nil)
	require.NoError(t, err)
	advance(clock, 4*time.Minute)

	c.mu.Lock()
	room := c.rooms.get(1)
	now := clock.Now()
	c.advanceAllLocked(now)
	// 32 → 30，制冷温差 2 度
	require.NoError(t, c.settler.settle(room, now, "test"))
	c.mu.Unlock()

	details := acDetails(t, c, 1)
	require.Len(t, details, 1)
	assert.InDelta(t, 2.0, details[0].Cost, 0.01)
	assert.Greater(t, details[0].EndTime, details[0].StartTime)
	assert.InDelta(t, 4.0, details[0].DurationMinutes, 0.01)
}

// 开机周期房费：每次开机一条 ROOM_FEE，金额为日房费
func TestCycleRoomFee(t *testing.T) {
	c, clock := newTestCore(t)
	c.cfg.EnableCycleDailyFee = true

	_, err := c.PowerOn(2, nil)
	require.NoError(t, err)
	advance(clock, time.Minute)
	_, err = c.PowerOff(2)
	require.NoError(t, err)
	_, err = c.PowerOn(2, nil)
	require.NoError(t, err)

	details, err := c.detailRepo.GetDetailsByRoom(2)
	require.NoError(t, err)

	var roomFees, cycles int
	for _, d := range details {
		switch d.DetailType {
		case types.DetailTypeRoomFee:
			roomFees++
			assert.Equal(t, float32(125.0), d.Cost) // 房间2日房费125
			assert.Equal(t, d.StartTime, d.EndTime)
		case types.DetailTypePowerOffCycle:
			cycles++
			assert.Equal(t, float32(0), d.Cost)
		}
	}
	assert.Equal(t, 2, roomFees)
	assert.Equal(t, 1, cycles)
}

// 快照费用等于详单费用之和
func TestFeesMatchDetails(t *testing.T) {
	c, clock := newTestCore(t)
	c.cfg.EnableCycleDailyFee = true

	_, err := c.PowerOn(1, nil)
	require.NoError(t, err)
	advance(clock, 3*time.Minute)
	_, err = c.ChangeSpeed(1, types.SpeedHigh)
	require.NoError(t, err)
	advance(clock, 2*time.Minute)
	_, err = c.PowerOff(1)
	require.NoError(t, err)

	state, err := c.RequestState(1)
	require.NoError(t, err)

	var acSum, roomSum float32
	details, err := c.detailRepo.GetDetailsByRoom(1)
	require.NoError(t, err)
	for _, d := range details {
		switch d.DetailType {
		case types.DetailTypeAC:
			acSum += d.Cost
		case types.DetailTypeRoomFee:
			roomSum += d.Cost
		}
	}
	assert.InDelta(t, acSum, state.ACFee, 0.001)
	assert.InDelta(t, roomSum, state.RoomFee, 0.001)
	assert.InDelta(t, acSum+roomSum, state.TotalCost, 0.001)

	// 中风3分钟1.5度 + 高风2分钟2.0度
	assert.InDelta(t, 3.5, acSum, 0.01)
}
