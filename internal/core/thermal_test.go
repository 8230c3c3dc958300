package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelac/internal/types"
)

// 到温暂停：30度高风吹5分钟到25度，结算5.0元并挂起
func TestReachAndPause(t *testing.T) {
	c, clock := newTestCore(t)

	require.NoError(t, c.InitRoomTemp(1, 30))
	_, err := c.PowerOn(1, nil)
	require.NoError(t, err)
	_, err = c.ChangeSpeed(1, types.SpeedHigh)
	require.NoError(t, err)

	advance(clock, 5*time.Minute)
	c.Tick()
	requireInvariants(t, c)

	state, err := c.RequestState(1)
	require.NoError(t, err)
	assert.Equal(t, types.QueuePaused, state.QueueState)
	assert.InDelta(t, 25.0, state.CurrentTemp, 0.01)

	details := acDetails(t, c, 1)
	require.Len(t, details, 1)
	assert.InDelta(t, 5.0, details[0].Cost, 0.01)

	// 暂停不占机位
	assert.Empty(t, c.ScheduleStatus().Serving)
}

// 回温唤醒：暂停后漂移满1度重新入队，新区间从回温后的温度开始
func TestRewarmWake(t *testing.T) {
	c, clock := newTestCore(t)

	require.NoError(t, c.InitRoomTemp(1, 30))
	_, err := c.PowerOn(1, nil)
	require.NoError(t, err)
	_, err = c.ChangeSpeed(1, types.SpeedHigh)
	require.NoError(t, err)

	advance(clock, 5*time.Minute)
	c.Tick()

	// 回温 0.5度/分钟，2分钟恰好1.0度，必须唤醒
	advance(clock, 2*time.Minute)
	c.Tick()
	requireInvariants(t, c)

	state, err := c.RequestState(1)
	require.NoError(t, err)
	assert.Equal(t, types.QueueServing, state.QueueState)
	assert.InDelta(t, 26.0, state.CurrentTemp, 0.01)

	c.mu.Lock()
	room := c.rooms.get(1)
	require.NotNil(t, room.BillingStartTemp)
	assert.InDelta(t, 26.0, *room.BillingStartTemp, 0.01)
	assert.False(t, room.CoolingPaused)
	c.mu.Unlock()
}

// 开机即在目标温度：直接挂起，不消耗机位，不落详单
func TestPowerOnAlreadyAtTarget(t *testing.T) {
	c, _ := newTestCore(t)

	require.NoError(t, c.InitRoomTemp(2, 25))
	_, err := c.PowerOn(2, nil)
	require.NoError(t, err)
	requireInvariants(t, c)

	state, err := c.RequestState(2)
	require.NoError(t, err)
	assert.Equal(t, types.QueuePaused, state.QueueState)
	assert.Empty(t, c.ScheduleStatus().Serving)
	assert.Empty(t, acDetails(t, c, 2))
}

// 等待队列中的房间同样向环境温度回温
func TestWaitingRoomRewarms(t *testing.T) {
	c, clock := newTestCore(t)

	for _, roomID := range []int{1, 2, 3} {
		_, err := c.PowerOn(roomID, nil)
		require.NoError(t, err)
		_, err = c.ChangeTemp(roomID, 18)
		require.NoError(t, err)
	}
	// 房间4环境温度29，从26度开始等待
	_, err := c.PowerOn(4, floatPtr(26))
	require.NoError(t, err)

	// 1分钟回温0.5度；不能等满时间片，否则轮转会把它换入
	advance(clock, time.Minute)
	c.Tick()

	state, err := c.RequestState(4)
	require.NoError(t, err)
	require.Equal(t, types.QueueWaiting, state.QueueState)
	assert.InDelta(t, 26.5, state.CurrentTemp, 0.01)
}

// 关机房间向环境温度漂移，不允许过冲
func TestOffRoomDriftClamped(t *testing.T) {
	c, clock := newTestCore(t)

	require.NoError(t, c.InitRoomTemp(1, 30))
	_, err := c.PowerOn(1, floatPtr(28))
	require.NoError(t, err)
	_, err = c.PowerOff(1)
	require.NoError(t, err)

	// 关机复位已回到环境温度，长时间漂移保持不变
	advance(clock, time.Hour)
	c.Tick()

	state, err := c.RequestState(1)
	require.NoError(t, err)
	assert.InDelta(t, 30.0, state.CurrentTemp, 0.01)
}

// 零时长推进是幂等空操作：温度不变，不产生新详单
func TestIdempotentTick(t *testing.T) {
	c, clock := newTestCore(t)

	_, err := c.PowerOn(1, nil)
	require.NoError(t, err)
	advance(clock, time.Minute)
	c.Tick()

	before, err := c.RequestState(1)
	require.NoError(t, err)
	beforeDetails := len(acDetails(t, c, 1))

	for i := 0; i < 5; i++ {
		c.Tick()
	}

	after, err := c.RequestState(1)
	require.NoError(t, err)
	assert.Equal(t, before.CurrentTemp, after.CurrentTemp)
	assert.Equal(t, beforeDetails, len(acDetails(t, c, 1)))
	requireInvariants(t, c)
}

// 制热模式向上逼近目标温度
func TestHeatingAdvance(t *testing.T) {
	c, clock := newTestCore(t)

	require.NoError(t, c.InitRoomTemp(1, 18))
	_, err := c.PowerOn(1, nil)
	require.NoError(t, err)
	_, err = c.ChangeMode(1, types.ModeHeating)
	require.NoError(t, err)

	// 制热默认目标23度，中风 0.5度/分钟
	advance(clock, 4*time.Minute)
	c.Tick()

	state, err := c.RequestState(1)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, state.CurrentTemp, 0.01)
	assert.Equal(t, types.QueueServing, state.QueueState)

	// 到温后结算升温温差
	advance(clock, 10*time.Minute)
	c.Tick()

	state, err = c.RequestState(1)
	require.NoError(t, err)
	assert.Equal(t, types.QueuePaused, state.QueueState)
	details := acDetails(t, c, 1)
	require.Len(t, details, 1)
	assert.InDelta(t, 5.0, details[0].Cost, 0.01)
}
