package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelac/internal/types"
)

// 容量溢出：3台空调满载后第4个请求进等待队列
func TestCapacityOverflow(t *testing.T) {
	c, clock := newTestCore(t)

	for _, roomID := range []int{1, 2, 3} {
		_, err := c.PowerOn(roomID, nil)
		require.NoError(t, err)
		requireInvariants(t, c)
	}

	advance(clock, 5*time.Second)
	_, err := c.PowerOn(4, nil)
	require.NoError(t, err)
	requireInvariants(t, c)

	status := c.ScheduleStatus()
	require.Len(t, status.Serving, 3)
	require.Len(t, status.Waiting, 1)
	assert.Equal(t, 4, status.Waiting[0].RoomID)
	assert.InDelta(t, 0, status.Waiting[0].WaitingSeconds, 0.5)

	state, err := c.RequestState(4)
	require.NoError(t, err)
	assert.Equal(t, types.QueueWaiting, state.QueueState)
}

// 优先级抢占：高风请求换出服务最久的中风房间，被抢占区间结算落详单
func TestPriorityPreemption(t *testing.T) {
	c, clock := newTestCore(t)

	for _, roomID := range []int{1, 2, 3} {
		_, err := c.PowerOn(roomID, nil)
		require.NoError(t, err)
	}
	advance(clock, 5*time.Second)
	_, err := c.PowerOn(4, nil)
	require.NoError(t, err)

	advance(clock, 5*time.Second)
	_, err = c.PowerOn(5, nil)
	require.NoError(t, err)
	// 满载，房间5先进等待队列
	state, err := c.RequestState(5)
	require.NoError(t, err)
	require.Equal(t, types.QueueWaiting, state.QueueState)

	// 调到高风后按新请求重新准入，触发抢占
	_, err = c.ChangeSpeed(5, types.SpeedHigh)
	require.NoError(t, err)
	requireInvariants(t, c)

	state, err = c.RequestState(5)
	require.NoError(t, err)
	assert.Equal(t, types.QueueServing, state.QueueState)

	// 牺牲者是服务最久的房间1
	state, err = c.RequestState(1)
	require.NoError(t, err)
	assert.Equal(t, types.QueueWaiting, state.QueueState)

	// 房间1服务10秒，中风 0.5度/分钟 → 温差 1/12 度
	details := acDetails(t, c, 1)
	require.Len(t, details, 1)
	assert.InDelta(t, 10.0/60.0*0.5, details[0].Cost, 0.01)
	assert.Equal(t, types.SpeedMedium, details[0].FanSpeed)
	assert.Equal(t, float32(1.0), details[0].Rate)
}

// 时间片轮转：等待满120模拟秒后换出同优先级中服务最久者
func TestTimeSliceRotation(t *testing.T) {
	c, clock := newTestCore(t)

	for _, roomID := range []int{1, 2, 3} {
		_, err := c.PowerOn(roomID, nil)
		require.NoError(t, err)
	}
	_, err := c.PowerOn(4, nil)
	require.NoError(t, err)

	state, err := c.RequestState(4)
	require.NoError(t, err)
	require.Equal(t, types.QueueWaiting, state.QueueState)

	advance(clock, 120*time.Second)
	c.Tick()
	requireInvariants(t, c)

	// 房间4换入，换出的房间落详单
	state, err = c.RequestState(4)
	require.NoError(t, err)
	assert.Equal(t, types.QueueServing, state.QueueState)

	status := c.ScheduleStatus()
	require.Len(t, status.Serving, 3)
	require.Len(t, status.Waiting, 1)
	victimID := status.Waiting[0].RoomID
	assert.Contains(t, []int{1, 2, 3}, victimID)

	// 120秒 = 2模拟分钟，中风共降1.0度
	details := acDetails(t, c, victimID)
	require.Len(t, details, 1)
	assert.InDelta(t, 1.0, details[0].Cost, 0.01)
}

// 轮转不会让低风等待者换出高风在服房间
func TestRotationHonorsPriority(t *testing.T) {
	c, clock := newTestCore(t)

	for _, roomID := range []int{1, 2, 3} {
		_, err := c.PowerOn(roomID, nil)
		require.NoError(t, err)
		_, err = c.ChangeSpeed(roomID, types.SpeedHigh)
		require.NoError(t, err)
		// 目标压到下界，避免等待期间有房间到温让位
		_, err = c.ChangeTemp(roomID, 18)
		require.NoError(t, err)
	}
	_, err := c.PowerOn(4, nil)
	require.NoError(t, err)
	_, err = c.ChangeSpeed(4, types.SpeedLow)
	require.NoError(t, err)

	advance(clock, 200*time.Second)
	c.Tick()
	requireInvariants(t, c)

	state, err := c.RequestState(4)
	require.NoError(t, err)
	assert.Equal(t, types.QueueWaiting, state.QueueState, "低风等待者不能换出高风房间")
}

// 风速切换计费：旧风速区间先结算，新区间从当前温度重新开始
func TestChangeSpeedBilling(t *testing.T) {
	c, clock := newTestCore(t)

	// 房间3初始30度，目标默认25度
	_, err := c.PowerOn(3, nil)
	require.NoError(t, err)
	_, err = c.ChangeSpeed(3, types.SpeedHigh)
	require.NoError(t, err)

	advance(clock, 3*time.Minute)
	_, err = c.ChangeSpeed(3, types.SpeedLow)
	require.NoError(t, err)
	requireInvariants(t, c)

	// 高风3分钟 30→27，结算3.0元
	details := acDetails(t, c, 3)
	require.Len(t, details, 1)
	assert.InDelta(t, 3.0, details[0].Cost, 0.01)
	assert.Equal(t, types.SpeedHigh, details[0].FanSpeed)
	assert.Equal(t, float32(1.0), details[0].Rate)

	// 新区间锚定在27度、低风
	c.mu.Lock()
	room := c.rooms.get(3)
	require.NotNil(t, room.BillingStartTemp)
	assert.InDelta(t, 27.0, *room.BillingStartTemp, 0.01)
	assert.Equal(t, types.SpeedLow, room.FanSpeed)
	c.mu.Unlock()
}

// 相同风速是良性空操作
func TestChangeSpeedSameSpeed(t *testing.T) {
	c, _ := newTestCore(t)

	_, err := c.PowerOn(1, nil)
	require.NoError(t, err)

	msg, err := c.ChangeSpeed(1, types.SpeedMedium)
	require.NoError(t, err)
	assert.Equal(t, "风速未变化", msg)
	assert.Empty(t, acDetails(t, c, 1))
}

// 关机恢复初始状态：锚点清空、温度回环境、风速回中风、目标回模式默认
func TestPowerOffRoundTrip(t *testing.T) {
	c, clock := newTestCore(t)

	_, err := c.PowerOn(2, floatPtr(28))
	require.NoError(t, err)
	advance(clock, time.Minute)

	_, err = c.PowerOff(2)
	require.NoError(t, err)
	requireInvariants(t, c)

	c.mu.Lock()
	room := c.rooms.get(2)
	assert.False(t, room.ACOn)
	assert.Nil(t, room.ServingStartTime)
	assert.Nil(t, room.BillingStartTemp)
	assert.Nil(t, room.WaitingStartTime)
	assert.Nil(t, room.ACSessionStart)
	assert.False(t, room.CoolingPaused)
	assert.Equal(t, room.DefaultTemp, room.CurrentTemp)
	assert.Equal(t, types.SpeedMedium, room.FanSpeed)
	require.NotNil(t, room.TargetTemp)
	assert.Equal(t, float32(25), *room.TargetTemp)
	c.mu.Unlock()

	// 1分钟中风 = 0.5度
	details := acDetails(t, c, 2)
	require.Len(t, details, 1)
	assert.InDelta(t, 0.5, details[0].Cost, 0.01)

	state, err := c.RequestState(2)
	require.NoError(t, err)
	assert.Equal(t, types.QueueIdle, state.QueueState)
}

// 关机释放机位后等待者晋升
func TestPowerOffPromotesWaiter(t *testing.T) {
	c, _ := newTestCore(t)

	for _, roomID := range []int{1, 2, 3, 4} {
		_, err := c.PowerOn(roomID, nil)
		require.NoError(t, err)
	}

	_, err := c.PowerOff(1)
	require.NoError(t, err)
	requireInvariants(t, c)

	state, err := c.RequestState(4)
	require.NoError(t, err)
	assert.Equal(t, types.QueueServing, state.QueueState)
}

// 命令前置条件与错误分类
func TestCommandPreconditions(t *testing.T) {
	c, _ := newTestCore(t)

	_, err := c.PowerOn(99, nil)
	assert.ErrorIs(t, err, ErrRoomNotFound)

	_, err = c.PowerOff(1)
	assert.ErrorIs(t, err, ErrACNotOn)

	_, err = c.ChangeTemp(1, 24)
	assert.ErrorIs(t, err, ErrACNotOn)

	_, err = c.PowerOn(1, nil)
	require.NoError(t, err)
	_, err = c.PowerOn(1, nil)
	assert.ErrorIs(t, err, ErrACAlreadyOn)
	assert.True(t, IsBenign(err))

	// 制冷模式边界 [18, 28]
	_, err = c.ChangeTemp(1, 17.9)
	assert.ErrorIs(t, err, ErrTempOutOfRange)
	_, err = c.ChangeTemp(1, 18)
	assert.NoError(t, err)
	_, err = c.ChangeTemp(1, 28)
	assert.NoError(t, err)
	_, err = c.ChangeTemp(1, 28.1)
	assert.ErrorIs(t, err, ErrTempOutOfRange)

	_, err = c.ChangeSpeed(1, "TURBO")
	assert.ErrorIs(t, err, ErrInvalidSpeed)
	_, err = c.ChangeMode(1, "AUTO")
	assert.ErrorIs(t, err, ErrInvalidMode)

	requireInvariants(t, c)
}

// 模式切换：结算旧区间，目标温度重置为新模式默认值
func TestChangeMode(t *testing.T) {
	c, clock := newTestCore(t)

	_, err := c.PowerOn(1, floatPtr(30))
	require.NoError(t, err)
	advance(clock, 2*time.Minute)

	_, err = c.ChangeMode(1, types.ModeHeating)
	require.NoError(t, err)
	requireInvariants(t, c)

	c.mu.Lock()
	room := c.rooms.get(1)
	assert.Equal(t, types.ModeHeating, room.ACMode)
	require.NotNil(t, room.TargetTemp)
	assert.Equal(t, float32(23), *room.TargetTemp)
	c.mu.Unlock()

	// 切换前中风2分钟降1度
	details := acDetails(t, c, 1)
	require.Len(t, details, 1)
	assert.InDelta(t, 1.0, details[0].Cost, 0.01)
}

// 管理端调整温度范围后，ChangeTemp 校验立即按新范围执行
func TestUpdateTempRange(t *testing.T) {
	c, _ := newTestCore(t)

	_, err := c.PowerOn(1, nil)
	require.NoError(t, err)

	_, err = c.ChangeTemp(1, 16)
	require.ErrorIs(t, err, ErrTempOutOfRange)

	c.UpdateTempRange(types.ModeCooling, 16, 30, 24)

	_, err = c.ChangeTemp(1, 16)
	assert.NoError(t, err)
	_, err = c.ChangeTemp(1, 30.1)
	assert.ErrorIs(t, err, ErrTempOutOfRange)
}

// 任意命令序列后容量与锚点不变量都成立
func TestInvariantsAcrossCommandSequence(t *testing.T) {
	c, clock := newTestCore(t)

	steps := []func() error{
		func() error { _, err := c.PowerOn(1, nil); return err },
		func() error { _, err := c.PowerOn(2, nil); return err },
		func() error { _, err := c.PowerOn(3, nil); return err },
		func() error { _, err := c.PowerOn(4, nil); return err },
		func() error { _, err := c.ChangeSpeed(4, types.SpeedHigh); return err },
		func() error { _, err := c.PowerOn(5, nil); return err },
		func() error { _, err := c.ChangeTemp(2, 20); return err },
		func() error { _, err := c.ChangeSpeed(1, types.SpeedLow); return err },
		func() error { _, err := c.PowerOff(3); return err },
		func() error { _, err := c.ChangeMode(2, types.ModeHeating); return err },
		func() error { _, err := c.PowerOff(4); return err },
		func() error { _, err := c.PowerOff(1); return err },
	}

	for i, step := range steps {
		require.NoError(t, step(), "step %d", i)
		requireInvariants(t, c)
		advance(clock, 7*time.Second)
		c.Tick()
		requireInvariants(t, c)
	}
}
