package timemaster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPausedClockStandsStill(t *testing.T) {
	tm := New(6.0)
	tm.Pause()

	first := tm.Now()
	time.Sleep(20 * time.Millisecond)
	second := tm.Now()

	assert.Equal(t, first, second)
	assert.True(t, tm.Paused())
}

func TestJumpTo(t *testing.T) {
	tm := New(1.0)
	tm.Pause()

	target := tm.Now().Add(42 * time.Minute)
	tm.JumpTo(target)

	assert.Equal(t, target, tm.Now())
}

// 调速重新锚定，逻辑时间不发生跳变
func TestSetSpeedKeepsContinuity(t *testing.T) {
	tm := New(1.0)

	before := tm.Now()
	tm.SetSpeed(100.0)
	after := tm.Now()

	require.False(t, after.Before(before), "时间不能倒流")
	assert.Less(t, after.Sub(before), time.Second, "调速瞬间不允许跳变")
	assert.Equal(t, 100.0, tm.Speed())
}

// 暂停期间时间静止，恢复后从暂停点继续
func TestPauseResumeContinuity(t *testing.T) {
	tm := New(10.0)

	tm.Pause()
	pausedAt := tm.Now()
	time.Sleep(20 * time.Millisecond)
	tm.Resume()

	resumed := tm.Now()
	require.False(t, resumed.Before(pausedAt))
	// 暂停的20ms不计入逻辑时间
	assert.Less(t, resumed.Sub(pausedAt), time.Second)
}

// 加速时钟的逻辑流逝明显快于物理流逝
func TestAcceleratedFlow(t *testing.T) {
	tm := New(60.0)

	start := tm.Now()
	time.Sleep(50 * time.Millisecond)
	elapsed := tm.Now().Sub(start)

	// 50ms 物理时间 × 60倍速 ≈ 3s 逻辑时间
	assert.Greater(t, elapsed, 2*time.Second)
	assert.Less(t, elapsed, 10*time.Second)
}

func TestInvalidSpeedIgnored(t *testing.T) {
	tm := New(0)
	assert.Equal(t, 1.0, tm.Speed())

	tm.SetSpeed(-5)
	assert.Equal(t, 1.0, tm.Speed())
}
