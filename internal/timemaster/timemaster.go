// internal/timemaster/timemaster.go

package timemaster

import (
	"sync"
	"time"

	"hotelac/internal/logger"
)

// TimeMaster 全局逻辑时钟。调度、温度模拟、计费的所有时间戳都来自这里，
// 物理时间只出现在锚点内部。
type TimeMaster struct {
	mu            sync.Mutex
	speed         float64
	paused        bool
	anchorReal    time.Time // 上次调整参数时的物理时间
	anchorLogical time.Time // 对应的逻辑时间
}

// New 创建时钟，speed 为时间流速（1.0 为真实时间，6.0 为 6 倍速）
func New(speed float64) *TimeMaster {
	if speed <= 0 {
		speed = 1.0
	}
	now := time.Now()
	return &TimeMaster{
		speed:         speed,
		anchorReal:    now,
		anchorLogical: now,
	}
}

// Now 获取当前逻辑时间
func (tm *TimeMaster) Now() time.Time {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return tm.nowLocked()
}

func (tm *TimeMaster) nowLocked() time.Time {
	if tm.paused {
		return tm.anchorLogical
	}
	realDelta := time.Since(tm.anchorReal)
	logicalDelta := time.Duration(float64(realDelta) * tm.speed)
	return tm.anchorLogical.Add(logicalDelta)
}

// SetSpeed 动态调整流速。先结算当前逻辑时间更新锚点，防止时间跳变。
func (tm *TimeMaster) SetSpeed(speed float64) {
	if speed <= 0 {
		return
	}
	tm.mu.Lock()
	defer tm.mu.Unlock()

	tm.anchorLogical = tm.nowLocked()
	tm.anchorReal = time.Now()
	tm.speed = speed
	tm.paused = false
	logger.Info("[TimeMaster] 时间流速调整为 %.1fx", speed)
}

// Speed 当前流速
func (tm *TimeMaster) Speed() float64 {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return tm.speed
}

// Pause 暂停时间
func (tm *TimeMaster) Pause() {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if !tm.paused {
		tm.anchorLogical = tm.nowLocked()
		tm.paused = true
		logger.Info("[TimeMaster] 时间已暂停")
	}
}

// Resume 恢复时间
func (tm *TimeMaster) Resume() {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tm.paused {
		tm.anchorReal = time.Now()
		tm.paused = false
		logger.Info("[TimeMaster] 时间已恢复")
	}
}

// Paused 是否处于暂停状态
func (tm *TimeMaster) Paused() bool {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return tm.paused
}

// JumpTo 时间跳跃，重新锚定逻辑时间
func (tm *TimeMaster) JumpTo(target time.Time) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	tm.anchorLogical = target
	tm.anchorReal = time.Now()
	logger.Info("[TimeMaster] 时间跳转到 %s", target.Format("2006-01-02 15:04:05"))
}
