// internal/service/monitor.go

package service

import (
	"time"

	"hotelac/internal/core"
	"hotelac/internal/logger"
)

// MonitorService 周期触发核心的温度推进与调度。
// 查询路径也会推进模拟，这里的定时器保证没有查询时温度照样演化。
type MonitorService struct {
	core     *core.Core
	interval time.Duration
	stopChan chan struct{}
}

func NewMonitorService(c *core.Core, interval time.Duration) *MonitorService {
	if interval <= 0 {
		interval = time.Second
	}
	return &MonitorService{
		core:     c,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Run 阻塞运行，Stop 后返回
func (m *MonitorService) Run() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	logger.Info("温度模拟定时器启动, 周期 %s", m.interval)
	for {
		select {
		case <-ticker.C:
			m.core.Tick()
		case <-m.stopChan:
			logger.Info("温度模拟定时器停止")
			return
		}
	}
}

// Stop 停止定时器
func (m *MonitorService) Stop() {
	close(m.stopChan)
}
