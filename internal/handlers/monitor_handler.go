// internal/handlers/monitor_handler.go

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotelac/internal/core"
)

// MonitorHandler 监控面板只读视图
type MonitorHandler struct {
	core *core.Core
}

func NewMonitorHandler(c *core.Core) *MonitorHandler {
	return &MonitorHandler{core: c}
}

// RoomStatus 全部房间的状态行
func (h *MonitorHandler) RoomStatus(c *gin.Context) {
	states, err := h.core.AllRequestStates()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, states)
}

// QueueStatus 服务/等待队列快照
func (h *MonitorHandler) QueueStatus(c *gin.Context) {
	status := h.core.ScheduleStatus()
	c.JSON(http.StatusOK, gin.H{
		"servingQueue": status.Serving,
		"waitingQueue": status.Waiting,
	})
}
