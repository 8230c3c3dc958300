// internal/handlers/ac_handler.go

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotelac/internal/core"
	"hotelac/internal/service"
	"hotelac/internal/types"
)

// ACHandler 房间空调控制面板
type ACHandler struct {
	core           *core.Core
	billingService *service.BillingService
}

func NewACHandler(c *core.Core, billingService *service.BillingService) *ACHandler {
	return &ACHandler{core: c, billingService: billingService}
}

func roomIDParam(c *gin.Context) (int, bool) {
	roomID, err := strconv.Atoi(c.Param("roomId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Code: -1, Msg: "房间号格式错误"})
		return 0, false
	}
	return roomID, true
}

// PowerOn 开机，currentTemp 可选
func (h *ACHandler) PowerOn(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	var currentTemp *float32
	if raw := c.Query("currentTemp"); raw != "" {
		value, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, Response{Code: -1, Msg: "currentTemp 格式错误"})
			return
		}
		temp := float32(value)
		currentTemp = &temp
	}

	msg, err := h.core.PowerOn(roomID, currentTemp)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Code: 0, Msg: msg})
}

// PowerOff 关机
func (h *ACHandler) PowerOff(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	msg, err := h.core.PowerOff(roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Code: 0, Msg: msg})
}

// ChangeTemp 调整目标温度
func (h *ACHandler) ChangeTemp(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	raw := c.Query("targetTemp")
	if raw == "" {
		c.JSON(http.StatusBadRequest, Response{Code: -1, Msg: "targetTemp 不能为空"})
		return
	}
	value, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Code: -1, Msg: "targetTemp 格式错误"})
		return
	}

	msg, err := h.core.ChangeTemp(roomID, float32(value))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Code: 0, Msg: msg})
}

// ChangeSpeed 调整风速
func (h *ACHandler) ChangeSpeed(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	speed := c.Query("fanSpeed")
	if speed == "" {
		c.JSON(http.StatusBadRequest, Response{Code: -1, Msg: "fanSpeed 不能为空"})
		return
	}

	msg, err := h.core.ChangeSpeed(roomID, types.FanSpeed(speed))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Code: 0, Msg: msg})
}

// ChangeMode 切换工作模式
func (h *ACHandler) ChangeMode(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	mode := c.Query("mode")
	if mode == "" {
		c.JSON(http.StatusBadRequest, Response{Code: -1, Msg: "mode 不能为空"})
		return
	}

	msg, err := h.core.ChangeMode(roomID, types.Mode(mode))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Code: 0, Msg: msg})
}

// RequestState 房间状态快照
func (h *ACHandler) RequestState(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	state, err := h.core.RequestState(roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// RoomDetails 房间的空调详单
func (h *ACHandler) RoomDetails(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	details, err := h.billingService.RoomACDetails(roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Code: 0, Msg: "Success", Data: details})
}

// ScheduleStatus 调度队列全局视图
func (h *ACHandler) ScheduleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.core.ScheduleStatus())
}
