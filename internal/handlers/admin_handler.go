// internal/handlers/admin_handler.go

package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotelac/internal/core"
	"hotelac/internal/db"
	"hotelac/internal/service"
	"hotelac/internal/types"
)

// AdminHandler 管理端：维修状态、时钟控制、空调配置、详单批量导出、报表
type AdminHandler struct {
	core           *core.Core
	billingService *service.BillingService
	reportService  *service.ReportService
	acConfigRepo   *db.ACConfigRepository
}

func NewAdminHandler(
	c *core.Core,
	billingService *service.BillingService,
	reportService *service.ReportService,
	acConfigRepo *db.ACConfigRepository,
) *AdminHandler {
	return &AdminHandler{
		core:           c,
		billingService: billingService,
		reportService:  reportService,
		acConfigRepo:   acConfigRepo,
	}
}

// TakeRoomOffline 标记房间维修
func (h *AdminHandler) TakeRoomOffline(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	if err := h.core.SetMaintenance(roomID, true); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Code: 0, Msg: "房间已标记为维修"})
}

// BringRoomOnline 维修完成，房间重新可用
func (h *AdminHandler) BringRoomOnline(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	if err := h.core.SetMaintenance(roomID, false); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Code: 0, Msg: "房间已重新可用"})
}

// GetACConfig 两种模式的空调配置
func (h *AdminHandler) GetACConfig(c *gin.Context) {
	cooling, err := h.acConfigRepo.GetByMode(types.ModeCooling)
	if err != nil {
		respondError(c, err)
		return
	}
	heating, err := h.acConfigRepo.GetByMode(types.ModeHeating)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Code: 0, Msg: "Success", Data: gin.H{
		"cooling": cooling,
		"heating": heating,
	}})
}

type acConfigUpdateRequest struct {
	Mode            types.Mode `json:"mode" binding:"required"`
	MinTemp         float32    `json:"minTemp" binding:"required"`
	MaxTemp         float32    `json:"maxTemp" binding:"required"`
	DefaultTemp     float32    `json:"defaultTemp" binding:"required"`
	LowSpeedRate    *float32   `json:"lowSpeedRate"`
	MediumSpeedRate *float32   `json:"mediumSpeedRate"`
	HighSpeedRate   *float32   `json:"highSpeedRate"`
}

// UpdateACConfig 调整某模式的温度范围，可顺带更新风速费率。
// 新范围立即作用于后续 ChangeTemp 的校验。
func (h *AdminHandler) UpdateACConfig(c *gin.Context) {
	var req acConfigUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Code: -1, Msg: "请求参数错误", Err: err.Error()})
		return
	}
	if !types.ValidMode(req.Mode) {
		c.JSON(http.StatusBadRequest, Response{Code: -1, Msg: "无效的工作模式"})
		return
	}
	if req.MinTemp > req.MaxTemp || req.DefaultTemp < req.MinTemp || req.DefaultTemp > req.MaxTemp {
		c.JSON(http.StatusBadRequest, Response{Code: -1, Msg: "温度范围不合法"})
		return
	}

	if err := h.acConfigRepo.SetTemperatureRange(&db.ACConfig{
		Mode:        req.Mode,
		MinTemp:     req.MinTemp,
		MaxTemp:     req.MaxTemp,
		DefaultTemp: req.DefaultTemp,
	}); err != nil {
		respondError(c, err)
		return
	}
	if req.LowSpeedRate != nil && req.MediumSpeedRate != nil && req.HighSpeedRate != nil {
		if err := h.acConfigRepo.SetSpeedRates(*req.LowSpeedRate, *req.MediumSpeedRate, *req.HighSpeedRate); err != nil {
			respondError(c, err)
			return
		}
	}

	h.core.UpdateTempRange(req.Mode, req.MinTemp, req.MaxTemp, req.DefaultTemp)
	c.JSON(http.StatusOK, Response{Code: 0, Msg: "空调配置已更新"})
}

// SetClockSpeed 调整逻辑时钟流速
func (h *AdminHandler) SetClockSpeed(c *gin.Context) {
	raw := c.Query("speed")
	speed, err := strconv.ParseFloat(raw, 64)
	if err != nil || speed <= 0 {
		c.JSON(http.StatusBadRequest, Response{Code: -1, Msg: "speed 必须是正数"})
		return
	}
	h.core.Clock().SetSpeed(speed)
	c.JSON(http.StatusOK, Response{Code: 0, Msg: fmt.Sprintf("时间流速调整为 %.1fx", speed)})
}

// PauseClock 暂停逻辑时钟
func (h *AdminHandler) PauseClock(c *gin.Context) {
	h.core.Clock().Pause()
	c.JSON(http.StatusOK, Response{Code: 0, Msg: "时间已暂停"})
}

// ResumeClock 恢复逻辑时钟
func (h *AdminHandler) ResumeClock(c *gin.Context) {
	h.core.Clock().Resume()
	c.JSON(http.StatusOK, Response{Code: 0, Msg: "时间已恢复"})
}

// ForceSchedule 手动触发一次调度
func (h *AdminHandler) ForceSchedule(c *gin.Context) {
	h.core.Tick()
	c.JSON(http.StatusOK, Response{Code: 0, Msg: "调度已执行", Data: h.core.ScheduleStatus()})
}

type exportRequest struct {
	RoomID *int `json:"roomId"`
}

// ExportDetails 为每个房间生成一张详单 CSV，保存到本地 csv 目录
func (h *AdminHandler) ExportDetails(c *gin.Context) {
	var req exportRequest
	_ = c.ShouldBindJSON(&req)

	var roomIDs []int
	if req.RoomID != nil {
		roomIDs = []int{*req.RoomID}
	} else {
		for _, room := range h.core.RoomOverviews() {
			roomIDs = append(roomIDs, room.RoomID)
		}
	}

	if err := os.MkdirAll("csv", 0755); err != nil {
		c.JSON(http.StatusInternalServerError, Response{Code: -1, Msg: "创建导出目录失败", Err: err.Error()})
		return
	}

	timestamp := h.core.Clock().Now().Format("20060102_150405")
	type exportedFile struct {
		RoomID   int    `json:"roomId"`
		Filename string `json:"filename"`
		Count    int    `json:"count"`
	}
	var files []exportedFile
	totalCount := 0

	for _, roomID := range roomIDs {
		content, count, err := h.billingService.ExportRoomDetailsCSV(roomID)
		if err != nil {
			respondError(c, err)
			return
		}
		filename := fmt.Sprintf("room_%d_details_%s.csv", roomID, timestamp)
		if err := os.WriteFile(filepath.Join("csv", filename), content, 0644); err != nil {
			c.JSON(http.StatusInternalServerError, Response{Code: -1, Msg: "保存详单文件失败", Err: err.Error()})
			return
		}
		files = append(files, exportedFile{RoomID: roomID, Filename: filename, Count: count})
		totalCount += count
	}

	c.JSON(http.StatusOK, Response{
		Code: 0,
		Msg:  fmt.Sprintf("已为 %d 个房间生成详单", len(roomIDs)),
		Data: gin.H{"files": files, "totalCount": totalCount},
	})
}

// Overview 经营总览报表
func (h *AdminHandler) Overview(c *gin.Context) {
	overview, err := h.reportService.GetOverview(nil, nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Code: 0, Msg: "Success", Data: overview})
}

// ACUsageSummary 空调使用汇总报表
func (h *AdminHandler) ACUsageSummary(c *gin.Context) {
	summary, err := h.reportService.ACUsageSummary()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Code: 0, Msg: "Success", Data: summary})
}

// InitRoomTemp 测试演练：重置房间温度
func (h *AdminHandler) InitRoomTemp(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	raw := c.Query("temperature")
	value, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Code: -1, Msg: "temperature 格式错误"})
		return
	}

	if err := h.core.InitRoomTemp(roomID, float32(value)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Code: 0, Msg: "温度初始化成功"})
}
