// api/router.go

package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"hotelac/internal/handlers"
	"hotelac/internal/logger"
	"hotelac/middleware"
)

// SetupRouter 注册全部路由
func SetupRouter(
	acHandler *handlers.ACHandler,
	monitorHandler *handlers.MonitorHandler,
	roomHandler *handlers.RoomHandler,
	billingHandler *handlers.BillingHandler,
	adminHandler *handlers.AdminHandler,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Cors())

	// 请求耗时日志
	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		logger.Debug("[%s] %s %s %v", c.Request.Method, path, c.ClientIP(), latency)
	})

	api := router.Group("/api")

	// 房间空调面板
	ac := api.Group("/ac")
	{
		ac.POST("/room/:roomId/start", acHandler.PowerOn)
		ac.POST("/room/:roomId/stop", acHandler.PowerOff)
		ac.PUT("/room/:roomId/temp", acHandler.ChangeTemp)
		ac.PUT("/room/:roomId/speed", acHandler.ChangeSpeed)
		ac.PUT("/room/:roomId/mode", acHandler.ChangeMode)
		ac.GET("/room/:roomId/status", acHandler.RequestState)
		ac.GET("/room/:roomId/detail", acHandler.RoomDetails)
		ac.GET("/schedule/status", acHandler.ScheduleStatus)
	}

	// 监控面板
	monitor := api.Group("/monitor")
	{
		monitor.GET("/roomstatus", monitorHandler.RoomStatus)
		monitor.GET("/queuestatus", monitorHandler.QueueStatus)
	}

	// 入住/退房
	hotel := api.Group("/hotel")
	{
		hotel.POST("/checkin", roomHandler.CheckIn)
		hotel.POST("/checkout/:roomId", roomHandler.CheckOut)
		hotel.GET("/rooms/available", roomHandler.AvailableRooms)
	}

	// 账单
	bill := api.Group("/bill")
	{
		bill.GET("", billingHandler.ListBills)
		bill.GET("/:billId", billingHandler.GetBill)
		bill.POST("/:billId/pay", billingHandler.PayBill)
		bill.GET("/:billId/export-details", billingHandler.ExportDetails)
		bill.GET("/:billId/print", billingHandler.PrintBill)
	}

	// 管理端
	admin := api.Group("/admin")
	{
		admin.POST("/rooms/:roomId/offline", adminHandler.TakeRoomOffline)
		admin.POST("/rooms/:roomId/online", adminHandler.BringRoomOnline)
		admin.GET("/config", adminHandler.GetACConfig)
		admin.PUT("/config", adminHandler.UpdateACConfig)
		admin.POST("/clock/speed", adminHandler.SetClockSpeed)
		admin.POST("/clock/pause", adminHandler.PauseClock)
		admin.POST("/clock/resume", adminHandler.ResumeClock)
		admin.POST("/maintenance/force-rotation", adminHandler.ForceSchedule)
		admin.POST("/details/export", adminHandler.ExportDetails)
		admin.GET("/reports/overview", adminHandler.Overview)
		admin.GET("/reports/ac-usage", adminHandler.ACUsageSummary)
	}

	// 测试演练
	test := api.Group("/test")
	{
		test.POST("/rooms/:roomId/init-temp", adminHandler.InitRoomTemp)
	}

	return router
}
