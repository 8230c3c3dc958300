// internal/app/app.go

package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"hotelac/api"
	"hotelac/internal/config"
	"hotelac/internal/core"
	"hotelac/internal/db"
	"hotelac/internal/handlers"
	"hotelac/internal/logger"
	"hotelac/internal/service"
	"hotelac/internal/timemaster"
)

// App 显式持有全部组件，取代包级单例
type App struct {
	cfg     *config.Config
	clock   *timemaster.TimeMaster
	core    *core.Core
	monitor *service.MonitorService
	server  *http.Server
}

func New(cfg *config.Config) (*App, error) {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := db.SeedRooms(database, cfg.RoomCount); err != nil {
		return nil, fmt.Errorf("初始化房间数据失败: %v", err)
	}
	if err := db.SeedACConfig(database); err != nil {
		return nil, fmt.Errorf("初始化空调配置失败: %v", err)
	}

	clock := timemaster.New(cfg.TimeAcceleration)
	coreSvc, err := core.New(database, clock, cfg)
	if err != nil {
		return nil, err
	}

	customerRepo := db.NewCustomerRepository(database)
	billRepo := db.NewBillRepository(database)
	detailRepo := db.NewDetailRepository(database)
	acConfigRepo := db.NewACConfigRepository(database)

	hotelService := service.NewHotelService(coreSvc, clock, cfg, customerRepo, billRepo, detailRepo)
	billingService := service.NewBillingService(clock, billRepo, detailRepo)
	reportService := service.NewReportService(coreSvc, billRepo, detailRepo)

	router := api.SetupRouter(
		handlers.NewACHandler(coreSvc, billingService),
		handlers.NewMonitorHandler(coreSvc),
		handlers.NewRoomHandler(hotelService),
		handlers.NewBillingHandler(billingService, customerRepo),
		handlers.NewAdminHandler(coreSvc, billingService, reportService, acConfigRepo),
	)

	return &App{
		cfg:     cfg,
		clock:   clock,
		core:    coreSvc,
		monitor: service.NewMonitorService(coreSvc, time.Second),
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
			Handler: router,
		},
	}, nil
}

// Run 启动 HTTP 服务与温度模拟定时器，ctx 取消后优雅退出
func (a *App) Run(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("服务启动, 监听 %s, 容量 %d, 时间片 %.0f秒, 时钟 %.1fx",
			a.server.Addr, a.cfg.ACTotalCount, a.cfg.TimeSlice, a.cfg.TimeAcceleration)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	group.Go(func() error {
		a.monitor.Run()
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		a.monitor.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
