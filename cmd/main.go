package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hotelac/internal/app"
	"hotelac/internal/config"
	"hotelac/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "hotelac",
	Short: "酒店中央空调调度与计费服务",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		if viper.GetBool("debug") {
			logger.SetLevel(logger.DebugLevel)
		}
		if err := logger.EnableFileOutput(); err != nil {
			logger.Warn("日志文件不可用: %v", err)
		}
		defer logger.Close()

		application, err := app.New(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := application.Run(ctx); err != nil {
			return err
		}
		logger.Info("服务已退出")
		return nil
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.Int("port", 8080, "HTTP 监听端口")
	flags.String("db", "hotel.db", "SQLite 数据库路径")
	flags.Float64("speed", 6.0, "时间加速因子")
	flags.Bool("debug", false, "输出调试日志")

	_ = viper.BindPFlag("SERVER_PORT", flags.Lookup("port"))
	_ = viper.BindPFlag("DB_PATH", flags.Lookup("db"))
	_ = viper.BindPFlag("TIME_ACCELERATION_FACTOR", flags.Lookup("speed"))
	_ = viper.BindPFlag("debug", flags.Lookup("debug"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("服务启动失败: %v", err)
		os.Exit(1)
	}
}
