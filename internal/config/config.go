// internal/config/config.go

package config

import (
	"github.com/spf13/viper"

	"hotelac/internal/types"
)

// Config 系统配置，全部可由环境变量覆盖
type Config struct {
	ServerPort int
	DBPath     string

	ACTotalCount int     // 空调容量 C
	RoomCount    int     // 房间数量 N
	DefaultTemp  float32 // 兜底目标温度
	TimeSlice    float32 // 时间片（模拟秒）

	TimeAcceleration float64 // 时钟倍速

	CoolingMinTemp       float32
	CoolingMaxTemp       float32
	CoolingDefaultTarget float32
	HeatingMinTemp       float32
	HeatingMaxTemp       float32
	HeatingDefaultTarget float32

	EnableCycleDailyFee bool    // 每次开机记一天房费
	BillingRoomRate     float32 // 房间无日房费时的兜底费率
}

// Load 读取环境变量并应用默认值。使用全局 viper，
// 命令行标志通过 BindPFlag 绑定后同样生效。
func Load() *Config {
	v := viper.GetViper()

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("DB_PATH", "hotel.db")
	v.SetDefault("HOTEL_AC_TOTAL_COUNT", 3)
	v.SetDefault("HOTEL_ROOM_COUNT", 5)
	v.SetDefault("HOTEL_DEFAULT_TEMP", 25.0)
	v.SetDefault("HOTEL_TIME_SLICE", 120.0)
	v.SetDefault("TIME_ACCELERATION_FACTOR", 6.0)
	v.SetDefault("COOLING_MIN_TEMP", 18.0)
	v.SetDefault("COOLING_MAX_TEMP", 28.0)
	v.SetDefault("COOLING_DEFAULT_TARGET", 25.0)
	v.SetDefault("HEATING_MIN_TEMP", 18.0)
	v.SetDefault("HEATING_MAX_TEMP", 25.0)
	v.SetDefault("HEATING_DEFAULT_TARGET", 23.0)
	v.SetDefault("ENABLE_AC_CYCLE_DAILY_FEE", true)
	v.SetDefault("BILLING_ROOM_RATE", 100.0)

	v.AutomaticEnv()

	return &Config{
		ServerPort:           v.GetInt("SERVER_PORT"),
		DBPath:               v.GetString("DB_PATH"),
		ACTotalCount:         v.GetInt("HOTEL_AC_TOTAL_COUNT"),
		RoomCount:            v.GetInt("HOTEL_ROOM_COUNT"),
		DefaultTemp:          float32(v.GetFloat64("HOTEL_DEFAULT_TEMP")),
		TimeSlice:            float32(v.GetFloat64("HOTEL_TIME_SLICE")),
		TimeAcceleration:     v.GetFloat64("TIME_ACCELERATION_FACTOR"),
		CoolingMinTemp:       float32(v.GetFloat64("COOLING_MIN_TEMP")),
		CoolingMaxTemp:       float32(v.GetFloat64("COOLING_MAX_TEMP")),
		CoolingDefaultTarget: float32(v.GetFloat64("COOLING_DEFAULT_TARGET")),
		HeatingMinTemp:       float32(v.GetFloat64("HEATING_MIN_TEMP")),
		HeatingMaxTemp:       float32(v.GetFloat64("HEATING_MAX_TEMP")),
		HeatingDefaultTarget: float32(v.GetFloat64("HEATING_DEFAULT_TARGET")),
		EnableCycleDailyFee:  v.GetBool("ENABLE_AC_CYCLE_DAILY_FEE"),
		BillingRoomRate:      float32(v.GetFloat64("BILLING_ROOM_RATE")),
	}
}

// TempRange 返回指定模式的温度范围
func (c *Config) TempRange(mode types.Mode) types.TempRange {
	if mode == types.ModeHeating {
		return types.TempRange{
			Min:     c.HeatingMinTemp,
			Max:     c.HeatingMaxTemp,
			Default: c.HeatingDefaultTarget,
		}
	}
	return types.TempRange{
		Min:     c.CoolingMinTemp,
		Max:     c.CoolingMaxTemp,
		Default: c.CoolingDefaultTarget,
	}
}
