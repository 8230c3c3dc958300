// internal/db/model.go

package db

import (
	"time"

	"hotelac/internal/types"
)

// RoomInfo 房间信息表。调度相关的时间锚点允许为空，
// serving_start_time 与 billing_start_temp 必须同生同灭。
type RoomInfo struct {
	RoomID      int              `gorm:"primaryKey"`
	Status      types.RoomStatus `gorm:"type:varchar(20);default:AVAILABLE"`
	DefaultTemp float32          `gorm:"type:float(5,2)"` // 无服务时回归的环境温度
	CurrentTemp float32          `gorm:"type:float(5,2)"`
	TargetTemp  *float32         `gorm:"type:float(5,2)"`
	ACOn        bool             `gorm:"default:false"`
	ACMode      types.Mode       `gorm:"type:varchar(20);default:COOLING"`
	FanSpeed    types.FanSpeed   `gorm:"type:varchar(20);default:MEDIUM"`

	ACSessionStart   *time.Time `gorm:"type:datetime"` // 最近一次开机时间
	ServingStartTime *time.Time `gorm:"type:datetime"` // 当前服务区间开始时间
	BillingStartTemp *float32   `gorm:"type:float(5,2)"`
	WaitingStartTime *time.Time `gorm:"type:datetime"`
	LastTempUpdate   *time.Time `gorm:"type:datetime"`
	CoolingPaused    bool       `gorm:"default:false"`
	PauseStartTemp   *float32   `gorm:"type:float(5,2)"`

	DailyRate     float32 `gorm:"type:float(7,2);default:100"` // 日房费（元/天）
	ScheduleCount int     `gorm:"default:0"`                   // 进入服务队列的累计次数
	CustomerName  string  `gorm:"type:varchar(50)"`
	CheckInTime   *time.Time
}

// Customer 顾客表
type Customer struct {
	ID            int    `gorm:"primaryKey;autoIncrement"`
	Name          string `gorm:"type:varchar(50);not null"`
	IDCard        string `gorm:"type:varchar(20)"`
	PhoneNumber   string `gorm:"type:varchar(20)"`
	BookingNumber string `gorm:"type:varchar(40)"` // 入住时生成的预订号
	CurrentRoomID *int
	CheckInTime   *time.Time
	CheckOutTime  *time.Time
	Status        string `gorm:"type:varchar(20);default:CHECKED_IN"`
}

// DetailRecord 详单表，只追加不修改
type DetailRecord struct {
	ID              int              `gorm:"primaryKey;autoIncrement"`
	RoomID          int              `gorm:"index:idx_detail_room_start"`
	CustomerID      *int             `gorm:"type:int"`
	ACMode          types.Mode       `gorm:"type:varchar(20)"`
	FanSpeed        types.FanSpeed   `gorm:"type:varchar(20)"`
	RequestTime     time.Time        `gorm:"type:datetime"`
	StartTime       time.Time        `gorm:"type:datetime;index:idx_detail_room_start"`
	EndTime         time.Time        `gorm:"type:datetime"`
	DurationMinutes float32          `gorm:"type:float(7,2)"` // 服务时长（模拟分钟），仅供报表
	Rate            float32          `gorm:"type:float(5,2)"` // 元/度
	Cost            float32          `gorm:"type:float(7,2)"`
	DetailType      types.DetailType `gorm:"type:varchar(20);default:AC"`
}

// AccommodationBill 住宿账单表，退房时结算生成
type AccommodationBill struct {
	ID           int       `gorm:"primaryKey;autoIncrement"`
	RoomID       int       `gorm:"not null"`
	CustomerID   int       `gorm:"not null"`
	CheckInTime  time.Time `gorm:"not null"`
	CheckOutTime time.Time `gorm:"not null"`
	StayDays     int       `gorm:"not null"`
	RoomFee      float32   `gorm:"type:float(9,2);default:0"`
	ACTotalFee   float32   `gorm:"type:float(9,2);default:0"`
	TotalAmount  float32   `gorm:"type:float(9,2);default:0"`
	Status       string    `gorm:"type:varchar(20);default:UNPAID"` // UNPAID/PAID/CANCELLED
	PaidTime     *time.Time
	PrintStatus  string `gorm:"type:varchar(20);default:NOT_PRINTED"`
	PrintTime    *time.Time
	CreatedAt    time.Time
}

// ACConfig 空调配置表
type ACConfig struct {
	ID              int            `gorm:"primaryKey"`
	Mode            types.Mode     `gorm:"type:varchar(20)"`
	MinTemp         float32        `gorm:"type:float(5,2)"`
	MaxTemp         float32        `gorm:"type:float(5,2)"`
	DefaultTemp     float32        `gorm:"type:float(5,2)"`
	DefaultSpeed    types.FanSpeed `gorm:"type:varchar(10)"`
	LowSpeedRate    float32        `gorm:"type:float(5,2)"`
	MediumSpeedRate float32        `gorm:"type:float(5,2)"`
	HighSpeedRate   float32        `gorm:"type:float(5,2)"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
}
