// internal/db/init.go

package db

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"hotelac/internal/types"
)

// Open 打开数据库并自动迁移表结构
func Open(path string) (*gorm.DB, error) {
	database, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层连接失败: %v", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := database.AutoMigrate(
		&RoomInfo{},
		&Customer{},
		&DetailRecord{},
		&AccommodationBill{},
		&ACConfig{},
	); err != nil {
		return nil, fmt.Errorf("迁移表结构失败: %v", err)
	}
	return database, nil
}

// SeedRooms 初始化房间数据，已有数据时不重复写入
func SeedRooms(database *gorm.DB, roomCount int) error {
	var count int64
	if err := database.Model(&RoomInfo{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	// 默认 5 间房的初始温度与日房费，超出部分沿用标准配置
	seeds := []RoomInfo{
		{RoomID: 1, DefaultTemp: 32.0, CurrentTemp: 32.0, DailyRate: 100.0},
		{RoomID: 2, DefaultTemp: 28.0, CurrentTemp: 28.0, DailyRate: 125.0},
		{RoomID: 3, DefaultTemp: 30.0, CurrentTemp: 30.0, DailyRate: 150.0},
		{RoomID: 4, DefaultTemp: 29.0, CurrentTemp: 29.0, DailyRate: 200.0},
		{RoomID: 5, DefaultTemp: 35.0, CurrentTemp: 35.0, DailyRate: 100.0},
	}
	for i := len(seeds); i < roomCount; i++ {
		seeds = append(seeds, RoomInfo{
			RoomID:      i + 1,
			DefaultTemp: 30.0,
			CurrentTemp: 30.0,
			DailyRate:   100.0,
		})
	}
	if roomCount < len(seeds) {
		seeds = seeds[:roomCount]
	}

	for i := range seeds {
		seeds[i].Status = types.RoomAvailable
		seeds[i].ACMode = types.ModeCooling
		seeds[i].FanSpeed = types.SpeedMedium
	}
	return database.Create(&seeds).Error
}

// SeedACConfig 初始化两种模式的空调配置
func SeedACConfig(database *gorm.DB) error {
	var count int64
	if err := database.Model(&ACConfig{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	configs := []ACConfig{
		{
			Mode:            types.ModeCooling,
			MinTemp:         18,
			MaxTemp:         28,
			DefaultTemp:     25,
			DefaultSpeed:    types.SpeedMedium,
			LowSpeedRate:    0.5,
			MediumSpeedRate: 1.0,
			HighSpeedRate:   1.5,
		},
		{
			Mode:            types.ModeHeating,
			MinTemp:         18,
			MaxTemp:         25,
			DefaultTemp:     23,
			DefaultSpeed:    types.SpeedMedium,
			LowSpeedRate:    0.5,
			MediumSpeedRate: 1.0,
			HighSpeedRate:   1.5,
		},
	}
	return database.Create(&configs).Error
}
