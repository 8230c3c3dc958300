// internal/db/ac_config.go

package db

import (
	"errors"

	"gorm.io/gorm"

	"hotelac/internal/types"
)

type ACConfigRepository struct {
	db *gorm.DB
}

func NewACConfigRepository(database *gorm.DB) *ACConfigRepository {
	return &ACConfigRepository{db: database}
}

// GetByMode 获取指定模式的空调配置，缺失时返回默认配置
func (r *ACConfigRepository) GetByMode(mode types.Mode) (*ACConfig, error) {
	var config ACConfig
	err := r.db.Where("mode = ?", mode).First(&config).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			defaultTemp := float32(25)
			maxTemp := float32(28)
			if mode == types.ModeHeating {
				defaultTemp = 23
				maxTemp = 25
			}
			return &ACConfig{
				Mode:            mode,
				MinTemp:         18,
				MaxTemp:         maxTemp,
				DefaultTemp:     defaultTemp,
				DefaultSpeed:    types.SpeedMedium,
				LowSpeedRate:    0.5,
				MediumSpeedRate: 1.0,
				HighSpeedRate:   1.5,
			}, nil
		}
		return nil, err
	}
	return &config, nil
}

// SetTemperatureRange 更新某模式的温度范围
func (r *ACConfigRepository) SetTemperatureRange(config *ACConfig) error {
	var existing ACConfig
	err := r.db.Where("mode = ?", config.Mode).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.db.Create(config).Error
		}
		return err
	}
	return r.db.Model(&existing).Updates(map[string]interface{}{
		"min_temp":     config.MinTemp,
		"max_temp":     config.MaxTemp,
		"default_temp": config.DefaultTemp,
	}).Error
}

// SetSpeedRates 更新所有模式的风速费率
func (r *ACConfigRepository) SetSpeedRates(lowRate, mediumRate, highRate float32) error {
	return r.db.Model(&ACConfig{}).Where("1 = 1").Updates(map[string]interface{}{
		"low_speed_rate":    lowRate,
		"medium_speed_rate": mediumRate,
		"high_speed_rate":   highRate,
	}).Error
}
