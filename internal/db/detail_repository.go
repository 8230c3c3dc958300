// internal/db/detail_repository.go

package db

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"hotelac/internal/logger"
	"hotelac/internal/types"
)

type DetailRepository struct {
	db *gorm.DB
}

func NewDetailRepository(database *gorm.DB) *DetailRepository {
	return &DetailRepository{db: database}
}

// CreateDetail 创建新的详单记录
func (r *DetailRepository) CreateDetail(detail *DetailRecord) error {
	if err := r.db.Create(detail).Error; err != nil {
		logger.Error("创建详单记录失败 - 房间ID: %d, 错误: %v", detail.RoomID, err)
		return fmt.Errorf("创建详单记录失败: %v", err)
	}
	logger.Info("创建详单 - 房间: %d, 类型: %s, 时长: %.1f分钟, 费用: %.2f元, 风速: %s",
		detail.RoomID, detail.DetailType, detail.DurationMinutes, detail.Cost, detail.FanSpeed)
	return nil
}

// FindACDetail 按唯一键 (room_id, AC, start_time) 查找已有详单，防止重复结算
func (r *DetailRepository) FindACDetail(roomID int, startTime time.Time) (*DetailRecord, error) {
	var detail DetailRecord
	err := r.db.Where("room_id = ? AND detail_type = ? AND start_time = ?",
		roomID, types.DetailTypeAC, startTime).First(&detail).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &detail, nil
}

// GetDetailsByRoom 获取指定房间的所有详单
func (r *DetailRepository) GetDetailsByRoom(roomID int) ([]DetailRecord, error) {
	var details []DetailRecord
	err := r.db.Where("room_id = ?", roomID).
		Order("start_time ASC").
		Find(&details).Error
	if err != nil {
		return nil, fmt.Errorf("获取房间详单失败: %v", err)
	}
	return details, nil
}

// GetDetailsByRoomAndTimeRange 获取指定房间在时间范围内的详单
func (r *DetailRepository) GetDetailsByRoomAndTimeRange(roomID int, startTime, endTime time.Time) ([]DetailRecord, error) {
	var details []DetailRecord
	err := r.db.Where("room_id = ? AND start_time >= ? AND end_time <= ?",
		roomID, startTime, endTime).
		Order("start_time ASC").
		Find(&details).Error
	if err != nil {
		return nil, fmt.Errorf("获取详单记录失败: %v", err)
	}
	return details, nil
}

// GetAllDetails 获取全部详单
func (r *DetailRepository) GetAllDetails() ([]DetailRecord, error) {
	var details []DetailRecord
	if err := r.db.Order("start_time ASC").Find(&details).Error; err != nil {
		return nil, fmt.Errorf("获取详单记录失败: %v", err)
	}
	return details, nil
}

// SumCostByType 统计房间在时间范围内某类详单的总费用
func (r *DetailRepository) SumCostByType(roomID int, detailType types.DetailType, startTime, endTime time.Time) (float32, error) {
	var total float32
	err := r.db.Model(&DetailRecord{}).
		Where("room_id = ? AND detail_type = ? AND start_time >= ? AND end_time <= ?",
			roomID, detailType, startTime, endTime).
		Select("COALESCE(SUM(cost), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("计算总费用失败: %v", err)
	}
	return total, nil
}
