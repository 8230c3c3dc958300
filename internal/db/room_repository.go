// internal/db/room_repository.go

package db

import (
	"fmt"

	"gorm.io/gorm"
)

// RoomRepository 房间表访问。房间的权威状态在核心的内存注册表里，
// 这里只承担启动加载与整行落库。
type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(database *gorm.DB) *RoomRepository {
	return &RoomRepository{db: database}
}

// GetAllRooms 获取所有房间信息，注册表启动时一次性加载
func (r *RoomRepository) GetAllRooms() ([]RoomInfo, error) {
	var rooms []RoomInfo
	if err := r.db.Order("room_id ASC").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("获取房间列表失败: %v", err)
	}
	return rooms, nil
}

// SaveRoom 整行落库。注册表是内存权威状态，这里用 Save 覆盖全部字段，
// 包括被清空的锚点。
func (r *RoomRepository) SaveRoom(room *RoomInfo) error {
	return r.db.Save(room).Error
}
