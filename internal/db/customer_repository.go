// internal/db/customer_repository.go

package db

import (
	"errors"

	"gorm.io/gorm"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(database *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: database}
}

// CreateCustomer 保存新顾客
func (r *CustomerRepository) CreateCustomer(customer *Customer) error {
	return r.db.Create(customer).Error
}

// UpdateCustomer 更新顾客信息
func (r *CustomerRepository) UpdateCustomer(customer *Customer) error {
	return r.db.Save(customer).Error
}

// GetCustomerByID 按 ID 获取顾客
func (r *CustomerRepository) GetCustomerByID(customerID int) (*Customer, error) {
	var customer Customer
	err := r.db.First(&customer, customerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// GetCustomerByRoomID 获取当前入住该房间的顾客
func (r *CustomerRepository) GetCustomerByRoomID(roomID int) (*Customer, error) {
	var customer Customer
	err := r.db.Where("current_room_id = ? AND status = ?", roomID, "CHECKED_IN").
		Order("check_in_time DESC").
		First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}
