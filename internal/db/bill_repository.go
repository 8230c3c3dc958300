// internal/db/bill_repository.go

package db

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrBillNotFound = errors.New("账单不存在")

type BillRepository struct {
	db *gorm.DB
}

func NewBillRepository(database *gorm.DB) *BillRepository {
	return &BillRepository{db: database}
}

// CreateBill 创建住宿账单
func (r *BillRepository) CreateBill(bill *AccommodationBill) error {
	return r.db.Create(bill).Error
}

// GetBillByID 按 ID 获取账单
func (r *BillRepository) GetBillByID(billID int) (*AccommodationBill, error) {
	var bill AccommodationBill
	err := r.db.First(&bill, billID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBillNotFound
		}
		return nil, err
	}
	return &bill, nil
}

// GetAllBills 按时间倒序列出账单
func (r *BillRepository) GetAllBills() ([]AccommodationBill, error) {
	var bills []AccommodationBill
	err := r.db.Order("created_at DESC").Find(&bills).Error
	return bills, err
}

// GetBillsInRange 按入住/退房时间过滤账单
func (r *BillRepository) GetBillsInRange(start, end *time.Time) ([]AccommodationBill, error) {
	query := r.db.Model(&AccommodationBill{})
	if start != nil {
		query = query.Where("check_in_time >= ?", *start)
	}
	if end != nil {
		query = query.Where("check_out_time <= ?", *end)
	}
	var bills []AccommodationBill
	err := query.Order("created_at DESC").Find(&bills).Error
	return bills, err
}

// MarkPaid 标记账单已支付
func (r *BillRepository) MarkPaid(billID int, paidAt time.Time) error {
	bill, err := r.GetBillByID(billID)
	if err != nil {
		return err
	}
	if bill.Status == "CANCELLED" {
		return errors.New("账单已取消，无法支付")
	}
	if bill.Status == "PAID" {
		return nil
	}
	return r.db.Model(bill).Updates(map[string]interface{}{
		"status":    "PAID",
		"paid_time": paidAt,
	}).Error
}

// MarkPrinted 标记账单已打印
func (r *BillRepository) MarkPrinted(billID int, printedAt time.Time) error {
	bill, err := r.GetBillByID(billID)
	if err != nil {
		return err
	}
	return r.db.Model(bill).Updates(map[string]interface{}{
		"print_status": "PRINTED",
		"print_time":   printedAt,
	}).Error
}
