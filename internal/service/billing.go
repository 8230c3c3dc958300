// internal/service/billing.go

package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"hotelac/internal/db"
	"hotelac/internal/timemaster"
	"hotelac/internal/types"
)

// csv 导出列，与外部系统约定的互操作格式
var detailCSVHeader = []string{
	"room_id", "customer_id", "start_time", "end_time", "duration_minutes",
	"fan_speed", "ac_mode", "rate", "cost", "detail_type",
}

// BillingService 账单查询与详单导出
type BillingService struct {
	clock      *timemaster.TimeMaster
	billRepo   *db.BillRepository
	detailRepo *db.DetailRepository
}

func NewBillingService(clock *timemaster.TimeMaster, billRepo *db.BillRepository, detailRepo *db.DetailRepository) *BillingService {
	return &BillingService{
		clock:      clock,
		billRepo:   billRepo,
		detailRepo: detailRepo,
	}
}

// ListBills 全部住宿账单
func (s *BillingService) ListBills() ([]db.AccommodationBill, error) {
	return s.billRepo.GetAllBills()
}

// GetBillWithDetails 账单及其入住期间的详单
func (s *BillingService) GetBillWithDetails(billID int) (*db.AccommodationBill, []db.DetailRecord, error) {
	bill, err := s.billRepo.GetBillByID(billID)
	if err != nil {
		return nil, nil, err
	}
	details, err := s.detailRepo.GetDetailsByRoomAndTimeRange(bill.RoomID, bill.CheckInTime, bill.CheckOutTime)
	if err != nil {
		return nil, nil, err
	}
	return bill, details, nil
}

// MarkBillPaid 支付账单
func (s *BillingService) MarkBillPaid(billID int) error {
	return s.billRepo.MarkPaid(billID, s.clock.Now())
}

// MarkBillPrinted 标记账单已打印
func (s *BillingService) MarkBillPrinted(billID int) error {
	return s.billRepo.MarkPrinted(billID, s.clock.Now())
}

// ExportBillDetailsCSV 导出账单详单。带 UTF-8 BOM，电子表格可直接打开。
func (s *BillingService) ExportBillDetailsCSV(billID int) ([]byte, string, error) {
	_, details, err := s.GetBillWithDetails(billID)
	if err != nil {
		return nil, "", err
	}
	content, err := renderDetailCSV(details)
	if err != nil {
		return nil, "", err
	}
	return content, fmt.Sprintf("bill_%d_details.csv", billID), nil
}

// ExportRoomDetailsCSV 导出单个房间的全部详单
func (s *BillingService) ExportRoomDetailsCSV(roomID int) ([]byte, int, error) {
	details, err := s.detailRepo.GetDetailsByRoom(roomID)
	if err != nil {
		return nil, 0, err
	}
	content, err := renderDetailCSV(details)
	if err != nil {
		return nil, 0, err
	}
	return content, len(details), nil
}

func renderDetailCSV(details []db.DetailRecord) ([]byte, error) {
	var buf bytes.Buffer
	// BOM 让 Excel 按 UTF-8 解析
	buf.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(&buf)
	if err := writer.Write(detailCSVHeader); err != nil {
		return nil, err
	}
	for _, d := range details {
		customerID := "ADMIN"
		if d.CustomerID != nil {
			customerID = strconv.Itoa(*d.CustomerID)
		}
		record := []string{
			strconv.Itoa(d.RoomID),
			customerID,
			d.StartTime.Format("2006-01-02T15:04:05Z07:00"),
			d.EndTime.Format("2006-01-02T15:04:05Z07:00"),
			fmt.Sprintf("%.2f", d.DurationMinutes),
			string(d.FanSpeed),
			string(d.ACMode),
			fmt.Sprintf("%.2f", d.Rate),
			fmt.Sprintf("%.2f", d.Cost),
			string(d.DetailType),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RoomACDetails 房间的空调详单（面板查询用）
func (s *BillingService) RoomACDetails(roomID int) ([]db.DetailRecord, error) {
	details, err := s.detailRepo.GetDetailsByRoom(roomID)
	if err != nil {
		return nil, err
	}
	var acDetails []db.DetailRecord
	for _, d := range details {
		if d.DetailType == types.DetailTypeAC {
			acDetails = append(acDetails, d)
		}
	}
	return acDetails, nil
}
