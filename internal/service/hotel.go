// internal/service/hotel.go

package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"hotelac/internal/config"
	"hotelac/internal/core"
	"hotelac/internal/db"
	"hotelac/internal/logger"
	"hotelac/internal/timemaster"
	"hotelac/internal/types"
)

// HotelService 入住/退房工作流。房间状态迁移全部经过核心，
// 这里只负责顾客档案与账单。
type HotelService struct {
	core         *core.Core
	clock        *timemaster.TimeMaster
	cfg          *config.Config
	customerRepo *db.CustomerRepository
	billRepo     *db.BillRepository
	detailRepo   *db.DetailRepository
}

func NewHotelService(
	c *core.Core,
	clock *timemaster.TimeMaster,
	cfg *config.Config,
	customerRepo *db.CustomerRepository,
	billRepo *db.BillRepository,
	detailRepo *db.DetailRepository,
) *HotelService {
	return &HotelService{
		core:         c,
		clock:        clock,
		cfg:          cfg,
		customerRepo: customerRepo,
		billRepo:     billRepo,
		detailRepo:   detailRepo,
	}
}

// CheckInRequest 入住请求
type CheckInRequest struct {
	RoomID      int    `json:"roomId" binding:"required"`
	Name        string `json:"name" binding:"required"`
	IDCard      string `json:"idCard"`
	PhoneNumber string `json:"phoneNumber"`
}

// CheckIn 办理入住，返回带预订号的顾客档案
func (s *HotelService) CheckIn(req CheckInRequest) (*db.Customer, error) {
	overview, err := s.core.GetRoomOverview(req.RoomID)
	if err != nil {
		return nil, err
	}
	if overview.Status != types.RoomAvailable {
		return nil, core.ErrRoomNotAvailable
	}

	now := s.clock.Now()
	roomID := req.RoomID
	customer := &db.Customer{
		Name:          req.Name,
		IDCard:        req.IDCard,
		PhoneNumber:   req.PhoneNumber,
		BookingNumber: uuid.NewString(),
		CurrentRoomID: &roomID,
		CheckInTime:   &now,
		Status:        "CHECKED_IN",
	}
	if err := s.customerRepo.CreateCustomer(customer); err != nil {
		return nil, fmt.Errorf("保存顾客信息失败: %v", err)
	}

	if err := s.core.SetOccupied(req.RoomID, customer.ID, customer.Name, now); err != nil {
		return nil, err
	}
	logger.Info("顾客 %s 入住房间 %d, 预订号 %s", customer.Name, req.RoomID, customer.BookingNumber)
	return customer, nil
}

// DetailBillItem 退房响应里的一条详单
type DetailBillItem struct {
	RoomID          int       `json:"roomId"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	DurationMinutes float32   `json:"durationMinutes"`
	FanSpeed        string    `json:"fanSpeed"`
	Mode            string    `json:"mode"`
	Rate            float32   `json:"rate"`
	Cost            float32   `json:"cost"`
	DetailType      string    `json:"detailType"`
}

// CheckoutResponse 退房结算响应
type CheckoutResponse struct {
	Customer struct {
		Name          string `json:"name"`
		IDCard        string `json:"idCard"`
		PhoneNumber   string `json:"phoneNumber"`
		BookingNumber string `json:"bookingNumber"`
	} `json:"customer"`
	Bill       *db.AccommodationBill `json:"bill"`
	DetailBill []DetailBillItem      `json:"detailBill"`
}

// CheckOut 退房：核心结算并释放房间，生成住宿账单
func (s *HotelService) CheckOut(roomID int) (*CheckoutResponse, error) {
	customer, err := s.customerRepo.GetCustomerByRoomID(roomID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, core.ErrRoomNotOccupied
	}

	overview, err := s.core.GetRoomOverview(roomID)
	if err != nil {
		return nil, err
	}

	if err := s.core.Release(roomID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	checkIn := now
	if customer.CheckInTime != nil {
		checkIn = *customer.CheckInTime
	}
	customer.CheckOutTime = &now
	customer.Status = "CHECKED_OUT"
	customer.CurrentRoomID = nil
	if err := s.customerRepo.UpdateCustomer(customer); err != nil {
		logger.Error("更新顾客退房状态失败: %v", err)
	}

	details, err := s.detailRepo.GetDetailsByRoomAndTimeRange(roomID, checkIn, now)
	if err != nil {
		return nil, err
	}

	var acFee, roomFee float32
	for _, d := range details {
		switch d.DetailType {
		case types.DetailTypeAC:
			acFee += d.Cost
		case types.DetailTypeRoomFee:
			roomFee += d.Cost
		}
	}
	stayDays := stayDaysBetween(checkIn, now)
	if !s.cfg.EnableCycleDailyFee {
		// 未启用周期房费时按天数计房费
		rate := overview.DailyRate
		if rate <= 0 {
			rate = s.cfg.BillingRoomRate
		}
		roomFee = float32(stayDays) * rate
	}

	bill := &db.AccommodationBill{
		RoomID:       roomID,
		CustomerID:   customer.ID,
		CheckInTime:  checkIn,
		CheckOutTime: now,
		StayDays:     stayDays,
		RoomFee:      roomFee,
		ACTotalFee:   acFee,
		TotalAmount:  roomFee + acFee,
		Status:       "UNPAID",
		PrintStatus:  "NOT_PRINTED",
		CreatedAt:    now,
	}
	if err := s.billRepo.CreateBill(bill); err != nil {
		return nil, fmt.Errorf("生成账单失败: %v", err)
	}

	resp := &CheckoutResponse{Bill: bill}
	resp.Customer.Name = customer.Name
	resp.Customer.IDCard = customer.IDCard
	resp.Customer.PhoneNumber = customer.PhoneNumber
	resp.Customer.BookingNumber = customer.BookingNumber
	for _, d := range details {
		resp.DetailBill = append(resp.DetailBill, DetailBillItem{
			RoomID:          d.RoomID,
			StartTime:       d.StartTime,
			EndTime:         d.EndTime,
			DurationMinutes: d.DurationMinutes,
			FanSpeed:        string(d.FanSpeed),
			Mode:            string(d.ACMode),
			Rate:            d.Rate,
			Cost:            d.Cost,
			DetailType:      string(d.DetailType),
		})
	}

	logger.Info("房间 %d 退房结算完成, 住宿费 %.2f元, 空调费 %.2f元", roomID, roomFee, acFee)
	return resp, nil
}

// AvailableRooms 可入住房间列表
func (s *HotelService) AvailableRooms() []core.RoomOverview {
	var result []core.RoomOverview
	for _, room := range s.core.RoomOverviews() {
		if room.Status == types.RoomAvailable {
			result = append(result, room)
		}
	}
	return result
}

// stayDaysBetween 按日历天数计算住宿天数，不足一天按一天
func stayDaysBetween(checkIn, checkOut time.Time) int {
	inDate := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, checkIn.Location())
	outDate := time.Date(checkOut.Year(), checkOut.Month(), checkOut.Day(), 0, 0, 0, 0, checkOut.Location())
	days := int(outDate.Sub(inDate).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return days
}
