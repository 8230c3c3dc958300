// internal/service/report.go

package service

import (
	"time"

	"hotelac/internal/core"
	"hotelac/internal/db"
	"hotelac/internal/types"
)

// ReportService 经营报表
type ReportService struct {
	core       *core.Core
	billRepo   *db.BillRepository
	detailRepo *db.DetailRepository
}

func NewReportService(c *core.Core, billRepo *db.BillRepository, detailRepo *db.DetailRepository) *ReportService {
	return &ReportService{core: c, billRepo: billRepo, detailRepo: detailRepo}
}

// Overview 营收与入住率总览
type Overview struct {
	TimeRange struct {
		Start *time.Time `json:"start"`
		End   *time.Time `json:"end"`
	} `json:"timeRange"`
	RoomStats struct {
		Total         int     `json:"total"`
		Occupied      int     `json:"occupied"`
		Maintenance   int     `json:"maintenance"`
		OccupancyRate float32 `json:"occupancyRate"`
	} `json:"roomStats"`
	Revenue struct {
		RoomFee float32 `json:"roomFee"`
		ACFee   float32 `json:"acFee"`
		Total   float32 `json:"total"`
	} `json:"revenue"`
	Billing struct {
		BillCount int     `json:"billCount"`
		AvgACFee  float32 `json:"avgAcFee"`
	} `json:"billing"`
}

// GetOverview 统计时间范围内的账单营收与当前入住率
func (s *ReportService) GetOverview(start, end *time.Time) (*Overview, error) {
	bills, err := s.billRepo.GetBillsInRange(start, end)
	if err != nil {
		return nil, err
	}

	overview := &Overview{}
	overview.TimeRange.Start = start
	overview.TimeRange.End = end

	for _, room := range s.core.RoomOverviews() {
		overview.RoomStats.Total++
		switch room.Status {
		case types.RoomOccupied:
			overview.RoomStats.Occupied++
		case types.RoomMaintenance:
			overview.RoomStats.Maintenance++
		}
	}
	if overview.RoomStats.Total > 0 {
		overview.RoomStats.OccupancyRate =
			float32(overview.RoomStats.Occupied) / float32(overview.RoomStats.Total)
	}

	for _, bill := range bills {
		overview.Revenue.RoomFee += bill.RoomFee
		overview.Revenue.ACFee += bill.ACTotalFee
		overview.Revenue.Total += bill.TotalAmount
	}
	overview.Billing.BillCount = len(bills)
	if len(bills) > 0 {
		overview.Billing.AvgACFee = overview.Revenue.ACFee / float32(len(bills))
	}
	return overview, nil
}

// SpeedUsage 按风速分组的使用统计
type SpeedUsage struct {
	FanSpeed        types.FanSpeed `json:"fanSpeed"`
	DurationMinutes float32        `json:"durationMinutes"`
	Cost            float32        `json:"cost"`
	Count           int            `json:"count"`
}

// ACUsageSummary 空调使用汇总，只统计 AC 类型详单
func (s *ReportService) ACUsageSummary() ([]SpeedUsage, error) {
	details, err := s.detailRepo.GetAllDetails()
	if err != nil {
		return nil, err
	}

	grouped := map[types.FanSpeed]*SpeedUsage{}
	for _, d := range details {
		if d.DetailType != types.DetailTypeAC {
			continue
		}
		usage, ok := grouped[d.FanSpeed]
		if !ok {
			usage = &SpeedUsage{FanSpeed: d.FanSpeed}
			grouped[d.FanSpeed] = usage
		}
		usage.DurationMinutes += d.DurationMinutes
		usage.Cost += d.Cost
		usage.Count++
	}

	result := make([]SpeedUsage, 0, len(grouped))
	for _, speed := range []types.FanSpeed{types.SpeedLow, types.SpeedMedium, types.SpeedHigh} {
		if usage, ok := grouped[speed]; ok {
			result = append(result, *usage)
		}
	}
	return result, nil
}
