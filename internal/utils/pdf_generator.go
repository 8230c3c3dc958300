// internal/utils/pdf_generator.go

package utils

import (
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"hotelac/internal/db"
	"hotelac/internal/types"
)

var detailTypeMap = map[types.DetailType]string{
	types.DetailTypeAC:            "空调服务",
	types.DetailTypeRoomFee:       "开机房费",
	types.DetailTypePowerOffCycle: "关机周期",
}

// InvoiceData 账单 PDF 的数据
type InvoiceData struct {
	Bill         *db.AccommodationBill
	CustomerName string
	IDCard       string
	Details      []db.DetailRecord
	PrintedAt    time.Time
}

// GenerateInvoicePDF 生成退房账单 PDF：账单汇总 + 空调使用详单表格
func GenerateInvoicePDF(data InvoiceData) (*gofpdf.Fpdf, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// 中文字体
	pdf.AddUTF8Font("chinese", "", "./SimHei.ttf")

	pdf.SetFont("chinese", "", 20)
	pdf.Cell(190, 15, "住宿账单")
	pdf.Ln(20)

	pdf.SetFont("chinese", "", 12)
	pdf.Cell(95, 8, fmt.Sprintf("账单编号: B%06d", data.Bill.ID))
	pdf.Cell(95, 8, fmt.Sprintf("打印日期: %s", data.PrintedAt.Format("2006-01-02 15:04:05")))
	pdf.Ln(12)

	pdf.Line(10, pdf.GetY(), 200, pdf.GetY())
	pdf.Ln(8)

	// 客户信息
	pdf.Cell(30, 8, "房间号:")
	pdf.Cell(65, 8, fmt.Sprintf("%d", data.Bill.RoomID))
	pdf.Cell(30, 8, "客户姓名:")
	pdf.Cell(65, 8, data.CustomerName)
	pdf.Ln(10)
	pdf.Cell(30, 8, "身份证号:")
	pdf.Cell(160, 8, data.IDCard)
	pdf.Ln(10)
	pdf.Cell(30, 8, "入住时间:")
	pdf.Cell(160, 8, data.Bill.CheckInTime.Format("2006-01-02 15:04:05"))
	pdf.Ln(10)
	pdf.Cell(30, 8, "退房时间:")
	pdf.Cell(160, 8, data.Bill.CheckOutTime.Format("2006-01-02 15:04:05"))
	pdf.Ln(10)

	pdf.Line(10, pdf.GetY(), 200, pdf.GetY())
	pdf.Ln(8)

	// 费用汇总
	pdf.Cell(95, 8, "住宿天数:")
	pdf.Cell(95, 8, fmt.Sprintf("%d天", data.Bill.StayDays))
	pdf.Ln(8)
	pdf.Cell(95, 8, "住宿费用小计:")
	pdf.Cell(95, 8, fmt.Sprintf("%.2f元", data.Bill.RoomFee))
	pdf.Ln(8)
	pdf.Cell(95, 8, "空调费用小计:")
	pdf.Cell(95, 8, fmt.Sprintf("%.2f元", data.Bill.ACTotalFee))
	pdf.Ln(10)

	pdf.SetFont("chinese", "", 14)
	pdf.Cell(95, 10, "应付总额:")
	pdf.SetTextColor(204, 0, 0)
	pdf.Cell(95, 10, fmt.Sprintf("%.2f元", data.Bill.TotalAmount))
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(14)

	pdf.Line(10, pdf.GetY(), 200, pdf.GetY())
	pdf.Ln(8)

	// 详单表格
	pdf.SetFont("chinese", "", 12)
	pdf.Cell(190, 10, "空调使用详单")
	pdf.Ln(12)
	drawDetailTable(pdf, data.Details)

	// 页脚
	pdf.SetY(-15)
	pdf.SetFont("chinese", "", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.Cell(190, 10, fmt.Sprintf("打印时间: %s    本账单作为缴费凭证，请妥善保管",
		data.PrintedAt.Format("2006-01-02 15:04:05")))

	return pdf, nil
}

func drawDetailTable(pdf *gofpdf.Fpdf, details []db.DetailRecord) {
	headers := []struct {
		width float64
		name  string
	}{
		{25, "开始时间"},
		{25, "结束时间"},
		{25, "时长(分钟)"},
		{20, "风速"},
		{20, "模式"},
		{25, "费率"},
		{20, "费用"},
		{30, "类型"},
	}

	pdf.SetFont("chinese", "", 10)
	pdf.SetFillColor(240, 240, 240)
	for _, h := range headers {
		pdf.Cell(h.width, 10, h.name)
	}
	pdf.Ln(10)

	pdf.SetFont("chinese", "", 9)
	rowHeight := 8.0

	for _, d := range details {
		// 留出页脚空间
		if pdf.GetY() > 265 {
			pdf.AddPage()
			pdf.SetFont("chinese", "", 10)
			for _, h := range headers {
				pdf.Cell(h.width, 10, h.name)
			}
			pdf.Ln(10)
			pdf.SetFont("chinese", "", 9)
		}

		pdf.Cell(25, rowHeight, d.StartTime.Format("15:04:05"))
		pdf.Cell(25, rowHeight, d.EndTime.Format("15:04:05"))
		pdf.Cell(25, rowHeight, fmt.Sprintf("%.1f", d.DurationMinutes))
		pdf.Cell(20, rowHeight, string(d.FanSpeed))
		pdf.Cell(20, rowHeight, string(d.ACMode))
		pdf.Cell(25, rowHeight, fmt.Sprintf("%.2f元/度", d.Rate))

		if d.Cost > 0 {
			pdf.SetTextColor(204, 0, 0)
		}
		pdf.Cell(20, rowHeight, fmt.Sprintf("%.2f元", d.Cost))
		pdf.SetTextColor(0, 0, 0)

		pdf.Cell(30, rowHeight, detailTypeMap[d.DetailType])
		pdf.Ln(rowHeight)
	}
}
