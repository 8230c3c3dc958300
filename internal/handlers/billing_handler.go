// internal/handlers/billing_handler.go

package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotelac/internal/db"
	"hotelac/internal/service"
	"hotelac/internal/utils"
)

// BillingHandler 账单查询、支付、导出
type BillingHandler struct {
	billingService *service.BillingService
	customerRepo   *db.CustomerRepository
}

func NewBillingHandler(billingService *service.BillingService, customerRepo *db.CustomerRepository) *BillingHandler {
	return &BillingHandler{billingService: billingService, customerRepo: customerRepo}
}

func billIDParam(c *gin.Context) (int, bool) {
	billID, err := strconv.Atoi(c.Param("billId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Code: -1, Msg: "账单号格式错误"})
		return 0, false
	}
	return billID, true
}

// ListBills 账单列表
func (h *BillingHandler) ListBills(c *gin.Context) {
	bills, err := h.billingService.ListBills()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Code: 0, Msg: "Success", Data: bills})
}

// GetBill 账单与详单
func (h *BillingHandler) GetBill(c *gin.Context) {
	billID, ok := billIDParam(c)
	if !ok {
		return
	}

	bill, details, err := h.billingService.GetBillWithDetails(billID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Code: 0, Msg: "Success", Data: gin.H{
		"bill":    bill,
		"details": details,
	}})
}

// PayBill 支付账单
func (h *BillingHandler) PayBill(c *gin.Context) {
	billID, ok := billIDParam(c)
	if !ok {
		return
	}

	if err := h.billingService.MarkBillPaid(billID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Code: 0, Msg: "支付成功"})
}

// ExportDetails 详单 CSV 导出
func (h *BillingHandler) ExportDetails(c *gin.Context) {
	billID, ok := billIDParam(c)
	if !ok {
		return
	}

	content, filename, err := h.billingService.ExportBillDetailsCSV(billID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", content)
}

// PrintBill 生成账单 PDF
func (h *BillingHandler) PrintBill(c *gin.Context) {
	billID, ok := billIDParam(c)
	if !ok {
		return
	}

	bill, details, err := h.billingService.GetBillWithDetails(billID)
	if err != nil {
		respondError(c, err)
		return
	}

	var name, idCard string
	if customer, err := h.customerRepo.GetCustomerByID(bill.CustomerID); err == nil && customer != nil {
		name = customer.Name
		idCard = customer.IDCard
	}
	pdf, err := utils.GenerateInvoicePDF(utils.InvoiceData{
		Bill:         bill,
		CustomerName: name,
		IDCard:       idCard,
		Details:      details,
		PrintedAt:    bill.CheckOutTime,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		c.JSON(http.StatusInternalServerError, Response{Code: -1, Msg: "生成PDF失败", Err: err.Error()})
		return
	}
	if err := h.billingService.MarkBillPrinted(billID); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=bill_%d.pdf", billID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
