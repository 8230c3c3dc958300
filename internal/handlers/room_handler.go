// internal/handlers/room_handler.go

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotelac/internal/service"
)

// RoomHandler 入住/退房工作流
type RoomHandler struct {
	hotelService *service.HotelService
}

func NewRoomHandler(hotelService *service.HotelService) *RoomHandler {
	return &RoomHandler{hotelService: hotelService}
}

// CheckIn 办理入住
func (h *RoomHandler) CheckIn(c *gin.Context) {
	var req service.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Code: -1, Msg: "请求参数错误", Err: err.Error()})
		return
	}

	customer, err := h.hotelService.CheckIn(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Code: 0, Msg: "入住成功", Data: customer})
}

// CheckOut 退房结算
func (h *RoomHandler) CheckOut(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	resp, err := h.hotelService.CheckOut(roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Code: 0, Msg: "退房成功", Data: resp})
}

// AvailableRooms 可入住房间
func (h *RoomHandler) AvailableRooms(c *gin.Context) {
	c.JSON(http.StatusOK, Response{Code: 0, Msg: "Success", Data: h.hotelService.AvailableRooms()})
}
