package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hotelac/internal/core"
	"hotelac/internal/db"
)

type Response struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
	Err  string      `json:"err,omitempty"`
}

// respondError 把核心错误映射到 HTTP 状态码。
// 良性重复操作按成功返回，不变量破坏按 500 暴露。
func respondError(c *gin.Context, err error) {
	if core.IsBenign(err) {
		c.JSON(http.StatusOK, Response{Code: 0, Msg: err.Error()})
		return
	}

	status := http.StatusBadRequest
	switch {
	case errors.Is(err, core.ErrRoomNotFound), errors.Is(err, db.ErrBillNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrInvariantViolation):
		status = http.StatusInternalServerError
	}
	c.JSON(status, Response{Code: -1, Msg: err.Error(), Err: err.Error()})
}
