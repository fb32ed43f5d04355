package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sungsigun/SignageManagement/internal/models"
)

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, models.Response{
		Code:    http.StatusOK,
		Message: "성공",
		Data:    data,
	})
}

func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, models.Response{
		Code:    http.StatusOK,
		Message: message,
		Data:    data,
	})
}

func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, models.Response{
		Code:    http.StatusCreated,
		Message: message,
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, models.Response{
		Code:    code,
		Message: message,
	})
}

func ValidationError(c *gin.Context, message string, errors interface{}) {
	if message == "" {
		message = "입력값이 올바르지 않습니다"
	}
	c.JSON(http.StatusBadRequest, models.Response{
		Code:    http.StatusBadRequest,
		Message: message,
		Errors:  errors,
	})
}

// InternalError hides err in release mode.
func InternalError(c *gin.Context, err error) {
	message := "서버 내부 오류가 발생했습니다."
	if err != nil && gin.Mode() != gin.ReleaseMode {
		message = err.Error()
	}
	c.JSON(http.StatusInternalServerError, models.Response{
		Code:    http.StatusInternalServerError,
		Message: message,
	})
}

func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "요청한 리소스를 찾을 수 없습니다."
	}
	c.JSON(http.StatusNotFound, models.Response{
		Code:    http.StatusNotFound,
		Message: message,
	})
}

func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "요청이 현재 상태와 충돌합니다."
	}
	c.JSON(http.StatusConflict, models.Response{
		Code:    http.StatusConflict,
		Message: message,
	})
}

func TooManyRequests(c *gin.Context, message string) {
	if message == "" {
		message = "너무 많은 요청이 발생했습니다. 잠시 후 다시 시도해주세요."
	}
	c.AbortWithStatusJSON(http.StatusTooManyRequests, models.Response{
		Code:    http.StatusTooManyRequests,
		Message: message,
	})
}
