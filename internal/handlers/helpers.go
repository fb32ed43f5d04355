package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sungsigun/SignageManagement/internal/services"
	"github.com/sungsigun/SignageManagement/internal/utils"
)

// parseID reads a positive integer path parameter. It writes the 400 response itself.
func parseID(c *gin.Context, name, message string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.Error(c, http.StatusBadRequest, message)
		return 0, false
	}
	return uint(id), true
}

// respondError maps service errors onto the response envelope.
func respondError(c *gin.Context, err error) {
	message := ""
	var serr *services.Error
	if errors.As(err, &serr) {
		message = serr.Message
	}

	switch {
	case errors.Is(err, services.ErrValidation):
		var fields interface{}
		if serr != nil && len(serr.Fields) > 0 {
			fields = serr.Fields
		}
		utils.ValidationError(c, message, fields)
	case errors.Is(err, services.ErrNotFound):
		utils.NotFound(c, message)
	case errors.Is(err, services.ErrConflict):
		utils.Conflict(c, message)
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("요청 처리 실패")
		utils.InternalError(c, err)
	}
}

func badRequestBody(c *gin.Context) {
	utils.Error(c, http.StatusBadRequest, "요청 본문이 올바르지 않습니다.")
}
