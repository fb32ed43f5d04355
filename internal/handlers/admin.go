package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/sungsigun/SignageManagement/internal/services"
	"github.com/sungsigun/SignageManagement/internal/utils"
)

// AdminHandler 업로드 저장소 점검
type AdminHandler struct {
	fileService *services.FileService
}

func NewAdminHandler(fileService *services.FileService) *AdminHandler {
	return &AdminHandler{
		fileService: fileService,
	}
}

// GetOrphans 디스크와 메타데이터 불일치 조회
func (h *AdminHandler) GetOrphans(c *gin.Context) {
	report, err := h.fileService.FindOrphans(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, report)
}

// PruneOrphans 메타데이터 없는 파일 삭제
func (h *AdminHandler) PruneOrphans(c *gin.Context) {
	removed, err := h.fileService.PruneOrphans(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "고아 파일을 정리했습니다.", gin.H{
		"removed": removed,
		"count":   len(removed),
	})
}
