package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sungsigun/SignageManagement/internal/config"
	"github.com/sungsigun/SignageManagement/internal/models"
	"github.com/sungsigun/SignageManagement/internal/services"
	"github.com/sungsigun/SignageManagement/internal/utils"
)

type FileHandler struct {
	fileService *services.FileService
	config      *config.Config
}

func NewFileHandler(fileService *services.FileService, cfg *config.Config) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		config:      cfg,
	}
}

// multipartOverhead 파일 본문 외에 boundary, 헤더, order_id 필드에 허용하는 여유분
const multipartOverhead = 1 << 20

// UploadFiles POST /api/upload (multipart: order_id, drawing / photo 필드)
func (h *FileHandler) UploadFiles(c *gin.Context) {
	limit := h.config.File.MaxFileSize*int64(h.config.File.MaxFilesPerRequest) + multipartOverhead
	if c.Request.ContentLength > limit {
		utils.Error(c, http.StatusRequestEntityTooLarge, "업로드 요청이 너무 큽니다.")
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	if err := c.Request.ParseMultipartForm(h.config.File.MaxFileSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.Error(c, http.StatusRequestEntityTooLarge, "업로드 요청이 너무 큽니다.")
			return
		}
		utils.Error(c, http.StatusBadRequest, "업로드 요청 형식이 올바르지 않습니다.")
		return
	}
	defer c.Request.MultipartForm.RemoveAll()

	orderID, err := strconv.ParseUint(c.Request.FormValue("order_id"), 10, 32)
	if err != nil || orderID == 0 {
		utils.Error(c, http.StatusBadRequest, "주문 ID가 필요합니다.")
		return
	}

	files := collectUploads(c.Request.MultipartForm.File)

	attachments, err := h.fileService.Upload(c.Request.Context(), uint(orderID), files)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Created(c, "파일이 성공적으로 업로드되었습니다.", attachments)
}

// collectUploads maps multipart fields onto attachment kinds. Other fields are ignored.
func collectUploads(form map[string][]*multipart.FileHeader) []services.UploadFile {
	fields := make([]string, 0, len(form))
	for field := range form {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var files []services.UploadFile
	for _, field := range fields {
		kind, ok := models.ParseAttachmentKind(field)
		if !ok {
			continue
		}
		for _, header := range form[field] {
			files = append(files, services.UploadFile{Kind: kind, Header: header})
		}
	}
	return files
}

func (h *FileHandler) DownloadFile(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "유효하지 않은 파일 ID입니다.")
	if !ok {
		return
	}

	attachment, err := h.fileService.Download(c.Request.Context(), kind, id)
	if err != nil {
		respondError(c, err)
		return
	}

	if attachment.MimeType != nil && *attachment.MimeType != "" {
		c.Header("Content-Type", *attachment.MimeType)
	}
	c.FileAttachment(attachment.FilePath, attachment.OriginalName)
}

func (h *FileHandler) DeleteFile(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "유효하지 않은 파일 ID입니다.")
	if !ok {
		return
	}

	if err := h.fileService.DeleteAttachment(c.Request.Context(), kind, id); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "파일이 삭제되었습니다.", nil)
}

func parseKind(c *gin.Context) (models.AttachmentKind, bool) {
	kind, ok := models.ParseAttachmentKind(c.Param("type"))
	if !ok {
		utils.Error(c, http.StatusBadRequest, "유효하지 않은 파일 타입입니다.")
		return "", false
	}
	return kind, true
}
