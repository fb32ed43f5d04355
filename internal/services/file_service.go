package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/sungsigun/SignageManagement/internal/config"
	"github.com/sungsigun/SignageManagement/internal/models"
)

type FileService struct {
	db  *gorm.DB
	cfg config.FileConfig
}

func NewFileService(db *gorm.DB, cfg config.FileConfig) *FileService {
	return &FileService{db: db, cfg: cfg}
}

// UploadFile 업로드 요청의 파일 하나. Kind는 폼 필드 이름에서 결정된다.
type UploadFile struct {
	Kind   models.AttachmentKind
	Header *multipart.FileHeader
}

type checkedFile struct {
	UploadFile
	mimeType string
}

// Upload validates every file first; nothing is written unless all of them pass.
// Written payloads are removed again when the metadata transaction fails.
func (s *FileService) Upload(ctx context.Context, orderID uint, files []UploadFile) ([]models.Attachment, error) {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Order{}).Where("id = ?", orderID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, notFound("존재하지 않는 주문입니다.")
	}

	checked, err := s.check(files)
	if err != nil {
		return nil, err
	}

	var written []string
	attachments := make([]models.Attachment, 0, len(checked))
	for _, f := range checked {
		a, err := s.store(orderID, f)
		if err != nil {
			removeFiles(written)
			return nil, err
		}
		written = append(written, a.FilePath)
		attachments = append(attachments, *a)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		for i := range attachments {
			if err := tx.Table(attachments[i].Kind.Table()).Create(&attachments[i]).Error; err != nil {
				return fmt.Errorf("failed to save attachment row: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		removeFiles(written)
		return nil, storageError("파일 정보 저장에 실패했습니다.", err)
	}

	for i := range attachments {
		decorate(&attachments[i], attachments[i].Kind)
	}

	logrus.WithFields(logrus.Fields{
		"order_id": orderID,
		"count":    len(attachments),
	}).Info("파일 업로드")
	return attachments, nil
}

func (s *FileService) check(files []UploadFile) ([]checkedFile, error) {
	if len(files) == 0 {
		return nil, invalid("업로드할 파일이 없습니다.", nil)
	}
	if len(files) > s.cfg.MaxFilesPerRequest {
		return nil, invalid(
			fmt.Sprintf("한 번에 최대 %d개의 파일만 업로드할 수 있습니다.", s.cfg.MaxFilesPerRequest),
			map[string]string{"files": fmt.Sprintf("%d개 초과", s.cfg.MaxFilesPerRequest)},
		)
	}

	rejected := map[string]string{}
	checked := make([]checkedFile, 0, len(files))
	for _, f := range files {
		name := f.Header.Filename
		if f.Header.Size > s.cfg.MaxFileSize {
			rejected[name] = fmt.Sprintf("파일 크기가 %s를 초과합니다", formatSize(s.cfg.MaxFileSize))
			continue
		}

		mimeType := declaredType(f.Header)
		if mimeType == "" {
			sniffed, err := sniffType(f.Header)
			if err != nil {
				rejected[name] = "파일을 읽을 수 없습니다"
				continue
			}
			mimeType = sniffed
		}
		if !s.cfg.IsAllowedMimeType(mimeType) {
			rejected[name] = fmt.Sprintf("지원하지 않는 파일 형식입니다 (%s)", mimeType)
			continue
		}

		checked = append(checked, checkedFile{UploadFile: f, mimeType: mimeType})
	}

	if len(rejected) > 0 {
		return nil, invalid("허용되지 않는 파일이 포함되어 있습니다.", rejected)
	}
	return checked, nil
}

// declaredType returns the client-declared media type, or "" when it carries no information.
func declaredType(h *multipart.FileHeader) string {
	ct := strings.TrimSpace(h.Header.Get("Content-Type"))
	if ct == "" || strings.HasPrefix(ct, "application/octet-stream") {
		return ""
	}
	return ct
}

func sniffType(h *multipart.FileHeader) (string, error) {
	src, err := h.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	m, err := mimetype.DetectReader(src)
	if err != nil {
		return "", err
	}
	return m.String(), nil
}

func (s *FileService) store(orderID uint, f checkedFile) (*models.Attachment, error) {
	dir := filepath.Join(s.cfg.UploadPath, f.Kind.Table())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, storageError("업로드 디렉터리를 만들 수 없습니다.", err)
	}

	ext := strings.ToLower(filepath.Ext(f.Header.Filename))
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	filename := fmt.Sprintf("%s-%d-%s%s", f.Kind, time.Now().UnixMilli(), suffix, ext)
	path := filepath.Join(dir, filename)

	src, err := f.Header.Open()
	if err != nil {
		return nil, storageError("업로드 파일을 읽을 수 없습니다.", err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return nil, storageError("파일 저장에 실패했습니다.", err)
	}
	size, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, storageError("파일 저장에 실패했습니다.", err)
	}

	mimeType := f.mimeType
	return &models.Attachment{
		OrderID:      orderID,
		Filename:     filename,
		OriginalName: f.Header.Filename,
		FilePath:     path,
		FileSize:     size,
		MimeType:     &mimeType,
		Kind:         f.Kind,
	}, nil
}

func (s *FileService) GetAttachment(ctx context.Context, kind models.AttachmentKind, id uint) (*models.Attachment, error) {
	var a models.Attachment
	err := s.db.WithContext(ctx).Table(kind.Table()).Where("id = ?", id).Take(&a).Error
	if err != nil {
		if isNotFound(err) {
			return nil, notFound("파일을 찾을 수 없습니다.")
		}
		return nil, err
	}
	decorate(&a, kind)
	return &a, nil
}

// Download returns the row only when its payload is present on disk.
func (s *FileService) Download(ctx context.Context, kind models.AttachmentKind, id uint) (*models.Attachment, error) {
	a, err := s.GetAttachment(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(a.FilePath)
	if err != nil || info.IsDir() {
		logrus.WithFields(logrus.Fields{
			"type": kind,
			"id":   id,
			"path": a.FilePath,
		}).Warn("첨부 파일 본문 없음")
		return nil, notFound("실제 파일이 존재하지 않습니다.")
	}
	return a, nil
}

// DeleteAttachment deletes the row; payload removal failures are only logged.
func (s *FileService) DeleteAttachment(ctx context.Context, kind models.AttachmentKind, id uint) error {
	var a models.Attachment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(kind.Table()).Where("id = ?", id).Take(&a).Error; err != nil {
			if isNotFound(err) {
				return notFound("파일을 찾을 수 없습니다.")
			}
			return err
		}
		return tx.Table(kind.Table()).Where("id = ?", id).Delete(&models.Attachment{}).Error
	})
	if err != nil {
		return err
	}

	removeFiles([]string{a.FilePath})
	return nil
}

func (s *FileService) GetOrderFiles(ctx context.Context, orderID uint) (*models.OrderFiles, error) {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Order{}).Where("id = ?", orderID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, notFound("주문을 찾을 수 없습니다.")
	}

	files := &models.OrderFiles{}
	for _, kind := range models.AttachmentKinds {
		list := []models.Attachment{}
		err := db.Table(kind.Table()).Where("order_id = ?", orderID).
			Order("created_at DESC").Order("id DESC").Find(&list).Error
		if err != nil {
			return nil, err
		}
		for i := range list {
			decorate(&list[i], kind)
		}
		if kind == models.KindDrawing {
			files.Drawings = list
		} else {
			files.Photos = list
		}
	}
	return files, nil
}

// FindOrphans compares the upload directories with the attachment tables.
func (s *FileService) FindOrphans(ctx context.Context) (*models.OrphanReport, error) {
	db := s.db.WithContext(ctx)
	report := &models.OrphanReport{
		UntrackedFiles: []string{},
		MissingFiles:   []models.Attachment{},
	}

	for _, kind := range models.AttachmentKinds {
		var rows []models.Attachment
		if err := db.Table(kind.Table()).Order("id ASC").Find(&rows).Error; err != nil {
			return nil, err
		}

		tracked := make(map[string]struct{}, len(rows))
		for _, row := range rows {
			tracked[filepath.Clean(row.FilePath)] = struct{}{}
			if _, err := os.Stat(row.FilePath); err != nil {
				decorate(&row, kind)
				report.MissingFiles = append(report.MissingFiles, row)
			}
		}

		dir := filepath.Join(s.cfg.UploadPath, kind.Table())
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, storageError("업로드 디렉터리를 읽을 수 없습니다.", err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			path := filepath.Join(dir, e.Name())
			if _, ok := tracked[filepath.Clean(path)]; !ok {
				report.UntrackedFiles = append(report.UntrackedFiles, path)
			}
		}
	}

	return report, nil
}

// PruneOrphans removes files on disk that no attachment row points to.
func (s *FileService) PruneOrphans(ctx context.Context) ([]string, error) {
	report, err := s.FindOrphans(ctx)
	if err != nil {
		return nil, err
	}

	removed := []string{}
	for _, path := range report.UntrackedFiles {
		if err := os.Remove(path); err != nil {
			logrus.WithError(err).WithField("path", path).Warn("고아 파일 삭제 실패")
			continue
		}
		removed = append(removed, path)
	}

	logrus.WithField("count", len(removed)).Info("고아 파일 정리")
	return removed, nil
}

func formatSize(n int64) string {
	if n >= 1<<20 {
		return fmt.Sprintf("%dMB", n>>20)
	}
	return fmt.Sprintf("%dKB", n>>10)
}

func decorate(a *models.Attachment, kind models.AttachmentKind) {
	a.Kind = kind
	a.URL = fmt.Sprintf("/api/files/%s/%d", kind, a.ID)
}

// removeFiles deletes payloads best-effort.
func removeFiles(paths []string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			logrus.WithError(err).WithField("path", path).Warn("첨부 파일 삭제 실패")
		}
	}
}
