package models

import "time"

// AttachmentKind 첨부 파일 분류 (도면/사진)
type AttachmentKind string

const (
	KindDrawing AttachmentKind = "drawing"
	KindPhoto   AttachmentKind = "photo"
)

var AttachmentKinds = []AttachmentKind{KindDrawing, KindPhoto}

// ParseAttachmentKind accepts the singular or plural form used in URLs and form fields.
func ParseAttachmentKind(s string) (AttachmentKind, bool) {
	switch s {
	case "drawing", "drawings", "drawing[]":
		return KindDrawing, true
	case "photo", "photos", "photo[]":
		return KindPhoto, true
	}
	return "", false
}

// Table returns the metadata table; it doubles as the upload sub-directory.
func (k AttachmentKind) Table() string {
	return string(k) + "s"
}

// Attachment 파일 메타데이터. 실제 파일은 FilePath에 저장된다.
type Attachment struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	OrderID      uint      `json:"order_id" gorm:"not null;index"`
	Filename     string    `json:"filename" gorm:"size:255;not null"`
	OriginalName string    `json:"original_name" gorm:"size:255;not null"`
	FilePath     string    `json:"file_path" gorm:"type:text;not null"`
	FileSize     int64     `json:"file_size" gorm:"not null;default:0"`
	MimeType     *string   `json:"mime_type" gorm:"size:100"`
	CreatedAt    time.Time `json:"created_at"`

	// 계산 필드
	Kind AttachmentKind `json:"type" gorm:"-"`
	URL  string         `json:"url,omitempty" gorm:"-"`
}

type Drawing struct {
	Attachment
}

func (Drawing) TableName() string {
	return KindDrawing.Table()
}

type Photo struct {
	Attachment
}

func (Photo) TableName() string {
	return KindPhoto.Table()
}

type OrderFiles struct {
	Drawings []Attachment `json:"drawings"`
	Photos   []Attachment `json:"photos"`
}

// OrphanReport 저장소와 메타데이터 간 불일치 목록
type OrphanReport struct {
	// 디스크에는 있으나 메타데이터 행이 없는 파일
	UntrackedFiles []string `json:"untracked_files"`
	// 메타데이터 행은 있으나 디스크에 파일이 없는 항목
	MissingFiles []Attachment `json:"missing_files"`
}
