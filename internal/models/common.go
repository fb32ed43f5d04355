package models

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

type Pagination struct {
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Total  int64 `json:"total"`
}

// ListRequest 목록 조회 공통 파라미터 (limit/offset 기반)
type ListRequest struct {
	Search string `form:"search"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

func (r *ListRequest) Normalize() {
	if r.Limit <= 0 {
		r.Limit = DefaultListLimit
	}
	if r.Limit > MaxListLimit {
		r.Limit = MaxListLimit
	}
	if r.Offset < 0 {
		r.Offset = 0
	}
}
