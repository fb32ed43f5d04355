package models

import "strings"

// OrderStatus 주문 진행 상태. DB에는 한글 값이 저장된다.
type OrderStatus string

const (
	StatusReceived     OrderStatus = "주문접수"
	StatusDrafting     OrderStatus = "도면작업"
	StatusInProduction OrderStatus = "제작중"
	StatusDone         OrderStatus = "완료"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{StatusReceived, StatusDrafting, StatusInProduction, StatusDone}

var statusCodes = map[OrderStatus]string{
	StatusReceived:     "received",
	StatusDrafting:     "drafting",
	StatusInProduction: "in_production",
	StatusDone:         "done",
}

// ParseOrderStatus accepts either the stored Korean value or its English code.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	s = strings.TrimSpace(s)
	for status, code := range statusCodes {
		if s == string(status) || strings.EqualFold(s, code) {
			return status, true
		}
	}
	if strings.EqualFold(s, "in production") || strings.EqualFold(s, "in-production") {
		return StatusInProduction, true
	}
	return "", false
}

func (s OrderStatus) Valid() bool {
	_, ok := statusCodes[s]
	return ok
}

func (s OrderStatus) Code() string {
	return statusCodes[s]
}
