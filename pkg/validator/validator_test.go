package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string `json:"name" validate:"required,max=5"`
	Phone  string `json:"phone" validate:"required,phone"`
	Status string `json:"status" validate:"omitempty,orderstatus"`
	Due    string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

func TestValidateStruct(t *testing.T) {
	ok := sample{Name: "김철수", Phone: "010-1234-5678", Status: "in_production", Due: "2026-12-24"}
	assert.NoError(t, ValidateStruct(ok))

	ok.Status = "제작중"
	ok.Phone = "+82 10 1234 5678"
	assert.NoError(t, ValidateStruct(ok))
}

func TestFieldErrorsUseJSONNames(t *testing.T) {
	err := ValidateStruct(sample{Name: "너무긴이름입니다", Phone: "phone", Status: "shipped", Due: "24/12/2026"})
	require.Error(t, err)

	fields := FieldErrors(err)
	assert.Equal(t, "최대 5까지 입력할 수 있습니다", fields["name"])
	assert.Equal(t, "전화번호 형식이 올바르지 않습니다", fields["phone"])
	assert.Equal(t, "유효하지 않은 상태입니다", fields["status"])
	assert.Contains(t, fields["due_date"], "날짜 형식")

	fields = FieldErrors(ValidateStruct(sample{}))
	assert.Equal(t, "필수 항목입니다", fields["name"])
	assert.Equal(t, "필수 항목입니다", fields["phone"])
}

func TestFieldErrorsIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, FieldErrors(assert.AnError))
	assert.NotNil(t, GetValidator())
}
