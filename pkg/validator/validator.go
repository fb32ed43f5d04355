// pkg/validator/validator.go
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sungsigun/SignageManagement/internal/models"
)

var validate *validator.Validate

var phonePattern = regexp.MustCompile(`^[0-9+][0-9\- ]{6,18}[0-9]$`)

func init() {
	validate = validator.New()

	// JSON 태그 이름을 필드 이름으로 사용
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidators()
}

func registerCustomValidators() {
	// 주문 상태: 한글 값 또는 영문 코드
	validate.RegisterValidation("orderstatus", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseOrderStatus(fl.Field().String())
		return ok
	})

	// 전화번호: 숫자, 하이픈, 공백, 선행 +
	validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func GetValidator() *validator.Validate {
	return validate
}

// FieldErrors flattens validator errors into {json_field: message}.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "필수 항목입니다"
	case "max":
		return fmt.Sprintf("최대 %s까지 입력할 수 있습니다", fe.Param())
	case "min":
		return fmt.Sprintf("%s 이상이어야 합니다", fe.Param())
	case "datetime":
		return fmt.Sprintf("날짜 형식이 올바르지 않습니다 (%s)", fe.Param())
	case "orderstatus":
		return "유효하지 않은 상태입니다"
	case "phone":
		return "전화번호 형식이 올바르지 않습니다"
	}
	return fmt.Sprintf("유효하지 않은 값입니다 (%s)", fe.Tag())
}
