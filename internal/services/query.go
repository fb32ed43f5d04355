package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// likeOperator picks a case-insensitive substring operator for the active dialect.
// sqlite LIKE and the default mysql collations already ignore case.
func likeOperator(db *gorm.DB) string {
	if db.Dialector.Name() == "postgres" {
		return "ILIKE"
	}
	return "LIKE"
}

// '!' needs no quoting in any supported dialect, unlike a backslash under mysql.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(s)) + "%"
}

// likeAny matches s as a literal substring of any of the columns.
func likeAny(db *gorm.DB, s string, columns ...string) (string, []interface{}) {
	op := likeOperator(db)
	pattern := likePattern(s)

	conds := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		conds[i] = col + " " + op + " ? ESCAPE '!'"
		args[i] = pattern
	}
	return "(" + strings.Join(conds, " OR ") + ")", args
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
