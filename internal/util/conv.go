package util

import (
	"strings"

	"github.com/google/uuid"
)

// ParseUUIDParam 校验路径中的外部标识符
func ParseUUIDParam(s string) (string, error) {
	s = strings.TrimSpace(s)
	id, err := uuid.Parse(s)
	if err != nil {
		return "", NewValidationError("malformed identifier %q", s)
	}
	return id.String(), nil
}
