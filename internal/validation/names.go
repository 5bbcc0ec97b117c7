package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// NodeIDPattern определяет допустимый формат идентификатора узла:
// латинские буквы, цифры, "_", "-", ".", ":" длиной 1-64 символа (UUID подходит)
var NodeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.:-]{1,64}$`)

const (
	// MaxNodeIDLen максимальная длина идентификатора узла
	MaxNodeIDLen = 64
	// MinTokenLen минимальная длина общего токена синхронизации
	MinTokenLen = 12
	// MaxNameLen максимальная длина имени таблицы, id записи и имени поля
	MaxNameLen = 128
)

// ValidateNodeID проверяет идентификатор узла из конфигурации или рукопожатия
func ValidateNodeID(nodeID string) error {
	if nodeID == "" {
		return fmt.Errorf("node id cannot be empty")
	}

	if len(nodeID) > MaxNodeIDLen {
		return fmt.Errorf("node id must not exceed %d characters", MaxNodeIDLen)
	}

	if !NodeIDPattern.MatchString(nodeID) {
		return fmt.Errorf("node id can only contain letters, numbers and _ - . :")
	}

	return nil
}

// ValidateToken проверяет минимальные требования к общему токену
func ValidateToken(token string) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	if len(token) < MinTokenLen {
		return fmt.Errorf("token must be at least %d characters long", MinTokenLen)
	}

	return nil
}

// ValidateTableName проверяет имя таблицы хранилища: непустое, без точек
func ValidateTableName(table string) error {
	return validateSegment("table name", table, false)
}

// ValidateRecordID проверяет id записи. Точки допустимы.
func ValidateRecordID(recordID string) error {
	return validateSegment("record id", recordID, true)
}

// ValidateFieldName проверяет имя поля: непустое, без точек
func ValidateFieldName(field string) error {
	return validateSegment("field name", field, false)
}

func validateSegment(what, value string, allowDots bool) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", what)
	}

	if len(value) > MaxNameLen {
		return fmt.Errorf("%s must not exceed %d characters", what, MaxNameLen)
	}

	if !allowDots && strings.Contains(value, ".") {
		return fmt.Errorf("%s cannot contain dots", what)
	}

	if strings.TrimSpace(value) != value {
		return fmt.Errorf("%s cannot start or end with spaces", what)
	}

	return nil
}
