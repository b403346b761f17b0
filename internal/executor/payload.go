package executor

import (
	"fmt"
)

// requireString извлекает обязательное строковое поле payload.
// Отсутствие поля — ошибка вызывающего, не паника.
func requireString(payload map[string]any, key string) (string, error) {
	val, ok := payload[key]
	if !ok || val == nil {
		return "", fmt.Errorf("%w: %s", ErrMissingField, key)
	}
	s, ok := val.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingField, key)
	}
	return s, nil
}

// requireInt извлекает обязательное целочисленное поле payload.
// JSON-декодер даёт float64 — оба варианта принимаются.
func requireInt(payload map[string]any, key string) (int, error) {
	val, ok := payload[key]
	if !ok || val == nil {
		return 0, fmt.Errorf("%w: %s", ErrMissingField, key)
	}
	switch v := val.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrMissingField, key)
	}
}

// getString извлекает строку с default-значением.
func getString(payload map[string]any, key, defaultVal string) string {
	if val, ok := payload[key]; ok {
		if s, ok := val.(string); ok && s != "" {
			return s
		}
	}
	return defaultVal
}

// getInt извлекает целое с default-значением.
func getInt(payload map[string]any, key string, defaultVal int) int {
	val, ok := payload[key]
	if !ok {
		return defaultVal
	}
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return defaultVal
	}
}
