package progress

import (
	"strconv"
	"strings"

	"github.com/shaiso/Gramflow/internal/domain"
)

// orderRefKeys — ключи-кандидаты идентификатора заказа, в порядке
// приоритета. Первое совпадение выигрывает.
var orderRefKeys = []string{
	"order_id",
	"order.id",
	"orderId",
	"data.order_id",
	"id",
}

// Ключи-кандидаты полей прогресса. У каждого поля свой список алиасов:
// провайдеры не договаривались об именовании.
var (
	statusKeys = []string{"status", "order_status", "data.status", "state"}

	deliveredKeys = []string{"delivered", "count_delivered", "data.delivered", "completed"}

	remainsKeys = []string{"remains", "remaining", "data.remains", "rest"}

	startCountKeys = []string{"start_count", "startCount", "data.start_count"}
)

// Lookup ищет значение по пути с точечной нотацией: "data.order_id"
// означает payload["data"]["order_id"]. Второе значение false — путь
// не существует.
func Lookup(payload map[string]any, path string) (any, bool) {
	cur := any(payload)
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// lookupFirst возвращает первое найденное значение по списку путей.
func lookupFirst(payload map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := Lookup(payload, k); ok {
			return v, true
		}
	}
	return nil, false
}

// ExtractOrderRef извлекает идентификатор заказа из payload.
// Пустая строка — идентификатор не найден.
func ExtractOrderRef(payload map[string]any) string {
	v, ok := lookupFirst(payload, orderRefKeys)
	if !ok {
		return ""
	}
	return asString(v)
}

// ExtractStatus извлекает сырой провайдерский статус из payload.
// Второе значение false — статуса в payload нет.
func ExtractStatus(payload map[string]any) (string, bool) {
	v, ok := lookupFirst(payload, statusKeys)
	if !ok {
		return "", false
	}
	s := asString(v)
	return s, s != ""
}

// ExtractProgress собирает частичное обновление счётчиков из payload.
// Отсутствующие поля остаются nil.
func ExtractProgress(payload map[string]any) domain.ProgressUpdate {
	var u domain.ProgressUpdate

	if v, ok := lookupFirst(payload, deliveredKeys); ok {
		if n, ok := asInt(v); ok {
			u.Delivered = &n
		}
	}
	if v, ok := lookupFirst(payload, remainsKeys); ok {
		if n, ok := asInt(v); ok {
			u.Remains = &n
		}
	}
	if v, ok := lookupFirst(payload, startCountKeys); ok {
		if n, ok := asInt(v); ok {
			u.StartCount = &n
		}
	}

	return u
}

// asString приводит значение к строке. Числа из JSON (float64)
// форматируются без экспоненты и дробной части, если она нулевая.
func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	}
	return ""
}

// asInt приводит значение к int: JSON-числа, числовые строки.
func asInt(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case int:
		return t, true
	case int64:
		return int(t), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
