package progress

import (
	"encoding/json"
	"testing"

	"github.com/shaiso/Gramflow/internal/domain"
)

func parse(t *testing.T, raw string) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return payload
}

func TestExtractOrderRef_FlatKey(t *testing.T) {
	payload := parse(t, `{"order_id": "ord-123", "status": "completed"}`)

	if ref := ExtractOrderRef(payload); ref != "ord-123" {
		t.Errorf("ref = %q, ожидалось ord-123", ref)
	}
}

func TestExtractOrderRef_NestedKey(t *testing.T) {
	// Точечная нотация: order.id — вложенный lookup.
	payload := parse(t, `{"order": {"id": "ord-456"}}`)

	if ref := ExtractOrderRef(payload); ref != "ord-456" {
		t.Errorf("ref = %q, ожидалось ord-456", ref)
	}
}

func TestExtractOrderRef_Priority(t *testing.T) {
	// order_id стоит раньше id в списке кандидатов — выигрывает он.
	payload := parse(t, `{"order_id": "first", "id": "second"}`)

	if ref := ExtractOrderRef(payload); ref != "first" {
		t.Errorf("ref = %q, ожидалось first", ref)
	}
}

func TestExtractOrderRef_NumericID(t *testing.T) {
	// Провайдеры шлют числовые id — приводим к строке.
	payload := parse(t, `{"order_id": 98765}`)

	if ref := ExtractOrderRef(payload); ref != "98765" {
		t.Errorf("ref = %q, ожидалось 98765", ref)
	}
}

func TestExtractOrderRef_Missing(t *testing.T) {
	payload := parse(t, `{"status": "completed"}`)

	if ref := ExtractOrderRef(payload); ref != "" {
		t.Errorf("ref = %q, ожидалась пустая строка", ref)
	}
}

func TestExtractProgress_Aliases(t *testing.T) {
	// remaining — алиас remains, start_count лежит вложенно.
	payload := parse(t, `{"delivered": 70, "remaining": 40, "data": {"start_count": 1500}}`)

	u := ExtractProgress(payload)

	if u.Delivered == nil || *u.Delivered != 70 {
		t.Errorf("delivered = %v", u.Delivered)
	}
	if u.Remains == nil || *u.Remains != 40 {
		t.Errorf("remains = %v", u.Remains)
	}
	if u.StartCount == nil || *u.StartCount != 1500 {
		t.Errorf("start_count = %v", u.StartCount)
	}
}

func TestExtractProgress_StringNumbers(t *testing.T) {
	// Счётчики строками — числовая коэрция.
	payload := parse(t, `{"delivered": "25", "remains": " 75 "}`)

	u := ExtractProgress(payload)

	if u.Delivered == nil || *u.Delivered != 25 {
		t.Errorf("delivered = %v", u.Delivered)
	}
	if u.Remains == nil || *u.Remains != 75 {
		t.Errorf("remains = %v", u.Remains)
	}
}

func TestExtractProgress_AbsentFields(t *testing.T) {
	payload := parse(t, `{"order_id": "x", "status": "partial"}`)

	u := ExtractProgress(payload)

	if !u.IsEmpty() {
		t.Errorf("обновление должно быть пустым: %+v", u)
	}
}

func TestExtractStatus(t *testing.T) {
	payload := parse(t, `{"status": "Completed"}`)

	s, ok := ExtractStatus(payload)
	if !ok || s != "Completed" {
		t.Errorf("status = %q, ok = %v", s, ok)
	}

	if _, ok := ExtractStatus(parse(t, `{"delivered": 5}`)); ok {
		t.Error("статус найден там, где его нет")
	}
}

func TestMapProviderStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want domain.OrderStatus
	}{
		{"completed", domain.OrderStatusCompleted},
		{"Complete", domain.OrderStatusCompleted},
		{"  DONE  ", domain.OrderStatusCompleted},
		{"in_progress", domain.OrderStatusInProgress},
		// Пробелы внутри статуса эквивалентны "_".
		{"in progress", domain.OrderStatusInProgress},
		{"In  Progress", domain.OrderStatusInProgress},
		{"Partial", domain.OrderStatusPartial},
		{"cancelled", domain.OrderStatusCanceled},
		{"error", domain.OrderStatusFailed},
		// Незнакомая строка — PROCESSING, не ошибка.
		{"weird-provider-status", domain.OrderStatusProcessing},
		{"", domain.OrderStatusProcessing},
	}

	for _, tt := range tests {
		if got := MapProviderStatus(tt.raw); got != tt.want {
			t.Errorf("MapProviderStatus(%q) = %s, ожидалось %s", tt.raw, got, tt.want)
		}
	}
}
