package domain

import "testing"

func intp(v int) *int { return &v }

func TestApplyProgress_DeliveredOnly(t *testing.T) {
	o := &Order{Quantity: 100, Delivered: 10, Remains: 90}

	o.ApplyProgress(ProgressUpdate{Delivered: intp(40)})

	if o.Delivered != 40 {
		t.Errorf("delivered = %d, want 40", o.Delivered)
	}
	if o.Remains != 60 {
		t.Errorf("remains = %d, want 60", o.Remains)
	}
}

func TestApplyProgress_RemainsOnly(t *testing.T) {
	o := &Order{Quantity: 100, Delivered: 10, Remains: 90}

	o.ApplyProgress(ProgressUpdate{Remains: intp(30)})

	if o.Remains != 30 {
		t.Errorf("remains = %d, want 30", o.Remains)
	}
	if o.Delivered != 70 {
		t.Errorf("delivered = %d, want 70", o.Delivered)
	}
}

func TestApplyProgress_BothOverQuantity(t *testing.T) {
	// delivered=70, remains=40, quantity=100: сумма 110 > 100 —
	// данные провайдера противоречивы, delivered поднимается до quantity.
	o := &Order{Quantity: 100, Delivered: 40, Remains: 60}

	o.ApplyProgress(ProgressUpdate{Delivered: intp(70), Remains: intp(40)})

	if o.Delivered != 100 {
		t.Errorf("delivered = %d, want 100", o.Delivered)
	}
	if o.Remains != 0 {
		t.Errorf("remains = %d, want 0", o.Remains)
	}
	if o.Delivered+o.Remains > o.Quantity {
		t.Errorf("invariant violated: %d + %d > %d", o.Delivered, o.Remains, o.Quantity)
	}
}

func TestApplyProgress_BothConsistent(t *testing.T) {
	// Сумма не превышает quantity — оба значения сохраняются как есть.
	o := &Order{Quantity: 100, Delivered: 10, Remains: 90}

	o.ApplyProgress(ProgressUpdate{Delivered: intp(60), Remains: intp(40)})

	if o.Delivered != 60 || o.Remains != 40 {
		t.Errorf("delivered=%d remains=%d, want 60/40", o.Delivered, o.Remains)
	}
}

func TestApplyProgress_DeliveredClampedToQuantity(t *testing.T) {
	o := &Order{Quantity: 100, Delivered: 40, Remains: 60}

	o.ApplyProgress(ProgressUpdate{Delivered: intp(250)})

	if o.Delivered != 100 {
		t.Errorf("delivered = %d, want 100", o.Delivered)
	}
	if o.Remains != 0 {
		t.Errorf("remains = %d, want 0", o.Remains)
	}
}

func TestApplyProgress_NegativeValues(t *testing.T) {
	o := &Order{Quantity: 50, Delivered: 10, Remains: 40}

	o.ApplyProgress(ProgressUpdate{Delivered: intp(-5), Remains: intp(-7), StartCount: intp(-3)})

	if o.Delivered != 0 {
		t.Errorf("delivered = %d, want 0", o.Delivered)
	}
	if o.Remains != 0 {
		t.Errorf("remains = %d, want 0", o.Remains)
	}
	if o.StartCount != 0 {
		t.Errorf("start_count = %d, want 0", o.StartCount)
	}
}

func TestApplyProgress_StartCountOnly(t *testing.T) {
	o := &Order{Quantity: 100, Delivered: 40, Remains: 60}

	o.ApplyProgress(ProgressUpdate{StartCount: intp(1500)})

	if o.StartCount != 1500 {
		t.Errorf("start_count = %d, want 1500", o.StartCount)
	}
	// Счётчики не трогаем
	if o.Delivered != 40 || o.Remains != 60 {
		t.Errorf("counters changed: delivered=%d remains=%d", o.Delivered, o.Remains)
	}
}

func TestAddDelivered(t *testing.T) {
	o := &Order{Quantity: 100, Delivered: 95, Remains: 5}

	o.AddDelivered(10)

	if o.Delivered != 100 {
		t.Errorf("delivered = %d, want 100", o.Delivered)
	}
	if o.Remains != 0 {
		t.Errorf("remains = %d, want 0", o.Remains)
	}
}

func TestAddDelivered_NegativeDelta(t *testing.T) {
	o := &Order{Quantity: 100, Delivered: 50, Remains: 50}

	o.AddDelivered(-20)

	if o.Delivered != 50 {
		t.Errorf("delivered = %d, want 50 (negative delta ignored)", o.Delivered)
	}
}

func TestNeedsWork(t *testing.T) {
	tests := []struct {
		status  OrderStatus
		remains int
		want    bool
	}{
		{OrderStatusPending, 10, true},
		{OrderStatusInProgress, 10, true},
		{OrderStatusInProgress, 0, false},
		{OrderStatusCompleted, 10, false},
		{OrderStatusCanceled, 10, false},
	}

	for _, tt := range tests {
		o := &Order{Status: tt.status, Quantity: 100, Remains: tt.remains}
		if got := o.NeedsWork(); got != tt.want {
			t.Errorf("NeedsWork(%s, remains=%d) = %v, want %v", tt.status, tt.remains, got, tt.want)
		}
	}
}
