package progress

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shaiso/Gramflow/internal/domain"
	"github.com/shaiso/Gramflow/internal/repo"
)

// fakeOrderStore — OrderStore в памяти, фиксирующий порядок вызовов.
type fakeOrderStore struct {
	order    *domain.Order
	applyErr error

	calls         []string
	storedPayload []byte
	appliedUpdate domain.ProgressUpdate
	appliedStatus domain.OrderStatus
	lastError     string
}

func (f *fakeOrderStore) FindByProviderRef(ctx context.Context, ref string) (*domain.Order, error) {
	f.calls = append(f.calls, "find")
	if f.order == nil || f.order.ProviderOrderID != ref {
		return nil, repo.ErrNotFound
	}
	return f.order, nil
}

func (f *fakeOrderStore) StoreWebhookPayload(ctx context.Context, id uuid.UUID, raw []byte) error {
	f.calls = append(f.calls, "store")
	f.storedPayload = raw
	return nil
}

func (f *fakeOrderStore) ApplyWebhookProgress(ctx context.Context, id uuid.UUID, u domain.ProgressUpdate, status domain.OrderStatus) (*domain.Order, error) {
	f.calls = append(f.calls, "apply")
	f.appliedUpdate = u
	f.appliedStatus = status
	if f.applyErr != nil {
		return nil, f.applyErr
	}

	updated := *f.order
	updated.ApplyProgress(u)
	if status != "" {
		updated.Status = status
	}
	return &updated, nil
}

func (f *fakeOrderStore) SetLastError(ctx context.Context, id uuid.UUID, msg string) error {
	f.calls = append(f.calls, "set_last_error")
	f.lastError = msg
	return nil
}

func testOrder() *domain.Order {
	return &domain.Order{
		ID:              uuid.New(),
		ServiceType:     "views",
		Link:            "https://t.me/channelname/42",
		Quantity:        100,
		Remains:         100,
		Status:          domain.OrderStatusInProgress,
		ProviderOrderID: "ext-1",
	}
}

func newTestReconciler(orders *fakeOrderStore) *Reconciler {
	return NewReconciler(ReconcilerConfig{Orders: orders})
}

func TestProcessWebhook_StoresBeforeApply(t *testing.T) {
	orders := &fakeOrderStore{order: testOrder()}

	raw := []byte(`{"order_id": "ext-1", "status": "completed", "delivered": 100, "remains": 0}`)
	reconciled, err := newTestReconciler(orders).ProcessWebhook(context.Background(), raw)
	if err != nil {
		t.Fatalf("ProcessWebhook: %v", err)
	}

	want := []string{"find", "store", "apply"}
	if len(orders.calls) != len(want) {
		t.Fatalf("calls = %v, ожидалось %v", orders.calls, want)
	}
	for i, call := range want {
		if orders.calls[i] != call {
			t.Fatalf("calls = %v, ожидалось %v", orders.calls, want)
		}
	}
	if string(orders.storedPayload) != string(raw) {
		t.Errorf("сохранён payload %q", orders.storedPayload)
	}
	if reconciled.Status != domain.OrderStatusCompleted {
		t.Errorf("status = %s, ожидалось COMPLETED", reconciled.Status)
	}
}

func TestProcessWebhook_StoresWithoutCounters(t *testing.T) {
	// Webhook без счётчиков и статуса: polling-блокировка всё равно
	// снимается, счётчики заказа не трогаются.
	orders := &fakeOrderStore{order: testOrder()}

	raw := []byte(`{"order_id": "ext-1"}`)
	reconciled, err := newTestReconciler(orders).ProcessWebhook(context.Background(), raw)
	if err != nil {
		t.Fatalf("ProcessWebhook: %v", err)
	}

	stored := false
	for _, call := range orders.calls {
		if call == "store" {
			stored = true
		}
	}
	if !stored {
		t.Fatalf("calls = %v, payload должен быть сохранён", orders.calls)
	}
	if !orders.appliedUpdate.IsEmpty() {
		t.Errorf("update = %+v, ожидалось пустое", orders.appliedUpdate)
	}
	if orders.appliedStatus != "" {
		t.Errorf("status = %q, без статуса в payload статус не меняется", orders.appliedStatus)
	}
	if reconciled.Delivered != 0 || reconciled.Remains != 100 {
		t.Errorf("счётчики изменились: delivered=%d remains=%d", reconciled.Delivered, reconciled.Remains)
	}
}

func TestProcessWebhook_StoresWhenApplyFails(t *testing.T) {
	// Ошибка реконсиляции не теряет доставку: payload уже сохранён,
	// диагностика записана в заказ.
	orders := &fakeOrderStore{order: testOrder(), applyErr: errors.New("deadlock")}

	raw := []byte(`{"order_id": "ext-1", "delivered": 50}`)
	_, err := newTestReconciler(orders).ProcessWebhook(context.Background(), raw)
	if err == nil {
		t.Fatal("ожидалась ошибка реконсиляции")
	}

	want := []string{"find", "store", "apply", "set_last_error"}
	if len(orders.calls) != len(want) {
		t.Fatalf("calls = %v, ожидалось %v", orders.calls, want)
	}
	for i, call := range want {
		if orders.calls[i] != call {
			t.Fatalf("calls = %v, ожидалось %v", orders.calls, want)
		}
	}
	if orders.lastError == "" {
		t.Error("last_error не записан")
	}
}

func TestProcessWebhook_UnknownProviderStatus(t *testing.T) {
	// Нераспознанный статус провайдера деградирует в PROCESSING,
	// но не срывает сохранение и реконсиляцию.
	orders := &fakeOrderStore{order: testOrder()}

	raw := []byte(`{"order_id": "ext-1", "status": "weird", "delivered": 10}`)
	if _, err := newTestReconciler(orders).ProcessWebhook(context.Background(), raw); err != nil {
		t.Fatalf("ProcessWebhook: %v", err)
	}

	if orders.appliedStatus != domain.OrderStatusProcessing {
		t.Errorf("status = %s, ожидалось PROCESSING", orders.appliedStatus)
	}
}

func TestProcessWebhook_UnknownOrder(t *testing.T) {
	orders := &fakeOrderStore{}

	raw := []byte(`{"order_id": "ext-1"}`)
	_, err := newTestReconciler(orders).ProcessWebhook(context.Background(), raw)
	if !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("err = %v, ожидался repo.ErrNotFound", err)
	}
}
