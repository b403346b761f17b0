package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Gramflow/internal/domain"
	"github.com/shaiso/Gramflow/internal/repo"
)

// fakeTaskStore — TaskStore в памяти, фиксирующий переходы.
type fakeTaskStore struct {
	task            *domain.Task
	markDoneChanged bool

	calls     []string
	notBefore *time.Time
}

func (f *fakeTaskStore) CreateForBacklog(ctx context.Context, task *domain.Task) (bool, error) {
	f.calls = append(f.calls, "create")
	return true, nil
}

func (f *fakeTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if f.task == nil || f.task.ID != id {
		return nil, repo.ErrNotFound
	}
	return f.task, nil
}

func (f *fakeTaskStore) MarkDone(ctx context.Context, id uuid.UUID, providerTaskID string) (bool, error) {
	f.calls = append(f.calls, "mark_done")
	return f.markDoneChanged, nil
}

func (f *fakeTaskStore) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) (bool, error) {
	f.calls = append(f.calls, "mark_failed")
	return true, nil
}

func (f *fakeTaskStore) Requeue(ctx context.Context, id uuid.UUID, notBefore *time.Time, errMsg string) (bool, error) {
	f.calls = append(f.calls, "requeue")
	f.notBefore = notBefore
	return true, nil
}

// fakeOrderStore — OrderStore в памяти, фиксирующий применённые дельты.
type fakeOrderStore struct {
	deltas []int
	owner  string
}

func (f *fakeOrderStore) ListNeedingTasks(ctx context.Context, limit int) ([]domain.Order, error) {
	return nil, nil
}

func (f *fakeOrderStore) SetLastError(ctx context.Context, id uuid.UUID, msg string) error {
	return nil
}

func (f *fakeOrderStore) ApplyWorkerProgress(ctx context.Context, id uuid.UUID, delta int, lockOwner string) (*domain.Order, error) {
	f.deltas = append(f.deltas, delta)
	f.owner = lockOwner
	return &domain.Order{ID: id, Delivered: delta, Status: domain.OrderStatusInProgress}, nil
}

func leasedTask() *domain.Task {
	return &domain.Task{
		ID:         uuid.New(),
		OrderID:    uuid.New(),
		Action:     "view",
		Payload:    map[string]any{"count": 50},
		Status:     domain.TaskStatusLeased,
		LeaseOwner: "worker-1",
	}
}

func newTestReporter(tasks *fakeTaskStore, orders *fakeOrderStore) *Reporter {
	return NewReporter(ReporterConfig{Tasks: tasks, Orders: orders})
}

func TestReport_DoneAppliesDelta(t *testing.T) {
	task := leasedTask()
	tasks := &fakeTaskStore{task: task, markDoneChanged: true}
	orders := &fakeOrderStore{}

	err := newTestReporter(tasks, orders).Report(context.Background(), task.ID, Report{State: "done", OK: true})
	if err != nil {
		t.Fatalf("Report: %v", err)
	}

	if len(orders.deltas) != 1 || orders.deltas[0] != 50 {
		t.Errorf("deltas = %v, ожидалась одна дельта 50", orders.deltas)
	}
	if orders.owner != "worker-1" {
		t.Errorf("owner = %q, ожидалось worker-1", orders.owner)
	}
}

func TestReport_TerminalTaskIsNoOp(t *testing.T) {
	// Повторный отчёт по завершённой задаче: без ошибки, без переходов,
	// без повторного применения дельты.
	task := leasedTask()
	task.Status = domain.TaskStatusDone
	tasks := &fakeTaskStore{task: task}
	orders := &fakeOrderStore{}

	err := newTestReporter(tasks, orders).Report(context.Background(), task.ID, Report{State: "done", OK: true})
	if err != nil {
		t.Fatalf("Report: %v", err)
	}

	if len(tasks.calls) != 0 {
		t.Errorf("calls = %v, переходов быть не должно", tasks.calls)
	}
	if len(orders.deltas) != 0 {
		t.Errorf("deltas = %v, дельта уже применена первым отчётом", orders.deltas)
	}
}

func TestReport_DoneRaceAppliesDeltaOnce(t *testing.T) {
	// Два конкурирующих отчёта done: хранилище отдаёт changed=false
	// второму — его дельта не применяется.
	task := leasedTask()
	tasks := &fakeTaskStore{task: task, markDoneChanged: false}
	orders := &fakeOrderStore{}

	err := newTestReporter(tasks, orders).Report(context.Background(), task.ID, Report{State: "done", OK: true})
	if err != nil {
		t.Fatalf("Report: %v", err)
	}

	if len(orders.deltas) != 0 {
		t.Errorf("deltas = %v, проигравший гонку не применяет дельту", orders.deltas)
	}
}

func TestReport_FailedWithRetryRequeues(t *testing.T) {
	// failed + retry_after — ограниченный retry, не терминальный отказ.
	task := leasedTask()
	tasks := &fakeTaskStore{task: task}
	orders := &fakeOrderStore{}

	rep := Report{State: "failed", Error: "flood wait", RetryAfter: 30}
	if err := newTestReporter(tasks, orders).Report(context.Background(), task.ID, rep); err != nil {
		t.Fatalf("Report: %v", err)
	}

	if len(tasks.calls) != 1 || tasks.calls[0] != "requeue" {
		t.Fatalf("calls = %v, ожидался requeue", tasks.calls)
	}
	if tasks.notBefore == nil || !tasks.notBefore.After(time.Now()) {
		t.Errorf("not_before = %v, ожидалась нижняя граница в будущем", tasks.notBefore)
	}
}

func TestReport_UnknownTask(t *testing.T) {
	tasks := &fakeTaskStore{}
	orders := &fakeOrderStore{}

	err := newTestReporter(tasks, orders).Report(context.Background(), uuid.New(), Report{State: "done", OK: true})
	if !errors.Is(err, ErrUnknownTask) {
		t.Fatalf("err = %v, ожидался ErrUnknownTask", err)
	}
}
