package worker

import (
	"context"

	"github.com/shaiso/Gramflow/internal/dispatch"
	"github.com/shaiso/Gramflow/internal/domain"
	"github.com/shaiso/Gramflow/internal/executor"
	"github.com/shaiso/Gramflow/internal/mq"
)

// handleTaskCreated обрабатывает событие о новой задаче из tasks.created.
//
// Событие — только сигнал: задача забирается через общий claim-путь,
// так что конкурирующие экземпляры не получат её дважды.
func (w *Worker) handleTaskCreated(ctx context.Context, ev mq.TaskCreatedPayload) error {
	w.logger.Debug("received task.created event",
		"task_id", ev.TaskID,
		"order_id", ev.OrderID,
		"action", ev.Action,
	)

	w.claimAndRun(ctx)
	return nil
}

// runTask выполняет одну задачу и отчитывается о результате.
func (w *Worker) runTask(ctx context.Context, task *domain.Task) {
	w.logger.Info("task started",
		"task_id", task.ID,
		"order_id", task.OrderID,
		"action", task.Action,
		"attempt", task.Attempt,
	)

	outcome := w.engine.Execute(ctx, task.Action, w.session, task.Payload)

	rep := ReportFromOutcome(outcome)

	if err := w.reporter.Report(ctx, task.ID, rep); err != nil {
		// Отчёт не прошёл — lease истечёт и задача вернётся в очередь.
		w.logger.Error("failed to report task result",
			"task_id", task.ID,
			"error", err,
		)
		return
	}

	if outcome.OK {
		w.logger.Info("task done", "task_id", task.ID, "order_id", task.OrderID)
	} else {
		w.logger.Warn("task not completed",
			"task_id", task.ID,
			"state", rep.State,
			"error", rep.Error,
			"retry_after", rep.RetryAfter,
		)
	}
}

// ReportFromOutcome преобразует результат executor'а в отчёт воркера.
func ReportFromOutcome(o executor.Outcome) dispatch.Report {
	rep := dispatch.Report{
		State:      o.State,
		OK:         o.OK,
		Error:      o.Error,
		RetryAfter: o.RetryAfter,
	}

	if o.Data != nil {
		switch v := o.Data["count"].(type) {
		case int:
			rep.Count = v
		case float64:
			rep.Count = int(v)
		}
	}

	return rep
}
