// Package worker — встроенный референсный воркер.
//
// # Обзор
//
// Основной поток выполнения задач — внешние pull-воркеры, ходящие через
// HTTP-границу (tasks/pull, tasks/report). Этот пакет — тот же воркер,
// но in-process: он проходит через те же claim и Reporter, поэтому
// его поведение эквивалентно внешнему с точностью до транспорта.
// Worker отвечает за:
//
//   - Получение сигнала о новых задачах из очереди RabbitMQ (event-driven)
//   - Периодический забор задач под lease (polling fallback)
//   - Выполнение действия через executor.Engine и telegram.Session
//   - Отчёт о результате через dispatch.Reporter
//
// Экземпляры масштабируются горизонтально: атомарный claim гарантирует,
// что одну задачу не возьмут двое.
//
// # Жизненный цикл задачи
//
//  1. Сигнал task.created из очереди или тик polling
//  2. Claim пачки задач: PENDING → LEASED, владелец — worker_id
//  3. Выполнение действия executor'ом с авторизованной сессией
//  4. Outcome → Report → Reporter: done/failed/requeue + дельта заказа
//  5. Не отчитался (упал, завис) — lease истечёт, задачу заберут снова
//
// # Ошибки выполнения
//
// Flood-wait от Telegram приводит к state=pending с retry_after —
// задача вернётся в очередь не раньше истечения паузы. Ошибки peer'а
// (нет сущности, забанен) — терминальный failed.
package worker
