// Package dispatch связывает заказы с задачами для pull-воркеров.
//
// # Обзор
//
// Два процесса:
//   - Generator — читает backlog заказов и создаёт задачи: классифицирует
//     ссылку, резолвит политику выполнения, собирает payload. На каждый
//     заказ одновременно существует не более одной живой задачи.
//   - Reporter — принимает отчёт воркера о выполненной задаче,
//     идемпотентно переводит задачу в терминальное состояние и применяет
//     дельту прогресса к заказу.
//
// Структура:
//   - plan.go      — чистое планирование задачи из заказа
//   - generator.go — цикл генерации задач из backlog
//   - reporter.go  — приём отчётов воркеров
//   - errors.go    — sentinel-ошибки пакета
package dispatch
