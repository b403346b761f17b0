// Package api содержит HTTP API сервер.
//
// Структура:
//   - handler.go         — Handler с DI (репозитории, generator, reconciler)
//   - routes.go          — регистрация маршрутов
//   - middleware.go      — middleware (logging, recovery, worker auth)
//   - signature.go       — HMAC-подпись webhook'ов
//   - response.go        — унифицированные JSON-ответы и обработка ошибок
//   - dto.go             — Data Transfer Objects (request/response)
//   - order_handler.go   — обработчики для /orders
//   - worker_handler.go  — обработчики pull-воркеров (/tasks, /accounts)
//   - webhook_handler.go — обработчик webhook'ов провайдера
//
// Две границы доверия: pull-воркеры аутентифицируются общим секретом
// в заголовке X-Worker-Token, webhook'и провайдера — HMAC-SHA256
// подписью тела.
package api
