// Package progress реконсилирует счётчики заказов по webhook'ам провайдера.
//
// # Обзор
//
// Провайдеры присылают статус заказа в разнородных форматах: идентификатор
// заказа и счётчики лежат под разными ключами, иногда вложенно. Пакет
// извлекает поля по упорядоченным спискам ключей-кандидатов (первое
// совпадение выигрывает, точка — вложенный lookup) и применяет обновление
// к заказу через клампинг-правила домена.
//
// Webhook — авторитетный источник прогресса: сырой payload сохраняется
// до любой обработки, а polling-блокировка заказа снимается безусловно,
// даже если сама реконсиляция упадёт.
//
// Структура:
//   - payload.go    — извлечение полей из сырого payload
//   - status.go     — нормализация провайдерских статусов
//   - reconciler.go — цикл обработки webhook'а
//   - errors.go     — sentinel-ошибки пакета
package progress
