// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация сообщений в очереди
//   - consumer.go   — потребление сообщений из очередей
//
// Типы сообщений:
//   - task.created     — новая задача добавлена в backlog
//   - order.progress   — прогресс заказа изменился
//
// Exchanges:
//   - gramflow.tasks   — события tasks
//   - gramflow.orders  — события orders
//   - gramflow.dlq     — dead letter queue
package mq
