// Package telemetry обеспечивает наблюдаемость системы.
//
// logging.go — structured logging через slog: единый формат для всех
// сервисов, настраивается через LOG_LEVEL и LOG_FORMAT.
//
// Prometheus-метрики объявляются в main каждого сервиса и экспортируются
// на /metrics endpoint.
package telemetry
