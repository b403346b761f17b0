// Package telegram определяет границу с Telegram-клиентом.
//
// Session — opaque-капабилити «аутентифицированная сессия выполняет RPC,
// возвращает результат или типизированный отказ». Сам MTProto-клиент в
// репозиторий не входит: воркеры передают свою реализацию Session в
// executor-движок.
//
// Типизированные отказы:
//   - FloodWaitError — повторить через N секунд
//   - PeerError — сущность недоступна (терминально для task)
package telegram
