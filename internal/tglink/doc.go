// Package tglink классифицирует сырые Telegram-ссылки.
//
// Classify — чистая функция без I/O: строка → Descriptor с видом ссылки
// и извлечёнными идентификаторами. Поддерживаются формы:
//
//   - t.me/+hash, t.me/joinchat/hash, tg://join?invite=hash — инвайты
//   - t.me/username/123 — пост в публичном канале
//   - t.me/c/123456/42 — пост в приватном канале
//   - t.me/username/s/15 — сторис
//   - t.me/username, @username, username — публичный username или бот
//   - tg://resolve?domain=X[&start=...] — запуск бота
//
// Результат классификации потребляется синхронно резолвером политик
// (internal/policy) и нигде не хранится отдельно.
package tglink
