// Package executor выполняет действия над Telegram-сущностями.
//
// # Обзор
//
// Engine маршрутизирует имя действия к зарегистрированному Executor'у.
// Таблица action → executor собирается при старте (NewEngine) и передаётся
// по ссылке — глобального мутабельного реестра нет.
//
//	engine := executor.NewEngine()
//	outcome := engine.Execute(ctx, task.Action, session, task.Payload)
//
// Действия: subscribe, join, view, react, comment, bot_start, story_react.
//
// # Контракт Outcome
//
// Все executor'ы возвращают единый Outcome {ok, state, error, retry_after,
// data}. Незарегистрированное действие даёт {ok:false, state:"done",
// error:"unknown action"} — вызывающий никогда не падает на неожиданном
// имени действия, поскольку пространство действий задаётся конфигурацией.
//
// # Валидация payload
//
// Каждый executor объявляет свой набор обязательных полей payload и
// проверяет их наличие до обращения к сессии. Отсутствующее поле —
// структурированная ошибка вызывающего (ErrMissingField), сконверти-
// рованная в тот же failure-Outcome, а не необработанная паника.
//
// # Ошибки сессии
//
// Типизированные отказы Telegram-сессии транслируются в Outcome:
//   - FloodWaitError → state=pending + retry_after (транзиентная)
//   - остальные → state=failed (терминальная)
package executor
