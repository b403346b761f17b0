// Package cli реализует команды утилиты gramflow-cli поверх cobra.
//
// # Обзор
//
// CLI общается с gramflow-api по HTTP и не имеет прямого доступа к БД.
// Команды строятся фабриками (NewOrderCmd, NewAccountCmd), принимающими
// ленивые конструкторы клиента и вывода: флаги --api-url и --json
// разбираются корневой командой до первого обращения к ним.
//
// Команды:
//
//	order list|create|show|tasks|cancel
//	account list
//
// Вывод: таблица через tabwriter по умолчанию, JSON при --json.
package cli
