// Package policy резолвит пару (тип услуги, тип ссылки) в политику
// выполнения: действие, интервал и количество единиц за вызов.
//
// Resolve — чистый lookup по статической таблице без fallback-логики:
// отсутствие политики означает «комбинация не поддерживается» и должно
// распространяться как явный unsupported-результат.
package policy
