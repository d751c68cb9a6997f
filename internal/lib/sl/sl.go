// Package sl содержит вспомогательные функции для логгера slog.
package sl

import "log/slog"

// Err возвращает атрибут "error" с текстом ошибки.
//
//	log.Error("failed to archive period", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.String("error", err.Error())
}

// Op возвращает атрибут "op" с именем операции.
func Op(op string) slog.Attr {
	return slog.String("op", op)
}
