// Package isodate работает с календарными датами в формате ISO-8601 (2006-01-02),
// которые сервис хранит строками. Для корректно сформированных дат одной эпохи
// лексикографическое сравнение строк совпадает с хронологическим.
package isodate

import (
	"fmt"
	"strings"
	"time"

	"github.com/magabrotheeeer/commission-ledger/internal/models"
)

// Layout: формат хранения дат.
const Layout = "2006-01-02"

// DisplayLayout: формат дат в печатных отчётах.
const DisplayLayout = "02/01/2006"

// Parse проверяет, что строка является календарной датой, и возвращает её
// в каноническом виде.
func Parse(s string) (string, error) {
	t, err := time.Parse(Layout, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", models.ErrValidation, s)
	}
	return t.Format(Layout), nil
}

// ParsePeriod проверяет обе границы периода и условие start <= end.
func ParsePeriod(start, end string) (string, string, error) {
	s, err := Parse(start)
	if err != nil {
		return "", "", err
	}
	e, err := Parse(end)
	if err != nil {
		return "", "", err
	}
	if s > e {
		return "", "", fmt.Errorf("%w: period start %s is after end %s", models.ErrValidation, s, e)
	}
	return s, e, nil
}

// InPeriod сообщает, попадает ли дата в закрытый интервал [start, end].
func InPeriod(date, start, end string) bool {
	return start <= date && date <= end
}

// Display переводит дату в формат DisplayLayout. Некорректная дата возвращается как есть.
func Display(date string) string {
	t, err := time.Parse(Layout, date)
	if err != nil {
		return date
	}
	return t.Format(DisplayLayout)
}
