package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// TimeString время в формате "HH:MM" (минуты внутри одного дня)
// Используется для start_time/end_time слотов, где дата хранится отдельно
type TimeString string

var (
	// ErrInvalidFormat возвращается при некорректном формате времени
	ErrInvalidFormat = errors.New("types: invalid time string format, expected HH:MM")

	// ErrOutOfRange возвращается, когда результат арифметики выходит за пределы суток
	ErrOutOfRange = errors.New("types: time is out of day range")
)

// NewTimeString создает TimeString из time.Time (отбрасывает секунды)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format("15:04"))
}

// NewTimeStringFromString парсит строку "HH:MM" в TimeString
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// Validate проверяет формат HH:MM
func (t TimeString) Validate() error {
	if _, err := time.Parse("15:04", string(t)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, string(t))
	}
	return nil
}

// IsZero проверяет, что значение не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// Minutes возвращает количество минут с начала суток
func (t TimeString) Minutes() (int, error) {
	parsed, err := time.Parse("15:04", string(t))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, string(t))
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// AddMinutes возвращает новое время, сдвинутое на m минут вперед
// Возвращает ошибку, если результат выходит за пределы суток (> 24:00)
func (t TimeString) AddMinutes(m int) (TimeString, error) {
	minutes, err := t.Minutes()
	if err != nil {
		return "", err
	}

	total := minutes + m
	if total < 0 || total > 24*60 {
		return "", fmt.Errorf("%w: %s + %d min", ErrOutOfRange, t, m)
	}

	// 24:00 представляем как конец суток для сравнения границ
	if total == 24*60 {
		return TimeString("24:00"), nil
	}

	return TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60)), nil
}

// IsBefore строгое сравнение: t < other
// Некорректные значения считаются несравнимыми (false)
func (t TimeString) IsBefore(other TimeString) bool {
	a, err1 := t.minutesLoose()
	b, err2 := other.minutesLoose()
	if err1 != nil || err2 != nil {
		return false
	}
	return a < b
}

// IsAfter строгое сравнение: t > other
func (t TimeString) IsAfter(other TimeString) bool {
	a, err1 := t.minutesLoose()
	b, err2 := other.minutesLoose()
	if err1 != nil || err2 != nil {
		return false
	}
	return a > b
}

// Sub возвращает разницу t - other в минутах
func (t TimeString) Sub(other TimeString) (int, error) {
	a, err := t.minutesLoose()
	if err != nil {
		return 0, err
	}
	b, err := other.minutesLoose()
	if err != nil {
		return 0, err
	}
	return a - b, nil
}

// String возвращает строковое представление "HH:MM"
func (t TimeString) String() string {
	return string(t)
}

// minutesLoose как Minutes, но дополнительно понимает границу "24:00"
func (t TimeString) minutesLoose() (int, error) {
	if t == "24:00" {
		return 24 * 60, nil
	}
	return t.Minutes()
}

// Scan реализует sql.Scanner
// Postgres возвращает колонки типа TIME как строку "HH:MM:SS"
func (t *TimeString) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = ""
		return nil
	case string:
		*t = truncateSeconds(v)
		return nil
	case []byte:
		*t = truncateSeconds(string(v))
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("types: cannot scan %T into TimeString", value)
	}
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}

func truncateSeconds(s string) TimeString {
	if len(s) > 5 {
		return TimeString(s[:5])
	}
	return TimeString(s)
}
