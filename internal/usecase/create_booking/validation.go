package create_booking

import (
	"fmt"
	"time"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.SlotID <= 0 {
		return fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
	}

	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	return nil
}

// isDateInPast проверяет, что дата слота строго раньше текущей даты
// Сравниваются только даты, время внутри дня не учитывается
func isDateInPast(slotDate time.Time, now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	date := time.Date(slotDate.Year(), slotDate.Month(), slotDate.Day(), 0, 0, 0, 0, time.UTC)
	return date.Before(today)
}
