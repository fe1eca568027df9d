package slots

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot not found")

	// ErrTeacherNotFound возвращается, когда преподаватель не найден
	ErrTeacherNotFound = errors.New("teacher not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrCapacityBelowBooked возвращается, когда новая вместимость
	// меньше числа активных броней слота
	ErrCapacityBelowBooked = errors.New("capacity is below active bookings count")

	// ErrSlotHasBookings возвращается при попытке удалить слот с активными бронями
	ErrSlotHasBookings = errors.New("slot has active bookings")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
