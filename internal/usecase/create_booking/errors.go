package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrClientNotFound возвращается, когда клиент не найден
	ErrClientNotFound = errors.New("create_booking: client not found")

	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("create_booking: slot not found")

	// ErrSlotNotBookable возвращается, когда слот не в статусе available
	// Оборачивается текущим статусом слота
	ErrSlotNotBookable = errors.New("create_booking: slot is not bookable")

	// ErrPastSlot возвращается при попытке забронировать слот на прошедшую дату
	ErrPastSlot = errors.New("create_booking: past slot")

	// ErrAlreadyBooked возвращается, когда у клиента уже есть активная бронь на слот
	ErrAlreadyBooked = errors.New("create_booking: duplicate booking")

	// ErrSlotFull возвращается, когда все места слота заняты
	ErrSlotFull = errors.New("create_booking: slot is full")

	// ErrBookingConflict возвращается, когда гонка проиграна на уровне БД
	// (нарушение уникальности при вставке, несмотря на блокировку)
	ErrBookingConflict = errors.New("create_booking: booking conflict")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
