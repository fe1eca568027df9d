package users

import "errors"

var (
	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("user not found")

	// ErrTelegramIDTaken возвращается при дубле telegram_id
	ErrTelegramIDTaken = errors.New("telegram id is already taken")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrUserHasBookings возвращается при удалении клиента с активными бронями
	ErrUserHasBookings = errors.New("user has active bookings")

	// ErrTeacherCardExists возвращается при удалении пользователя с карточкой
	// преподавателя без флага force
	ErrTeacherCardExists = errors.New("user has a teacher card, force flag is required")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
