package teachers

import "errors"

var (
	// ErrUserNotFound возвращается, когда пользователь для карточки не найден
	ErrUserNotFound = errors.New("user not found")

	// ErrTeacherNotFound возвращается, когда карточка преподавателя не найдена
	ErrTeacherNotFound = errors.New("teacher not found")

	// ErrTeacherExists возвращается, когда карточка уже существует
	ErrTeacherExists = errors.New("teacher card already exists")

	// ErrSubjectNotFound возвращается, когда предмет из набора не найден
	ErrSubjectNotFound = errors.New("subject not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
