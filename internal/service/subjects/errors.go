package subjects

import "errors"

var (
	// ErrSubjectNotFound возвращается, когда предмет не найден
	ErrSubjectNotFound = errors.New("subject not found")

	// ErrSubjectExists возвращается при конфликте уникальности name/code
	ErrSubjectExists = errors.New("subject already exists")

	// ErrSubjectInUse возвращается при удалении предмета, привязанного
	// к преподавателям или слотам
	ErrSubjectInUse = errors.New("subject is in use")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
