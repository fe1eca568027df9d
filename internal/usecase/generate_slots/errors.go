package generate_slots

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("generate_slots: invalid input data")

	// ErrNoSlotsFit возвращается, когда в интервал не помещается ни один слот
	ErrNoSlotsFit = errors.New("generate_slots: no slots fit")

	// ErrTeacherNotFound возвращается, когда преподаватель не найден
	ErrTeacherNotFound = errors.New("generate_slots: teacher not found")

	// ErrSubjectNotFound возвращается, когда предмет не найден
	ErrSubjectNotFound = errors.New("generate_slots: subject not found")

	// ErrSlotConflict возвращается при пересечении кандидата с существующим слотом
	// (только при skip_conflicts=false)
	ErrSlotConflict = errors.New("generate_slots: slot conflict")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("generate_slots: internal error")
)
