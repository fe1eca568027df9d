package teacher

import "errors"

var (
	// ErrTeacherNotFound возвращается, когда карточка преподавателя не найдена
	ErrTeacherNotFound = errors.New("teacher.repository: teacher not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("teacher.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("teacher.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("teacher.repository: failed to scan row")
)
