package subject

import "errors"

var (
	// ErrSubjectNotFound возвращается, когда предмет не найден
	ErrSubjectNotFound = errors.New("subject.repository: subject not found")

	// ErrSubjectExists возвращается при конфликте уникальности name/code
	ErrSubjectExists = errors.New("subject.repository: subject already exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("subject.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("subject.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("subject.repository: failed to scan row")
)
