package models

import "errors"

var (
	// ErrInvalidLessonType возвращается при некорректном типе занятия
	ErrInvalidLessonType = errors.New("invalid lesson type")

	// ErrInvalidStatus возвращается при некорректном статусе слота
	ErrInvalidStatus = errors.New("invalid slot status")
)
