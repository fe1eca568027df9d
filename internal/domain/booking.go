package domain

import (
	"time"

	"github.com/v1malina/TCS-ScheduleService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCanceled  BookingStatus = "canceled"
)

// ParseBookingStatus converts a string into a BookingStatus
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingPending, BookingConfirmed, BookingCanceled:
		return BookingStatus(s), true
	default:
		return "", false
	}
}

// Booking represents one client's reservation against a slot
type Booking struct {
	ID       int64
	SlotID   int64
	ClientID int64
	Status   BookingStatus
}

// IsActive returns true if the booking counts against slot capacity
// Отменённые брони не занимают места и не участвуют в проверке дублей
func (b *Booking) IsActive() bool {
	return b.Status != BookingCanceled
}

// BookingWithSlot бронирование с денормализованными полями слота
// Используется в админских списках и CSV экспорте
type BookingWithSlot struct {
	Booking
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	TeacherID int64
	SubjectID int64
}

// BookingsFilter фильтр для листинга бронирований
type BookingsFilter struct {
	TeacherID *int64
	ClientID  *int64
	Status    *BookingStatus
	SubjectID *int64
	DateFrom  *time.Time
	DateTo    *time.Time
	Limit     int
	Offset    int
}

// TeacherLoad агрегированная нагрузка преподавателя за период
// Считаются только подтверждённые бронирования
type TeacherLoad struct {
	TeacherID    int64
	LessonsCount int
	MinutesTotal int
	HoursTotal   float64
}
