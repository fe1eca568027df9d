package domain

import (
	"time"

	"github.com/v1malina/TCS-ScheduleService/pkg/types"
)

// SlotStatus represents the status of a time slot
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBooked    SlotStatus = "booked"
	SlotCanceled  SlotStatus = "canceled"
	SlotHidden    SlotStatus = "hidden"
	SlotTentative SlotStatus = "tentative"
)

// ParseSlotStatus converts a string into a SlotStatus
func ParseSlotStatus(s string) (SlotStatus, bool) {
	switch SlotStatus(s) {
	case SlotAvailable, SlotBooked, SlotCanceled, SlotHidden, SlotTentative:
		return SlotStatus(s), true
	default:
		return "", false
	}
}

// LessonType represents the kind of lesson held in a slot
type LessonType string

const (
	LessonIndividual LessonType = "individual"
	LessonGroup      LessonType = "group"
)

// ParseLessonType converts a string into a LessonType
func ParseLessonType(s string) (LessonType, bool) {
	switch LessonType(s) {
	case LessonIndividual, LessonGroup:
		return LessonType(s), true
	default:
		return "", false
	}
}

// TimeSlot represents one bookable interval of a teacher
type TimeSlot struct {
	ID         int64
	TeacherID  int64
	SubjectID  int64
	Date       time.Time // только дата, время обнулено
	StartTime  types.TimeString
	EndTime    types.TimeString
	Mode       *string // online | offline
	LessonType LessonType
	Capacity   int
	Status     SlotStatus
}

// IsBookable returns true if the slot can accept new bookings by status
// Остаточная вместимость проверяется отдельно
func (s *TimeSlot) IsBookable() bool {
	return s.Status == SlotAvailable
}

// ValidateCapacity проверяет согласованность типа занятия и вместимости:
// индивидуальное занятие ровно на 1 место, групповое минимум на 2
func ValidateCapacity(lessonType LessonType, capacity int) bool {
	switch lessonType {
	case LessonIndividual:
		return capacity == 1
	case LessonGroup:
		return capacity >= MinGroupCapacity
	default:
		return false
	}
}

// SlotWithSpots слот с вычисленным количеством свободных мест
type SlotWithSpots struct {
	TimeSlot
	FreeSpots int
}

// SlotsFilter фильтр для листинга слотов
type SlotsFilter struct {
	TeacherID  *int64
	SubjectID  *int64
	Date       *time.Time
	DateFrom   *time.Time
	DateTo     *time.Time
	Mode       *string
	LessonType *LessonType
	// FreeOnly оставляет только доступные слоты со свободными местами
	FreeOnly bool
	// AvailableOnly ограничивает выборку статусом available
	AvailableOnly bool
}
