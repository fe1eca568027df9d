package models

import (
	"time"

	"github.com/v1malina/TCS-ScheduleService/internal/domain"
	"github.com/v1malina/TCS-ScheduleService/pkg/types"
)

// Request модели

// ListSlotsRequest запрос на листинг слотов
type ListSlotsRequest struct {
	TeacherID  *int64     `json:"teacherId,omitempty"`
	SubjectID  *int64     `json:"subjectId,omitempty"`
	Date       *time.Time `json:"date,omitempty"`
	DateFrom   *time.Time `json:"dateFrom,omitempty"`
	DateTo     *time.Time `json:"dateTo,omitempty"`
	Mode       *string    `json:"mode,omitempty"`
	LessonType *string    `json:"lessonType,omitempty"`
	// FreeOnly оставляет только слоты со свободными местами
	FreeOnly bool `json:"freeOnly,omitempty"`
	// AvailableOnly ограничивает выборку статусом available
	// Публичная витрина включает его всегда
	AvailableOnly bool `json:"availableOnly,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListSlotsRequest) ToDomainFilter() (domain.SlotsFilter, error) {
	filter := domain.SlotsFilter{
		TeacherID:     r.TeacherID,
		SubjectID:     r.SubjectID,
		Date:          r.Date,
		DateFrom:      r.DateFrom,
		DateTo:        r.DateTo,
		Mode:          r.Mode,
		FreeOnly:      r.FreeOnly,
		AvailableOnly: r.AvailableOnly || r.FreeOnly,
	}

	if r.LessonType != nil {
		lt, ok := domain.ParseLessonType(*r.LessonType)
		if !ok {
			return filter, ErrInvalidLessonType
		}
		filter.LessonType = &lt
	}

	return filter, nil
}

// PatchSlotRequest запрос на частичное обновление слота
// Обновляются только переданные поля
type PatchSlotRequest struct {
	Status     *string `json:"status,omitempty"`
	Capacity   *int    `json:"capacity,omitempty"`
	LessonType *string `json:"lessonType,omitempty"`
}

// IsEmpty возвращает true, если ни одно поле не передано
func (r *PatchSlotRequest) IsEmpty() bool {
	return r.Status == nil && r.Capacity == nil && r.LessonType == nil
}

// Response модели

// SlotResponse слот в ответе API
type SlotResponse struct {
	ID         int64            `json:"id"`
	TeacherID  int64            `json:"teacherId"`
	SubjectID  int64            `json:"subjectId"`
	Date       string           `json:"date"`
	StartTime  types.TimeString `json:"startTime"`
	EndTime    types.TimeString `json:"endTime"`
	Mode       *string          `json:"mode,omitempty"`
	LessonType string           `json:"lessonType"`
	Capacity   int              `json:"capacity"`
	Status     string           `json:"status"`
	FreeSpots  int              `json:"freeSpots"`
}

// SlotListResponse список слотов
type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
}

// FromDomainSlotWithSpots конвертирует domain модель в response
func FromDomainSlotWithSpots(slot *domain.SlotWithSpots) SlotResponse {
	return SlotResponse{
		ID:         slot.ID,
		TeacherID:  slot.TeacherID,
		SubjectID:  slot.SubjectID,
		Date:       slot.Date.Format(domain.DateFormat),
		StartTime:  slot.StartTime,
		EndTime:    slot.EndTime,
		Mode:       slot.Mode,
		LessonType: string(slot.LessonType),
		Capacity:   slot.Capacity,
		Status:     string(slot.Status),
		FreeSpots:  slot.FreeSpots,
	}
}

// FromDomainSlotList конвертирует список domain моделей в response
func FromDomainSlotList(slots []*domain.SlotWithSpots) *SlotListResponse {
	resp := &SlotListResponse{Slots: make([]SlotResponse, 0, len(slots))}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, FromDomainSlotWithSpots(s))
	}
	return resp
}
