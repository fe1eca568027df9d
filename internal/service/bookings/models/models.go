package models

import (
	"errors"
	"time"

	"github.com/v1malina/TCS-ScheduleService/internal/domain"
	"github.com/v1malina/TCS-ScheduleService/pkg/types"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// ListBookingsRequest запрос на листинг бронирований
type ListBookingsRequest struct {
	TeacherID *int64     `json:"teacherId,omitempty"`
	ClientID  *int64     `json:"clientId,omitempty"`
	Status    *string    `json:"status,omitempty"`
	SubjectID *int64     `json:"subjectId,omitempty"`
	DateFrom  *time.Time `json:"dateFrom,omitempty"`
	DateTo    *time.Time `json:"dateTo,omitempty"`
	Limit     int        `json:"limit,omitempty"`
	Offset    int        `json:"offset,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		TeacherID: r.TeacherID,
		ClientID:  r.ClientID,
		SubjectID: r.SubjectID,
		DateFrom:  r.DateFrom,
		DateTo:    r.DateTo,
		Limit:     r.Limit,
		Offset:    r.Offset,
	}

	if r.Status != nil {
		status, ok := domain.ParseBookingStatus(*r.Status)
		if !ok {
			return filter, ErrInvalidStatus
		}
		filter.Status = &status
	}

	if filter.Limit <= 0 {
		filter.Limit = domain.DefaultListLimit
	}
	if filter.Limit > domain.MaxListLimit {
		filter.Limit = domain.MaxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return filter, nil
}

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// TeacherLoadRequest запрос отчёта по нагрузке преподавателя
type TeacherLoadRequest struct {
	TeacherID int64     `json:"teacherId"`
	DateFrom  time.Time `json:"dateFrom"`
	DateTo    time.Time `json:"dateTo"`
}

// Response модели

// BookingResponse бронирование с данными слота в ответе API
type BookingResponse struct {
	ID        int64            `json:"id"`
	SlotID    int64            `json:"slotId"`
	ClientID  int64            `json:"clientId"`
	Status    string           `json:"status"`
	Date      string           `json:"date"`
	StartTime types.TimeString `json:"startTime"`
	EndTime   types.TimeString `json:"endTime"`
	TeacherID int64            `json:"teacherId"`
	SubjectID int64            `json:"subjectId"`
}

// BookingListResponse список бронирований с общим числом под фильтром
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int64             `json:"total"`
}

// TeacherLoadResponse отчёт по нагрузке преподавателя
type TeacherLoadResponse struct {
	TeacherID    int64   `json:"teacherId"`
	DateFrom     string  `json:"dateFrom"`
	DateTo       string  `json:"dateTo"`
	LessonsCount int     `json:"lessonsCount"`
	MinutesTotal int     `json:"minutesTotal"`
	HoursTotal   float64 `json:"hoursTotal"`
}

// FromDomainBookingWithSlot конвертирует domain модель в response
func FromDomainBookingWithSlot(b *domain.BookingWithSlot) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		SlotID:    b.SlotID,
		ClientID:  b.ClientID,
		Status:    string(b.Status),
		Date:      b.Date.Format(domain.DateFormat),
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		TeacherID: b.TeacherID,
		SubjectID: b.SubjectID,
	}
}

// FromDomainBookingList конвертирует список domain моделей в response
func FromDomainBookingList(bookings []*domain.BookingWithSlot, total int64) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
		Total:    total,
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, FromDomainBookingWithSlot(b))
	}
	return resp
}
