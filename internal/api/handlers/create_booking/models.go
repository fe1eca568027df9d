package create_booking

import (
	"github.com/v1malina/TCS-ScheduleService/internal/domain"
	createBooking "github.com/v1malina/TCS-ScheduleService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	SlotID   int64 `json:"slotId"`
	ClientID int64 `json:"clientId"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID        int64  `json:"id"`
	SlotID    int64  `json:"slotId"`
	ClientID  int64  `json:"clientId"`
	Status    string `json:"status"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	TeacherID int64  `json:"teacherId"`
	SubjectID int64  `json:"subjectId"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() *createBooking.Request {
	return &createBooking.Request{
		SlotID:   r.SlotID,
		ClientID: r.ClientID,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:        resp.ID,
		SlotID:    resp.SlotID,
		ClientID:  resp.ClientID,
		Status:    resp.Status,
		Date:      resp.Date.Format(domain.DateFormat),
		StartTime: resp.StartTime.String(),
		EndTime:   resp.EndTime.String(),
		TeacherID: resp.TeacherID,
		SubjectID: resp.SubjectID,
	}
}
