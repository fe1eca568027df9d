package generate_slots

import (
	"time"

	"github.com/v1malina/TCS-ScheduleService/internal/domain"
	generateSlots "github.com/v1malina/TCS-ScheduleService/internal/usecase/generate_slots"
	"github.com/v1malina/TCS-ScheduleService/pkg/types"
)

// GenerateSlotsRequest HTTP request model
type GenerateSlotsRequest struct {
	Date          string  `json:"date"`      // "2026-09-15"
	SubjectID     int64   `json:"subjectId"` //
	StartTime     string  `json:"startTime"` // "10:00"
	EndTime       string  `json:"endTime"`   // "18:00"
	StepMin       int     `json:"stepMin,omitempty"`
	Capacity      int     `json:"capacity"`
	Mode          *string `json:"mode,omitempty"`
	LessonType    string  `json:"lessonType"`
	Status        *string `json:"status,omitempty"`
	SkipConflicts bool    `json:"skipConflicts"`
}

// CreatedSlotResponse созданный слот в HTTP ответе
type CreatedSlotResponse struct {
	ID        int64  `json:"id"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// GenerateSlotsResponse HTTP response model
type GenerateSlotsResponse struct {
	Created        []CreatedSlotResponse `json:"created"`
	Skipped        [][2]string           `json:"skipped"`
	TotalRequested int                   `json:"totalRequested"`
	TotalCreated   int                   `json:"totalCreated"`
	TotalSkipped   int                   `json:"totalSkipped"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *GenerateSlotsRequest) ToUseCaseRequest(teacherID int64) (*generateSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	return &generateSlots.Request{
		TeacherID:     teacherID,
		SubjectID:     r.SubjectID,
		Date:          date,
		StartTime:     startTime,
		EndTime:       endTime,
		StepMinutes:   r.StepMin,
		Capacity:      r.Capacity,
		Mode:          r.Mode,
		LessonType:    r.LessonType,
		Status:        r.Status,
		SkipConflicts: r.SkipConflicts,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *generateSlots.Response) *GenerateSlotsResponse {
	out := &GenerateSlotsResponse{
		Created:        make([]CreatedSlotResponse, 0, len(resp.Created)),
		Skipped:        make([][2]string, 0, len(resp.Skipped)),
		TotalRequested: resp.TotalRequested,
		TotalCreated:   resp.TotalCreated,
		TotalSkipped:   resp.TotalSkipped,
	}
	for _, c := range resp.Created {
		out.Created = append(out.Created, CreatedSlotResponse{
			ID:        c.ID,
			StartTime: c.StartTime.String(),
			EndTime:   c.EndTime.String(),
		})
	}
	for _, s := range resp.Skipped {
		out.Skipped = append(out.Skipped, [2]string{s.StartTime.String(), s.EndTime.String()})
	}
	return out
}
