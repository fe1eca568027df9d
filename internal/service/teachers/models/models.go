package models

import (
	"github.com/v1malina/TCS-ScheduleService/internal/domain"
)

// Request модели

// CreateTeacherRequest запрос на создание карточки преподавателя
type CreateTeacherRequest struct {
	UserID      int64   `json:"userId"`
	Bio         *string `json:"bio,omitempty"`
	DefaultMode *string `json:"defaultMode,omitempty"`
}

// ListTeachersRequest запрос на листинг карточек
type ListTeachersRequest struct {
	Query     *string `json:"q,omitempty"`
	SubjectID *int64  `json:"subjectId,omitempty"`
	Limit     int     `json:"limit,omitempty"`
	Offset    int     `json:"offset,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListTeachersRequest) ToDomainFilter() domain.TeachersFilter {
	filter := domain.TeachersFilter{
		Query:     r.Query,
		SubjectID: r.SubjectID,
		Limit:     r.Limit,
		Offset:    r.Offset,
	}

	if filter.Limit <= 0 {
		filter.Limit = domain.DefaultUsersLimit
	}
	if filter.Limit > domain.MaxUsersLimit {
		filter.Limit = domain.MaxUsersLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return filter
}

// SetSubjectsRequest запрос на замену набора предметов преподавателя
type SetSubjectsRequest struct {
	SubjectIDs []int64 `json:"subjectIds"`
}

// Response модели

// TeacherResponse карточка преподавателя в ответе API
type TeacherResponse struct {
	ID          int64   `json:"id"`
	DisplayName string  `json:"displayName"`
	Bio         *string `json:"bio,omitempty"`
	DefaultMode *string `json:"defaultMode,omitempty"`
	SubjectIDs  []int64 `json:"subjectIds"`
}

// TeacherListResponse список карточек с общим числом под фильтром
type TeacherListResponse struct {
	Teachers []TeacherResponse `json:"teachers"`
	Total    int64             `json:"total"`
}

// FromDomainTeacherCard конвертирует domain модель в response
func FromDomainTeacherCard(card *domain.TeacherCard) TeacherResponse {
	subjectIDs := card.SubjectIDs
	if subjectIDs == nil {
		subjectIDs = []int64{}
	}
	return TeacherResponse{
		ID:          card.ID,
		DisplayName: card.User.DisplayName(),
		Bio:         card.Bio,
		DefaultMode: card.DefaultMode,
		SubjectIDs:  subjectIDs,
	}
}

// FromDomainTeacherCardList конвертирует список domain моделей в response
func FromDomainTeacherCardList(cards []*domain.TeacherCard, total int64) *TeacherListResponse {
	resp := &TeacherListResponse{
		Teachers: make([]TeacherResponse, 0, len(cards)),
		Total:    total,
	}
	for _, c := range cards {
		resp.Teachers = append(resp.Teachers, FromDomainTeacherCard(c))
	}
	return resp
}
