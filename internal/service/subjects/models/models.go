package models

import (
	"github.com/v1malina/TCS-ScheduleService/internal/domain"
)

// Request модели

// CreateSubjectRequest запрос на создание предмета
type CreateSubjectRequest struct {
	Name string  `json:"name"`
	Code *string `json:"code,omitempty"`
}

// UpdateSubjectRequest запрос на обновление предмета
type UpdateSubjectRequest struct {
	Name *string `json:"name,omitempty"`
	Code *string `json:"code,omitempty"`
}

// ListSubjectsRequest запрос на листинг предметов
type ListSubjectsRequest struct {
	Query  *string `json:"q,omitempty"`
	Limit  int     `json:"limit,omitempty"`
	Offset int     `json:"offset,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListSubjectsRequest) ToDomainFilter() domain.SubjectsFilter {
	filter := domain.SubjectsFilter{
		Query:  r.Query,
		Limit:  r.Limit,
		Offset: r.Offset,
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

	return filter
}

// Response модели

// SubjectResponse предмет в ответе API
type SubjectResponse struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Code *string `json:"code,omitempty"`
}

// SubjectListResponse список предметов с общим числом под фильтром
type SubjectListResponse struct {
	Subjects []SubjectResponse `json:"subjects"`
	Total    int64             `json:"total"`
}

// FromDomainSubject конвертирует domain модель в response
func FromDomainSubject(s *domain.Subject) SubjectResponse {
	return SubjectResponse{
		ID:   s.ID,
		Name: s.Name,
		Code: s.Code,
	}
}

// FromDomainSubjectList конвертирует список domain моделей в response
func FromDomainSubjectList(subjects []*domain.Subject, total int64) *SubjectListResponse {
	resp := &SubjectListResponse{
		Subjects: make([]SubjectResponse, 0, len(subjects)),
		Total:    total,
	}
	for _, s := range subjects {
		resp.Subjects = append(resp.Subjects, FromDomainSubject(s))
	}
	return resp
}
