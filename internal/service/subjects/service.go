package subjects

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/v1malina/TCS-ScheduleService/internal/domain"
	subjectRepo "github.com/v1malina/TCS-ScheduleService/internal/infra/storage/subject"
	"github.com/v1malina/TCS-ScheduleService/internal/service/subjects/models"
)

// Service сервис для работы с предметами
type Service struct {
	subjectRepo SubjectRepository
	teacherRepo TeacherRepository
	slotRepo    SlotRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса предметов
func NewService(
	subjectRepo SubjectRepository,
	teacherRepo TeacherRepository,
	slotRepo SlotRepository,
	logger Logger,
) *Service {
	return &Service{
		subjectRepo: subjectRepo,
		teacherRepo: teacherRepo,
		slotRepo:    slotRepo,
		logger:      logger,
	}
}

// Create создает предмет
func (s *Service) Create(ctx context.Context, req *models.CreateSubjectRequest) (*models.SubjectResponse, error) {
	s.logger.Info("CreateSubject: creating subject %q", req.Name)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	subject := &domain.Subject{Name: name, Code: req.Code}

	created, err := s.subjectRepo.Create(ctx, subject)
	if err != nil {
		if errors.Is(err, subjectRepo.ErrSubjectExists) {
			s.logger.Warn("CreateSubject: subject %q already exists", name)
			return nil, ErrSubjectExists
		}
		s.logger.Error("CreateSubject: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateSubject: successfully created subject id=%d", created.ID)

	resp := models.FromDomainSubject(created)
	return &resp, nil
}

// GetByID получает предмет по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.SubjectResponse, error) {
	s.logger.Info("GetSubject: fetching subject id=%d", id)

	subject, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, subjectRepo.ErrSubjectNotFound) {
			s.logger.Warn("GetSubject: subject id=%d not found", id)
			return nil, ErrSubjectNotFound
		}
		s.logger.Error("GetSubject: repository error for subject id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	resp := models.FromDomainSubject(subject)
	return &resp, nil
}

// List получает страницу предметов и общее число под фильтром
func (s *Service) List(ctx context.Context, req *models.ListSubjectsRequest) (*models.SubjectListResponse, error) {
	s.logger.Info("ListSubjects: fetching subjects")

	subjects, total, err := s.subjectRepo.List(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("ListSubjects: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListSubjects: successfully fetched %d of %d subjects", len(subjects), total)
	return models.FromDomainSubjectList(subjects, total), nil
}

// Update обновляет предмет
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateSubjectRequest) (*models.SubjectResponse, error) {
	s.logger.Info("UpdateSubject: updating subject id=%d", id)

	subject, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, subjectRepo.ErrSubjectNotFound) {
			s.logger.Warn("UpdateSubject: subject id=%d not found", id)
			return nil, ErrSubjectNotFound
		}
		s.logger.Error("UpdateSubject: failed to get subject id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - failed to get subject: %v", ErrInternal, err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
		}
		subject.Name = name
	}
	if req.Code != nil {
		subject.Code = req.Code
	}

	if err := s.subjectRepo.Update(ctx, subject); err != nil {
		if errors.Is(err, subjectRepo.ErrSubjectExists) {
			s.logger.Warn("UpdateSubject: name/code conflict for subject id=%d", id)
			return nil, ErrSubjectExists
		}
		if errors.Is(err, subjectRepo.ErrSubjectNotFound) {
			return nil, ErrSubjectNotFound
		}
		s.logger.Error("UpdateSubject: repository error for subject id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateSubject: successfully updated subject id=%d", id)

	resp := models.FromDomainSubject(subject)
	return &resp, nil
}

// Delete удаляет предмет
// Предмет, привязанный к преподавателям или слотам, удалить нельзя
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("DeleteSubject: deleting subject id=%d", id)

	byTeachers, err := s.teacherRepo.CountSubjectUsage(ctx, id)
	if err != nil {
		s.logger.Error("DeleteSubject: failed to count teacher usage for subject id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - failed to count teacher usage: %v", ErrInternal, err)
	}

	inSlots, err := s.slotRepo.CountBySubjectID(ctx, id)
	if err != nil {
		s.logger.Error("DeleteSubject: failed to count slot usage for subject id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - failed to count slot usage: %v", ErrInternal, err)
	}

	usage := domain.SubjectUsage{ByTeachers: byTeachers, InSlots: inSlots}
	if usage.IsUsed() {
		s.logger.Warn("DeleteSubject: subject id=%d is in use by %d teachers and %d slots",
			id, usage.ByTeachers, usage.InSlots)
		return fmt.Errorf("%w: referenced by %d teachers and %d slots",
			ErrSubjectInUse, usage.ByTeachers, usage.InSlots)
	}

	if err := s.subjectRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, subjectRepo.ErrSubjectNotFound) {
			s.logger.Warn("DeleteSubject: subject id=%d not found", id)
			return ErrSubjectNotFound
		}
		s.logger.Error("DeleteSubject: repository error for subject id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteSubject: successfully deleted subject id=%d", id)
	return nil
}
