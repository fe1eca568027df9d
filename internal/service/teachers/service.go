package teachers

import (
	"context"
	"errors"
	"fmt"

	"github.com/v1malina/TCS-ScheduleService/internal/domain"
	subjectRepo "github.com/v1malina/TCS-ScheduleService/internal/infra/storage/subject"
	teacherRepo "github.com/v1malina/TCS-ScheduleService/internal/infra/storage/teacher"
	userRepo "github.com/v1malina/TCS-ScheduleService/internal/infra/storage/user"
	"github.com/v1malina/TCS-ScheduleService/internal/service/teachers/models"
)

// Service сервис для работы с карточками преподавателей
type Service struct {
	teacherRepo TeacherRepository
	userRepo    UserRepository
	subjectRepo SubjectRepository
	slotRepo    SlotRepository
	bookingRepo BookingRepository
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса преподавателей
func NewService(
	teacherRepo TeacherRepository,
	userRepo UserRepository,
	subjectRepo SubjectRepository,
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		teacherRepo: teacherRepo,
		userRepo:    userRepo,
		subjectRepo: subjectRepo,
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// Create создает карточку преподавателя для существующего пользователя
// Роль пользователя при необходимости повышается до teacher
func (s *Service) Create(ctx context.Context, req *models.CreateTeacherRequest) (*models.TeacherResponse, error) {
	s.logger.Info("CreateTeacher: creating card for user id=%d", req.UserID)

	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: userId must be positive", ErrInvalidInput)
	}

	var card *domain.TeacherCard

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		user, err := s.userRepo.GetByID(txCtx, req.UserID)
		if err != nil {
			if errors.Is(err, userRepo.ErrUserNotFound) {
				s.logger.Warn("CreateTeacher: user id=%d not found", req.UserID)
				return ErrUserNotFound
			}
			s.logger.Error("CreateTeacher: failed to get user id=%d: %v", req.UserID, err)
			return fmt.Errorf("%w: Create - failed to get user: %v", ErrInternal, err)
		}

		exists, err := s.teacherRepo.Exists(txCtx, req.UserID)
		if err != nil {
			s.logger.Error("CreateTeacher: failed to check card for user id=%d: %v", req.UserID, err)
			return fmt.Errorf("%w: Create - failed to check card: %v", ErrInternal, err)
		}
		if exists {
			s.logger.Warn("CreateTeacher: card for user id=%d already exists", req.UserID)
			return ErrTeacherExists
		}

		teacher := &domain.Teacher{
			ID:          req.UserID,
			Bio:         req.Bio,
			DefaultMode: req.DefaultMode,
		}

		if err := s.teacherRepo.Create(txCtx, teacher); err != nil {
			s.logger.Error("CreateTeacher: failed to create card for user id=%d: %v", req.UserID, err)
			return fmt.Errorf("%w: Create - failed to create card: %v", ErrInternal, err)
		}

		// Повышаем роль пользователя
		if user.Role != domain.RoleTeacher && user.Role != domain.RoleAdmin {
			user.Role = domain.RoleTeacher
			if err := s.userRepo.Update(txCtx, user); err != nil {
				s.logger.Error("CreateTeacher: failed to promote user id=%d: %v", req.UserID, err)
				return fmt.Errorf("%w: Create - failed to promote user: %v", ErrInternal, err)
			}
			s.logger.Info("CreateTeacher: user id=%d promoted to teacher", req.UserID)
		}

		card = &domain.TeacherCard{Teacher: *teacher, User: *user, SubjectIDs: []int64{}}
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("CreateTeacher: successfully created card for user id=%d", req.UserID)

	resp := models.FromDomainTeacherCard(card)
	return &resp, nil
}

// GetByID получает карточку преподавателя с предметами
func (s *Service) GetByID(ctx context.Context, id int64) (*models.TeacherResponse, error) {
	s.logger.Info("GetTeacher: fetching card id=%d", id)

	teacher, err := s.teacherRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, teacherRepo.ErrTeacherNotFound) {
			s.logger.Warn("GetTeacher: card id=%d not found", id)
			return nil, ErrTeacherNotFound
		}
		s.logger.Error("GetTeacher: repository error for card id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("GetTeacher: failed to get user id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - failed to get user: %v", ErrInternal, err)
	}

	subjectIDs, err := s.teacherRepo.GetSubjectIDs(ctx, id)
	if err != nil {
		s.logger.Error("GetTeacher: failed to get subjects for card id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - failed to get subjects: %v", ErrInternal, err)
	}

	resp := models.FromDomainTeacherCard(&domain.TeacherCard{
		Teacher:    *teacher,
		User:       *user,
		SubjectIDs: subjectIDs,
	})
	return &resp, nil
}

// List получает страницу карточек и общее число под фильтром
func (s *Service) List(ctx context.Context, req *models.ListTeachersRequest) (*models.TeacherListResponse, error) {
	s.logger.Info("ListTeachers: fetching cards")

	cards, total, err := s.teacherRepo.List(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("ListTeachers: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListTeachers: successfully fetched %d of %d cards", len(cards), total)
	return models.FromDomainTeacherCardList(cards, total), nil
}

// SetSubjects заменяет набор предметов преподавателя
// Каждый предмет из набора должен существовать
func (s *Service) SetSubjects(ctx context.Context, teacherID int64, req *models.SetSubjectsRequest) error {
	s.logger.Info("SetTeacherSubjects: setting %d subjects for card id=%d", len(req.SubjectIDs), teacherID)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		exists, err := s.teacherRepo.Exists(txCtx, teacherID)
		if err != nil {
			s.logger.Error("SetTeacherSubjects: failed to check card id=%d: %v", teacherID, err)
			return fmt.Errorf("%w: SetSubjects - failed to check card: %v", ErrInternal, err)
		}
		if !exists {
			s.logger.Warn("SetTeacherSubjects: card id=%d not found", teacherID)
			return ErrTeacherNotFound
		}

		for _, subjectID := range req.SubjectIDs {
			if _, err := s.subjectRepo.GetByID(txCtx, subjectID); err != nil {
				if errors.Is(err, subjectRepo.ErrSubjectNotFound) {
					s.logger.Warn("SetTeacherSubjects: subject id=%d not found", subjectID)
					return fmt.Errorf("%w: id=%d", ErrSubjectNotFound, subjectID)
				}
				s.logger.Error("SetTeacherSubjects: failed to get subject id=%d: %v", subjectID, err)
				return fmt.Errorf("%w: SetSubjects - failed to get subject: %v", ErrInternal, err)
			}
		}

		if err := s.teacherRepo.ReplaceSubjects(txCtx, teacherID, req.SubjectIDs); err != nil {
			s.logger.Error("SetTeacherSubjects: failed to replace subjects for card id=%d: %v", teacherID, err)
			return fmt.Errorf("%w: SetSubjects - failed to replace subjects: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return err
	}

	s.logger.Info("SetTeacherSubjects: successfully set subjects for card id=%d", teacherID)
	return nil
}

// Delete удаляет карточку преподавателя каскадом по его расписанию:
// брони на его слоты, слоты, привязки предметов, сама карточка
// Роль пользователя не меняется
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("DeleteTeacher: deleting card id=%d", id)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		exists, err := s.teacherRepo.Exists(txCtx, id)
		if err != nil {
			s.logger.Error("DeleteTeacher: failed to check card id=%d: %v", id, err)
			return fmt.Errorf("%w: Delete - failed to check card: %v", ErrInternal, err)
		}
		if !exists {
			s.logger.Warn("DeleteTeacher: card id=%d not found", id)
			return ErrTeacherNotFound
		}

		if err := s.bookingRepo.DeleteByTeacherSlots(txCtx, id); err != nil {
			s.logger.Error("DeleteTeacher: failed to delete bookings for card id=%d: %v", id, err)
			return fmt.Errorf("%w: Delete - failed to delete bookings: %v", ErrInternal, err)
		}

		if err := s.slotRepo.DeleteByTeacherID(txCtx, id); err != nil {
			s.logger.Error("DeleteTeacher: failed to delete slots for card id=%d: %v", id, err)
			return fmt.Errorf("%w: Delete - failed to delete slots: %v", ErrInternal, err)
		}

		if err := s.teacherRepo.Delete(txCtx, id); err != nil {
			if errors.Is(err, teacherRepo.ErrTeacherNotFound) {
				return ErrTeacherNotFound
			}
			s.logger.Error("DeleteTeacher: failed to delete card id=%d: %v", id, err)
			return fmt.Errorf("%w: Delete - failed to delete card: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return err
	}

	s.logger.Info("DeleteTeacher: successfully deleted card id=%d", id)
	return nil
}
