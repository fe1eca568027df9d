package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/v1malina/TCS-ScheduleService/internal/domain"
	userRepo "github.com/v1malina/TCS-ScheduleService/internal/infra/storage/user"
	"github.com/v1malina/TCS-ScheduleService/internal/service/users/models"
)

// Service сервис для работы с пользователями
type Service struct {
	userRepo    UserRepository
	teacherRepo TeacherRepository
	slotRepo    SlotRepository
	bookingRepo BookingRepository
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса пользователей
func NewService(
	userRepo UserRepository,
	teacherRepo TeacherRepository,
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		userRepo:    userRepo,
		teacherRepo: teacherRepo,
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// Create создает пользователя
// Для роли teacher сразу заводится пустая карточка преподавателя
func (s *Service) Create(ctx context.Context, req *models.CreateUserRequest) (*models.UserResponse, error) {
	s.logger.Info("CreateUser: creating user tg=%d, role=%s", req.TelegramID, req.Role)

	if req.TelegramID <= 0 {
		return nil, fmt.Errorf("%w: telegramId must be positive", ErrInvalidInput)
	}

	role, ok := domain.ParseUserRole(req.Role)
	if !ok {
		s.logger.Warn("CreateUser: invalid role %q", req.Role)
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, req.Role)
	}

	user := &domain.User{
		TelegramID: req.TelegramID,
		Role:       role,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Username:   req.Username,
		Phone:      req.Phone,
		Email:      req.Email,
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		created, err := s.userRepo.Create(txCtx, user)
		if err != nil {
			if errors.Is(err, userRepo.ErrTelegramIDTaken) {
				s.logger.Warn("CreateUser: telegram id=%d already taken", req.TelegramID)
				return ErrTelegramIDTaken
			}
			s.logger.Error("CreateUser: repository error: %v", err)
			return fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
		}
		user = created

		if role == domain.RoleTeacher {
			if err := s.teacherRepo.Create(txCtx, &domain.Teacher{ID: user.ID}); err != nil {
				s.logger.Error("CreateUser: failed to create teacher card for user id=%d: %v", user.ID, err)
				return fmt.Errorf("%w: Create - failed to create teacher card: %v", ErrInternal, err)
			}
			s.logger.Info("CreateUser: teacher card created for user id=%d", user.ID)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("CreateUser: successfully created user id=%d", user.ID)

	resp := models.FromDomainUser(user)
	return &resp, nil
}

// GetByID получает пользователя по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.UserResponse, error) {
	s.logger.Info("GetUser: fetching user id=%d", id)

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("GetUser: user id=%d not found", id)
			return nil, ErrUserNotFound
		}
		s.logger.Error("GetUser: repository error for user id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	resp := models.FromDomainUser(user)
	return &resp, nil
}

// List получает страницу пользователей и общее число под фильтром
func (s *Service) List(ctx context.Context, req *models.ListUsersRequest) (*models.UserListResponse, error) {
	s.logger.Info("ListUsers: fetching users")

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListUsers: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListUsers: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListUsers: successfully fetched %d of %d users", len(users), total)
	return models.FromDomainUserList(users, total), nil
}

// Patch частично обновляет пользователя
// При смене роли на teacher карточка преподавателя досоздается
func (s *Service) Patch(ctx context.Context, id int64, req *models.PatchUserRequest) (*models.UserResponse, error) {
	s.logger.Info("PatchUser: updating user id=%d", id)

	var newRole *domain.UserRole
	if req.Role != nil {
		role, ok := domain.ParseUserRole(*req.Role)
		if !ok {
			s.logger.Warn("PatchUser: invalid role %q for user id=%d", *req.Role, id)
			return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, *req.Role)
		}
		newRole = &role
	}

	var updated *domain.User

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		user, err := s.userRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, userRepo.ErrUserNotFound) {
				s.logger.Warn("PatchUser: user id=%d not found", id)
				return ErrUserNotFound
			}
			s.logger.Error("PatchUser: failed to get user id=%d: %v", id, err)
			return fmt.Errorf("%w: Patch - failed to get user: %v", ErrInternal, err)
		}

		if newRole != nil {
			user.Role = *newRole
		}
		if req.FirstName != nil {
			user.FirstName = req.FirstName
		}
		if req.LastName != nil {
			user.LastName = req.LastName
		}
		if req.Username != nil {
			user.Username = req.Username
		}
		if req.Phone != nil {
			user.Phone = req.Phone
		}
		if req.Email != nil {
			user.Email = req.Email
		}
		if req.IsVerified != nil {
			user.IsVerified = *req.IsVerified
		}

		if err := s.userRepo.Update(txCtx, user); err != nil {
			s.logger.Error("PatchUser: failed to update user id=%d: %v", id, err)
			return fmt.Errorf("%w: Patch - failed to update user: %v", ErrInternal, err)
		}

		// Досоздаем карточку преподавателя при повышении роли
		if user.Role == domain.RoleTeacher {
			exists, err := s.teacherRepo.Exists(txCtx, user.ID)
			if err != nil {
				s.logger.Error("PatchUser: failed to check teacher card for user id=%d: %v", id, err)
				return fmt.Errorf("%w: Patch - failed to check teacher card: %v", ErrInternal, err)
			}
			if !exists {
				if err := s.teacherRepo.Create(txCtx, &domain.Teacher{ID: user.ID}); err != nil {
					s.logger.Error("PatchUser: failed to create teacher card for user id=%d: %v", id, err)
					return fmt.Errorf("%w: Patch - failed to create teacher card: %v", ErrInternal, err)
				}
				s.logger.Info("PatchUser: teacher card created for user id=%d", user.ID)
			}
		}

		updated = user
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("PatchUser: successfully updated user id=%d", id)

	resp := models.FromDomainUser(updated)
	return &resp, nil
}

// Delete удаляет пользователя
// Клиент с активными бронями не удаляется; пользователь с карточкой
// преподавателя удаляется только с force, каскадом по его расписанию
func (s *Service) Delete(ctx context.Context, id int64, force bool) error {
	s.logger.Info("DeleteUser: deleting user id=%d, force=%t", id, force)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		user, err := s.userRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, userRepo.ErrUserNotFound) {
				s.logger.Warn("DeleteUser: user id=%d not found", id)
				return ErrUserNotFound
			}
			s.logger.Error("DeleteUser: failed to get user id=%d: %v", id, err)
			return fmt.Errorf("%w: Delete - failed to get user: %v", ErrInternal, err)
		}

		activeCount, err := s.bookingRepo.CountActiveByClient(txCtx, id)
		if err != nil {
			s.logger.Error("DeleteUser: failed to count bookings for user id=%d: %v", id, err)
			return fmt.Errorf("%w: Delete - failed to count bookings: %v", ErrInternal, err)
		}
		if activeCount > 0 {
			s.logger.Warn("DeleteUser: user id=%d has %d active bookings", id, activeCount)
			return fmt.Errorf("%w: %d active bookings exist", ErrUserHasBookings, activeCount)
		}

		hasCard, err := s.teacherRepo.Exists(txCtx, id)
		if err != nil {
			s.logger.Error("DeleteUser: failed to check teacher card for user id=%d: %v", id, err)
			return fmt.Errorf("%w: Delete - failed to check teacher card: %v", ErrInternal, err)
		}

		if hasCard {
			if !force {
				s.logger.Warn("DeleteUser: user id=%d has a teacher card, force flag required", id)
				return ErrTeacherCardExists
			}

			// Каскад расписания преподавателя: брони на его слоты, слоты, карточка
			if err := s.bookingRepo.DeleteByTeacherSlots(txCtx, id); err != nil {
				s.logger.Error("DeleteUser: failed to delete teacher bookings for user id=%d: %v", id, err)
				return fmt.Errorf("%w: Delete - failed to delete teacher bookings: %v", ErrInternal, err)
			}
			if err := s.slotRepo.DeleteByTeacherID(txCtx, id); err != nil {
				s.logger.Error("DeleteUser: failed to delete slots for user id=%d: %v", id, err)
				return fmt.Errorf("%w: Delete - failed to delete slots: %v", ErrInternal, err)
			}
			if err := s.teacherRepo.Delete(txCtx, id); err != nil {
				s.logger.Error("DeleteUser: failed to delete teacher card for user id=%d: %v", id, err)
				return fmt.Errorf("%w: Delete - failed to delete teacher card: %v", ErrInternal, err)
			}
		}

		// Отменённые брони клиента зачищаются вместе с ним
		if err := s.bookingRepo.DeleteByClientID(txCtx, id); err != nil {
			s.logger.Error("DeleteUser: failed to delete client bookings for user id=%d: %v", id, err)
			return fmt.Errorf("%w: Delete - failed to delete client bookings: %v", ErrInternal, err)
		}

		if err := s.userRepo.Delete(txCtx, user.ID); err != nil {
			s.logger.Error("DeleteUser: failed to delete user id=%d: %v", id, err)
			return fmt.Errorf("%w: Delete - failed to delete user: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return err
	}

	s.logger.Info("DeleteUser: successfully deleted user id=%d", id)
	return nil
}
