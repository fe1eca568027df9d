package slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/v1malina/TCS-ScheduleService/internal/domain"
	slotRepo "github.com/v1malina/TCS-ScheduleService/internal/infra/storage/slot"
	"github.com/v1malina/TCS-ScheduleService/internal/service/slots/models"
)

// Service сервис для работы со слотами расписания
type Service struct {
	slotRepo    SlotRepository
	bookingRepo BookingRepository
	teacherRepo TeacherRepository
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	teacherRepo TeacherRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
		teacherRepo: teacherRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// List получает слоты с вычисленным количеством свободных мест
func (s *Service) List(ctx context.Context, req *models.ListSlotsRequest) (*models.SlotListResponse, error) {
	s.logger.Info("ListSlots: fetching slots")

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListSlots: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	slots, err := s.slotRepo.ListWithFreeSpots(ctx, filter)
	if err != nil {
		s.logger.Error("ListSlots: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListSlots: successfully fetched %d slots", len(slots))
	return models.FromDomainSlotList(slots), nil
}

// ListByTeacher получает слоты конкретного преподавателя
func (s *Service) ListByTeacher(ctx context.Context, teacherID int64, req *models.ListSlotsRequest) (*models.SlotListResponse, error) {
	s.logger.Info("ListTeacherSlots: fetching slots for teacher=%d", teacherID)

	exists, err := s.teacherRepo.Exists(ctx, teacherID)
	if err != nil {
		s.logger.Error("ListTeacherSlots: failed to check teacher id=%d: %v", teacherID, err)
		return nil, fmt.Errorf("%w: ListByTeacher - failed to check teacher: %v", ErrInternal, err)
	}
	if !exists {
		s.logger.Warn("ListTeacherSlots: teacher id=%d not found", teacherID)
		return nil, ErrTeacherNotFound
	}

	req.TeacherID = &teacherID
	return s.List(ctx, req)
}

// Patch частично обновляет слот
// Вместимость нельзя опустить ниже числа активных броней; тип занятия и
// вместимость должны оставаться согласованными после обновления
func (s *Service) Patch(ctx context.Context, id int64, req *models.PatchSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("PatchSlot: updating slot id=%d", id)

	if req.IsEmpty() {
		s.logger.Warn("PatchSlot: empty patch for slot id=%d", id)
		return nil, fmt.Errorf("%w: at least one field is required", ErrInvalidInput)
	}

	var newStatus *domain.SlotStatus
	if req.Status != nil {
		status, ok := domain.ParseSlotStatus(*req.Status)
		if !ok {
			s.logger.Warn("PatchSlot: invalid status %q for slot id=%d", *req.Status, id)
			return nil, fmt.Errorf("%w: unknown slot status %q", ErrInvalidInput, *req.Status)
		}
		newStatus = &status
	}

	var newLessonType *domain.LessonType
	if req.LessonType != nil {
		lt, ok := domain.ParseLessonType(*req.LessonType)
		if !ok {
			s.logger.Warn("PatchSlot: invalid lesson type %q for slot id=%d", *req.LessonType, id)
			return nil, fmt.Errorf("%w: unknown lesson type %q", ErrInvalidInput, *req.LessonType)
		}
		newLessonType = &lt
	}

	var updated *domain.TimeSlot
	var freeSpots int

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Блокируем строку слота, чтобы проверка броней и запись были атомарны
		slot, err := s.slotRepo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				s.logger.Warn("PatchSlot: slot id=%d not found", id)
				return ErrSlotNotFound
			}
			s.logger.Error("PatchSlot: failed to lock slot id=%d: %v", id, err)
			return fmt.Errorf("%w: Patch - failed to lock slot: %v", ErrInternal, err)
		}

		activeCount, err := s.bookingRepo.CountActiveBySlot(txCtx, id)
		if err != nil {
			s.logger.Error("PatchSlot: failed to count bookings for slot id=%d: %v", id, err)
			return fmt.Errorf("%w: Patch - failed to count bookings: %v", ErrInternal, err)
		}

		if newStatus != nil {
			slot.Status = *newStatus
		}
		if newLessonType != nil {
			slot.LessonType = *newLessonType
		}
		if req.Capacity != nil {
			if *req.Capacity < activeCount {
				s.logger.Warn("PatchSlot: capacity %d below %d active bookings for slot id=%d",
					*req.Capacity, activeCount, id)
				return fmt.Errorf("%w: %d active bookings exist", ErrCapacityBelowBooked, activeCount)
			}
			slot.Capacity = *req.Capacity
		}

		// Итоговая пара тип/вместимость должна быть согласована
		if !domain.ValidateCapacity(slot.LessonType, slot.Capacity) {
			s.logger.Warn("PatchSlot: capacity %d does not match lesson type %q for slot id=%d",
				slot.Capacity, slot.LessonType, id)
			return fmt.Errorf("%w: capacity %d does not match lesson type %q",
				ErrInvalidInput, slot.Capacity, slot.LessonType)
		}

		if err := s.slotRepo.Update(txCtx, slot); err != nil {
			s.logger.Error("PatchSlot: failed to update slot id=%d: %v", id, err)
			return fmt.Errorf("%w: Patch - failed to update slot: %v", ErrInternal, err)
		}

		updated = slot
		freeSpots = slot.Capacity - activeCount
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("PatchSlot: successfully updated slot id=%d", id)

	resp := models.FromDomainSlotWithSpots(&domain.SlotWithSpots{TimeSlot: *updated, FreeSpots: freeSpots})
	return &resp, nil
}

// Delete удаляет слот вместе с его бронированиями
// Слот с активными бронями удалить нельзя
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("DeleteSlot: deleting slot id=%d", id)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Блокируем строку, чтобы не проиграть гонку новой брони
		_, err := s.slotRepo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				s.logger.Warn("DeleteSlot: slot id=%d not found", id)
				return ErrSlotNotFound
			}
			s.logger.Error("DeleteSlot: failed to lock slot id=%d: %v", id, err)
			return fmt.Errorf("%w: Delete - failed to lock slot: %v", ErrInternal, err)
		}

		activeCount, err := s.bookingRepo.CountActiveBySlot(txCtx, id)
		if err != nil {
			s.logger.Error("DeleteSlot: failed to count bookings for slot id=%d: %v", id, err)
			return fmt.Errorf("%w: Delete - failed to count bookings: %v", ErrInternal, err)
		}
		if activeCount > 0 {
			s.logger.Warn("DeleteSlot: slot id=%d has %d active bookings", id, activeCount)
			return fmt.Errorf("%w: %d active bookings exist", ErrSlotHasBookings, activeCount)
		}

		// Каскад: сначала отменённые брони слота, затем сам слот
		if err := s.bookingRepo.DeleteBySlotID(txCtx, id); err != nil {
			s.logger.Error("DeleteSlot: failed to delete bookings for slot id=%d: %v", id, err)
			return fmt.Errorf("%w: Delete - failed to delete bookings: %v", ErrInternal, err)
		}

		if err := s.slotRepo.Delete(txCtx, id); err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			s.logger.Error("DeleteSlot: failed to delete slot id=%d: %v", id, err)
			return fmt.Errorf("%w: Delete - failed to delete slot: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return err
	}

	s.logger.Info("DeleteSlot: successfully deleted slot id=%d", id)
	return nil
}
