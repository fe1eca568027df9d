package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/v1malina/TCS-ScheduleService/internal/domain"
	bookingRepo "github.com/v1malina/TCS-ScheduleService/internal/infra/storage/booking"
	slotRepo "github.com/v1malina/TCS-ScheduleService/internal/infra/storage/slot"
)

// UseCase use case для создания бронирования
type UseCase struct {
	slotRepo     SlotRepository
	bookingRepo  BookingRepository
	userRepo     UserRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	userRepo UserRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		bookingRepo:  bookingRepo,
		userRepo:     userRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Все проверки и вставка выполняются в одной транзакции под блокировкой
// строки слота, что сериализует конкурентные брони на один слот
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: slot=%d, client=%d", req.SlotID, req.ClientID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// Переменная для хранения результата
	var result *domain.Booking
	var lockedSlot *domain.TimeSlot

	// 3. Выполняем операции с БД в транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 3.1. Проверяем существование клиента
		exists, err := uc.userRepo.Exists(txCtx, req.ClientID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check client id=%d: %v", req.ClientID, err)
			return fmt.Errorf("%w: failed to check client: %v", ErrInternal, err)
		}
		if !exists {
			uc.logger.Warn("CreateBooking: client id=%d not found", req.ClientID)
			return ErrClientNotFound
		}

		// 3.2. Берем блокировку строки слота (FOR UPDATE)
		// Конкурентные попытки брони на этот слот ждут здесь до коммита
		slot, err := uc.slotRepo.GetByIDForUpdate(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("CreateBooking: slot id=%d not found", req.SlotID)
				return ErrSlotNotFound
			}
			uc.logger.Error("CreateBooking: failed to lock slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to lock slot: %v", ErrInternal, err)
		}

		// 3.3. Слот должен быть в статусе available
		if !slot.IsBookable() {
			uc.logger.Warn("CreateBooking: slot id=%d is not bookable, status=%s", slot.ID, slot.Status)
			return fmt.Errorf("%w: slot status is %q", ErrSlotNotBookable, slot.Status)
		}

		// 3.4. Дата слота не должна быть в прошлом
		if isDateInPast(slot.Date, now) {
			uc.logger.Warn("CreateBooking: slot id=%d is in the past, date=%s",
				slot.ID, slot.Date.Format(domain.DateFormat))
			return ErrPastSlot
		}

		// 3.5. У клиента не должно быть активной брони на этот слот
		hasBooking, err := uc.bookingRepo.HasActiveBySlotAndClient(txCtx, slot.ID, req.ClientID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check duplicate for slot=%d, client=%d: %v",
				slot.ID, req.ClientID, err)
			return fmt.Errorf("%w: failed to check duplicate: %v", ErrInternal, err)
		}
		if hasBooking {
			uc.logger.Warn("CreateBooking: client id=%d already booked slot id=%d", req.ClientID, slot.ID)
			return ErrAlreadyBooked
		}

		// 3.6. Проверяем свободные места
		activeCount, err := uc.bookingRepo.CountActiveBySlot(txCtx, slot.ID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to count bookings for slot id=%d: %v", slot.ID, err)
			return fmt.Errorf("%w: failed to count bookings: %v", ErrInternal, err)
		}
		if activeCount >= slot.Capacity {
			uc.logger.Warn("CreateBooking: slot id=%d is full, %d/%d", slot.ID, activeCount, slot.Capacity)
			return ErrSlotFull
		}

		uc.logger.Info("CreateBooking: slot id=%d has free spots, %d/%d taken",
			slot.ID, activeCount, slot.Capacity)

		// 3.7. Создаем бронирование сразу в статусе confirmed
		// Нарушение уникальности на уровне БД конвертируется в конфликт
		booking := &domain.Booking{
			SlotID:   slot.ID,
			ClientID: req.ClientID,
			Status:   domain.BookingConfirmed,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrDuplicateBooking) {
				uc.logger.Warn("CreateBooking: race lost for slot=%d, client=%d", slot.ID, req.ClientID)
				return ErrBookingConflict
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		lockedSlot = slot
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	// Конвертируем в response
	return &Response{
		ID:        result.ID,
		SlotID:    result.SlotID,
		ClientID:  result.ClientID,
		Status:    string(result.Status),
		Date:      lockedSlot.Date,
		StartTime: lockedSlot.StartTime,
		EndTime:   lockedSlot.EndTime,
		TeacherID: lockedSlot.TeacherID,
		SubjectID: lockedSlot.SubjectID,
	}, nil
}
