package create_booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v1malina/TCS-ScheduleService/internal/domain"
	bookingRepo "github.com/v1malina/TCS-ScheduleService/internal/infra/storage/booking"
	slotRepo "github.com/v1malina/TCS-ScheduleService/internal/infra/storage/slot"
	"github.com/v1malina/TCS-ScheduleService/pkg/types"
)

// --- Mocks ---

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type mockSlotRepo struct {
	getByIDForUpdateFn func(ctx context.Context, id int64) (*domain.TimeSlot, error)
}

func (m *mockSlotRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	return m.getByIDForUpdateFn(ctx, id)
}

type mockBookingRepo struct {
	createFn                   func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	hasActiveBySlotAndClientFn func(ctx context.Context, slotID, clientID int64) (bool, error)
	countActiveBySlotFn        func(ctx context.Context, slotID int64) (int, error)
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	return m.createFn(ctx, booking)
}

func (m *mockBookingRepo) HasActiveBySlotAndClient(ctx context.Context, slotID, clientID int64) (bool, error) {
	return m.hasActiveBySlotAndClientFn(ctx, slotID, clientID)
}

func (m *mockBookingRepo) CountActiveBySlot(ctx context.Context, slotID int64) (int, error) {
	return m.countActiveBySlotFn(ctx, slotID)
}

type mockUserRepo struct {
	existsFn func(ctx context.Context, id int64) (bool, error)
}

func (m *mockUserRepo) Exists(ctx context.Context, id int64) (bool, error) {
	return m.existsFn(ctx, id)
}

// passthroughTxManager выполняет fn без настоящей транзакции
type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- Helpers ---

func ts(t *testing.T, s string) types.TimeString {
	t.Helper()
	v, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return v
}

func futureDate() time.Time {
	return time.Now().UTC().AddDate(0, 0, 7)
}

func sampleSlot(t *testing.T) *domain.TimeSlot {
	return &domain.TimeSlot{
		ID:         10,
		TeacherID:  1,
		SubjectID:  2,
		Date:       futureDate(),
		StartTime:  ts(t, "10:00"),
		EndTime:    ts(t, "10:45"),
		LessonType: domain.LessonGroup,
		Capacity:   3,
		Status:     domain.SlotAvailable,
	}
}

func happyUserRepo() *mockUserRepo {
	return &mockUserRepo{
		existsFn: func(ctx context.Context, id int64) (bool, error) { return true, nil },
	}
}

func happyBookingRepo() *mockBookingRepo {
	return &mockBookingRepo{
		hasActiveBySlotAndClientFn: func(ctx context.Context, slotID, clientID int64) (bool, error) {
			return false, nil
		},
		countActiveBySlotFn: func(ctx context.Context, slotID int64) (int, error) {
			return 0, nil
		},
		createFn: func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
			booking.ID = 100
			return booking, nil
		},
	}
}

// --- Tests ---

func TestCreateBooking_Success(t *testing.T) {
	slot := sampleSlot(t)
	slots := &mockSlotRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.TimeSlot, error) {
			return slot, nil
		},
	}

	uc := NewUseCase(slots, happyBookingRepo(), happyUserRepo(), passthroughTxManager{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{SlotID: 10, ClientID: 42})
	require.NoError(t, err)

	assert.Equal(t, int64(100), resp.ID)
	assert.Equal(t, int64(10), resp.SlotID)
	assert.Equal(t, int64(42), resp.ClientID)
	assert.Equal(t, string(domain.BookingConfirmed), resp.Status)
	assert.Equal(t, "10:00", resp.StartTime.String())
	assert.Equal(t, int64(1), resp.TeacherID)
}

func TestCreateBooking_InvalidInput(t *testing.T) {
	uc := NewUseCase(&mockSlotRepo{}, &mockBookingRepo{}, &mockUserRepo{}, passthroughTxManager{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{SlotID: 0, ClientID: 42})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{SlotID: 10, ClientID: -5})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateBooking_ClientNotFound(t *testing.T) {
	users := &mockUserRepo{
		existsFn: func(ctx context.Context, id int64) (bool, error) { return false, nil },
	}

	uc := NewUseCase(&mockSlotRepo{}, &mockBookingRepo{}, users, passthroughTxManager{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{SlotID: 10, ClientID: 42})
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestCreateBooking_SlotNotFound(t *testing.T) {
	slots := &mockSlotRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.TimeSlot, error) {
			return nil, slotRepo.ErrSlotNotFound
		},
	}

	uc := NewUseCase(slots, &mockBookingRepo{}, happyUserRepo(), passthroughTxManager{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{SlotID: 10, ClientID: 42})
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestCreateBooking_SlotNotBookable(t *testing.T) {
	statuses := []domain.SlotStatus{
		domain.SlotBooked,
		domain.SlotCanceled,
		domain.SlotHidden,
		domain.SlotTentative,
	}

	for _, status := range statuses {
		t.Run(string(status), func(t *testing.T) {
			slot := sampleSlot(t)
			slot.Status = status

			slots := &mockSlotRepo{
				getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.TimeSlot, error) {
					return slot, nil
				},
			}

			uc := NewUseCase(slots, happyBookingRepo(), happyUserRepo(), passthroughTxManager{}, nopLogger{})

			_, err := uc.Execute(context.Background(), &Request{SlotID: 10, ClientID: 42})
			require.ErrorIs(t, err, ErrSlotNotBookable)
			// Сообщение содержит текущий статус слота
			assert.Contains(t, err.Error(), string(status))
		})
	}
}

func TestCreateBooking_PastSlot(t *testing.T) {
	slot := sampleSlot(t)
	slot.Date = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	slots := &mockSlotRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.TimeSlot, error) {
			return slot, nil
		},
	}

	uc := NewUseCase(slots, happyBookingRepo(), happyUserRepo(), passthroughTxManager{}, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)}

	_, err := uc.Execute(context.Background(), &Request{SlotID: 10, ClientID: 42})
	assert.ErrorIs(t, err, ErrPastSlot)
}

func TestCreateBooking_SameDayNotPast(t *testing.T) {
	slot := sampleSlot(t)
	slot.Date = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	slots := &mockSlotRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.TimeSlot, error) {
			return slot, nil
		},
	}

	uc := NewUseCase(slots, happyBookingRepo(), happyUserRepo(), passthroughTxManager{}, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: time.Date(2026, 9, 15, 23, 0, 0, 0, time.UTC)}

	// Слот на сегодня не считается прошедшим
	_, err := uc.Execute(context.Background(), &Request{SlotID: 10, ClientID: 42})
	assert.NoError(t, err)
}

func TestCreateBooking_Duplicate(t *testing.T) {
	slot := sampleSlot(t)
	slots := &mockSlotRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.TimeSlot, error) {
			return slot, nil
		},
	}

	bookings := happyBookingRepo()
	bookings.hasActiveBySlotAndClientFn = func(ctx context.Context, slotID, clientID int64) (bool, error) {
		return true, nil
	}

	uc := NewUseCase(slots, bookings, happyUserRepo(), passthroughTxManager{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{SlotID: 10, ClientID: 42})
	assert.ErrorIs(t, err, ErrAlreadyBooked)
}

func TestCreateBooking_SlotFull(t *testing.T) {
	slot := sampleSlot(t)
	slots := &mockSlotRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.TimeSlot, error) {
			return slot, nil
		},
	}

	bookings := happyBookingRepo()
	bookings.countActiveBySlotFn = func(ctx context.Context, slotID int64) (int, error) {
		return slot.Capacity, nil
	}

	uc := NewUseCase(slots, bookings, happyUserRepo(), passthroughTxManager{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{SlotID: 10, ClientID: 42})
	assert.ErrorIs(t, err, ErrSlotFull)
}

func TestCreateBooking_RaceLostAtInsert(t *testing.T) {
	slot := sampleSlot(t)
	slots := &mockSlotRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.TimeSlot, error) {
			return slot, nil
		},
	}

	bookings := happyBookingRepo()
	bookings.createFn = func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
		return nil, bookingRepo.ErrDuplicateBooking
	}

	uc := NewUseCase(slots, bookings, happyUserRepo(), passthroughTxManager{}, nopLogger{})

	// Нарушение уникальности при вставке конвертируется в конфликт,
	// а не во внутреннюю ошибку
	_, err := uc.Execute(context.Background(), &Request{SlotID: 10, ClientID: 42})
	assert.ErrorIs(t, err, ErrBookingConflict)
}

func TestCreateBooking_StorageError(t *testing.T) {
	slots := &mockSlotRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.TimeSlot, error) {
			return nil, errors.New("connection refused")
		},
	}

	uc := NewUseCase(slots, &mockBookingRepo{}, happyUserRepo(), passthroughTxManager{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{SlotID: 10, ClientID: 42})
	assert.ErrorIs(t, err, ErrInternal)
}

// --- Конкурентные сценарии ---

// fakeStore in-memory хранилище, эмулирующее блокировку строки слота:
// GetByIDForUpdate берет мьютекс, транзакционный менеджер отпускает его
// при коммите или откате. Проверки и вставка между ними атомарны
// относительно других попыток брони, как и с настоящим FOR UPDATE
type fakeStore struct {
	mu   sync.Mutex
	held bool

	slot     domain.TimeSlot
	nextID   int64
	bookings []domain.Booking
	pending  *domain.Booking
}

func newFakeStore(slot domain.TimeSlot) *fakeStore {
	return &fakeStore{slot: slot}
}

func (s *fakeStore) GetByIDForUpdate(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	s.mu.Lock()
	s.held = true
	slot := s.slot
	return &slot, nil
}

func (s *fakeStore) HasActiveBySlotAndClient(ctx context.Context, slotID, clientID int64) (bool, error) {
	for _, b := range s.bookings {
		if b.SlotID == slotID && b.ClientID == clientID && b.Status != domain.BookingCanceled {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) CountActiveBySlot(ctx context.Context, slotID int64) (int, error) {
	count := 0
	for _, b := range s.bookings {
		if b.SlotID == slotID && b.Status != domain.BookingCanceled {
			count++
		}
	}
	return count, nil
}

func (s *fakeStore) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	s.nextID++
	booking.ID = s.nextID
	s.pending = booking
	return booking, nil
}

func (s *fakeStore) Exists(ctx context.Context, id int64) (bool, error) {
	return true, nil
}

// Do коммитит pending бронь при успехе fn и отпускает блокировку слота
func (s *fakeStore) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	if s.held {
		if err == nil && s.pending != nil {
			s.bookings = append(s.bookings, *s.pending)
		}
		s.pending = nil
		s.held = false
		s.mu.Unlock()
	}
	return err
}

func TestCreateBooking_ConcurrentCapacityLimit(t *testing.T) {
	const capacity = 3
	const attempts = 10

	slot := *sampleSlot(t)
	slot.Capacity = capacity

	store := newFakeStore(slot)
	uc := NewUseCase(store, store, store, store, nopLogger{})

	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), &Request{
				SlotID:   slot.ID,
				ClientID: int64(i + 1), // все клиенты разные
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		// Проигравшие получают только "слот заполнен"
		assert.ErrorIs(t, err, ErrSlotFull)
	}

	// Ровно capacity броней проходит, независимо от порядка горутин
	assert.Equal(t, capacity, successes)
	assert.Len(t, store.bookings, capacity)

	// Нет двух активных броней одного клиента
	seen := make(map[int64]bool)
	for _, b := range store.bookings {
		key := b.ClientID
		assert.False(t, seen[key], fmt.Sprintf("client %d booked twice", key))
		seen[key] = true
	}
}

func TestCreateBooking_ConcurrentSameClient(t *testing.T) {
	const attempts = 5

	slot := *sampleSlot(t)
	slot.Capacity = 10

	store := newFakeStore(slot)
	uc := NewUseCase(store, store, store, store, nopLogger{})

	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), &Request{
				SlotID:   slot.ID,
				ClientID: 42, // один и тот же клиент
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, ErrAlreadyBooked)
	}

	// Пара (слот, клиент) получает ровно одну активную бронь
	assert.Equal(t, 1, successes)
	assert.Len(t, store.bookings, 1)
}

func TestCreateBooking_DuplicateLaw(t *testing.T) {
	slot := *sampleSlot(t)
	slot.Capacity = 10

	store := newFakeStore(slot)
	uc := NewUseCase(store, store, store, store, nopLogger{})

	// Первая попытка проходит
	resp, err := uc.Execute(context.Background(), &Request{SlotID: slot.ID, ClientID: 42})
	require.NoError(t, err)
	assert.Equal(t, string(domain.BookingConfirmed), resp.Status)

	// Повторная попытка того же клиента падает конфликтом
	_, err = uc.Execute(context.Background(), &Request{SlotID: slot.ID, ClientID: 42})
	assert.ErrorIs(t, err, ErrAlreadyBooked)
}
