package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v1malina/TCS-ScheduleService/internal/domain"
	userRepo "github.com/v1malina/TCS-ScheduleService/internal/infra/storage/user"
	"github.com/v1malina/TCS-ScheduleService/internal/service/users/models"
	"github.com/v1malina/TCS-ScheduleService/pkg/ptr"
)

// --- Mocks ---

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type mockUserRepo struct {
	createFn  func(ctx context.Context, user *domain.User) (*domain.User, error)
	getByIDFn func(ctx context.Context, id int64) (*domain.User, error)
	listFn    func(ctx context.Context, filter domain.UsersFilter) ([]*domain.User, int64, error)
	updateFn  func(ctx context.Context, user *domain.User) error
	deleteFn  func(ctx context.Context, id int64) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return m.createFn(ctx, user)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return m.getByIDFn(ctx, id)
}
func (m *mockUserRepo) List(ctx context.Context, filter domain.UsersFilter) ([]*domain.User, int64, error) {
	return m.listFn(ctx, filter)
}
func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.updateFn(ctx, user)
}
func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	return m.deleteFn(ctx, id)
}

type mockTeacherRepo struct {
	createFn func(ctx context.Context, teacher *domain.Teacher) error
	existsFn func(ctx context.Context, id int64) (bool, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (m *mockTeacherRepo) Create(ctx context.Context, teacher *domain.Teacher) error {
	return m.createFn(ctx, teacher)
}
func (m *mockTeacherRepo) Exists(ctx context.Context, id int64) (bool, error) {
	return m.existsFn(ctx, id)
}
func (m *mockTeacherRepo) Delete(ctx context.Context, id int64) error {
	return m.deleteFn(ctx, id)
}

type mockSlotRepo struct {
	deleteByTeacherIDFn func(ctx context.Context, teacherID int64) error
}

func (m *mockSlotRepo) DeleteByTeacherID(ctx context.Context, teacherID int64) error {
	return m.deleteByTeacherIDFn(ctx, teacherID)
}

type mockBookingRepo struct {
	countActiveByClientFn  func(ctx context.Context, clientID int64) (int, error)
	deleteByClientIDFn     func(ctx context.Context, clientID int64) error
	deleteByTeacherSlotsFn func(ctx context.Context, teacherID int64) error
}

func (m *mockBookingRepo) CountActiveByClient(ctx context.Context, clientID int64) (int, error) {
	return m.countActiveByClientFn(ctx, clientID)
}
func (m *mockBookingRepo) DeleteByClientID(ctx context.Context, clientID int64) error {
	return m.deleteByClientIDFn(ctx, clientID)
}
func (m *mockBookingRepo) DeleteByTeacherSlots(ctx context.Context, teacherID int64) error {
	return m.deleteByTeacherSlotsFn(ctx, teacherID)
}

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- Tests ---

func TestCreateUser_Client(t *testing.T) {
	users := &mockUserRepo{
		createFn: func(ctx context.Context, user *domain.User) (*domain.User, error) {
			user.ID = 5
			return user, nil
		},
	}
	teachers := &mockTeacherRepo{
		createFn: func(ctx context.Context, teacher *domain.Teacher) error {
			t.Fatal("teacher card must not be created for client role")
			return nil
		},
	}

	svc := NewService(users, teachers, &mockSlotRepo{}, &mockBookingRepo{}, passthroughTxManager{}, nopLogger{})

	resp, err := svc.Create(context.Background(), &models.CreateUserRequest{
		TelegramID: 777,
		Role:       "client",
		FirstName:  ptr.Ptr("Анна"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.ID)
	assert.Equal(t, "client", resp.Role)
	assert.Equal(t, "Анна", resp.DisplayName)
}

func TestCreateUser_TeacherCardAutoCreated(t *testing.T) {
	var cardCreated bool
	users := &mockUserRepo{
		createFn: func(ctx context.Context, user *domain.User) (*domain.User, error) {
			user.ID = 6
			return user, nil
		},
	}
	teachers := &mockTeacherRepo{
		createFn: func(ctx context.Context, teacher *domain.Teacher) error {
			assert.Equal(t, int64(6), teacher.ID)
			cardCreated = true
			return nil
		},
	}

	svc := NewService(users, teachers, &mockSlotRepo{}, &mockBookingRepo{}, passthroughTxManager{}, nopLogger{})

	_, err := svc.Create(context.Background(), &models.CreateUserRequest{TelegramID: 778, Role: "teacher"})
	require.NoError(t, err)
	assert.True(t, cardCreated)
}

func TestCreateUser_DuplicateTelegramID(t *testing.T) {
	users := &mockUserRepo{
		createFn: func(ctx context.Context, user *domain.User) (*domain.User, error) {
			return nil, userRepo.ErrTelegramIDTaken
		},
	}

	svc := NewService(users, &mockTeacherRepo{}, &mockSlotRepo{}, &mockBookingRepo{}, passthroughTxManager{}, nopLogger{})

	_, err := svc.Create(context.Background(), &models.CreateUserRequest{TelegramID: 777, Role: "client"})
	assert.ErrorIs(t, err, ErrTelegramIDTaken)
}

func TestCreateUser_InvalidRole(t *testing.T) {
	svc := NewService(&mockUserRepo{}, &mockTeacherRepo{}, &mockSlotRepo{}, &mockBookingRepo{}, passthroughTxManager{}, nopLogger{})

	_, err := svc.Create(context.Background(), &models.CreateUserRequest{TelegramID: 777, Role: "superuser"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListUsers_LimitApplied(t *testing.T) {
	var gotFilter domain.UsersFilter
	users := &mockUserRepo{
		listFn: func(ctx context.Context, filter domain.UsersFilter) ([]*domain.User, int64, error) {
			gotFilter = filter
			return nil, 0, nil
		},
	}

	svc := NewService(users, &mockTeacherRepo{}, &mockSlotRepo{}, &mockBookingRepo{}, passthroughTxManager{}, nopLogger{})

	_, err := svc.List(context.Background(), &models.ListUsersRequest{Limit: 9999})
	require.NoError(t, err)
	assert.Equal(t, domain.MaxUsersLimit, gotFilter.Limit)
}

func TestPatchUser_RolePromotionBackfillsCard(t *testing.T) {
	user := &domain.User{ID: 5, TelegramID: 777, Role: domain.RoleClient}
	users := &mockUserRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.User, error) { return user, nil },
		updateFn:  func(ctx context.Context, u *domain.User) error { return nil },
	}

	var cardCreated bool
	teachers := &mockTeacherRepo{
		existsFn: func(ctx context.Context, id int64) (bool, error) { return false, nil },
		createFn: func(ctx context.Context, teacher *domain.Teacher) error {
			cardCreated = true
			return nil
		},
	}

	svc := NewService(users, teachers, &mockSlotRepo{}, &mockBookingRepo{}, passthroughTxManager{}, nopLogger{})

	resp, err := svc.Patch(context.Background(), 5, &models.PatchUserRequest{Role: ptr.Ptr("teacher")})
	require.NoError(t, err)
	assert.Equal(t, "teacher", resp.Role)
	assert.True(t, cardCreated)
}

func TestPatchUser_ExistingCardNotDuplicated(t *testing.T) {
	user := &domain.User{ID: 5, TelegramID: 777, Role: domain.RoleTeacher}
	users := &mockUserRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.User, error) { return user, nil },
		updateFn:  func(ctx context.Context, u *domain.User) error { return nil },
	}
	teachers := &mockTeacherRepo{
		existsFn: func(ctx context.Context, id int64) (bool, error) { return true, nil },
		createFn: func(ctx context.Context, teacher *domain.Teacher) error {
			t.Fatal("card must not be created twice")
			return nil
		},
	}

	svc := NewService(users, teachers, &mockSlotRepo{}, &mockBookingRepo{}, passthroughTxManager{}, nopLogger{})

	_, err := svc.Patch(context.Background(), 5, &models.PatchUserRequest{IsVerified: ptr.Ptr(true)})
	require.NoError(t, err)
}

func TestPatchUser_NotFound(t *testing.T) {
	users := &mockUserRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.User, error) {
			return nil, userRepo.ErrUserNotFound
		},
	}

	svc := NewService(users, &mockTeacherRepo{}, &mockSlotRepo{}, &mockBookingRepo{}, passthroughTxManager{}, nopLogger{})

	_, err := svc.Patch(context.Background(), 5, &models.PatchUserRequest{IsVerified: ptr.Ptr(true)})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUser_WithActiveBookings(t *testing.T) {
	users := &mockUserRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.User, error) {
			return &domain.User{ID: 5, Role: domain.RoleClient}, nil
		},
	}
	bookings := &mockBookingRepo{
		countActiveByClientFn: func(ctx context.Context, clientID int64) (int, error) { return 2, nil },
	}

	svc := NewService(users, &mockTeacherRepo{}, &mockSlotRepo{}, bookings, passthroughTxManager{}, nopLogger{})

	err := svc.Delete(context.Background(), 5, false)
	assert.ErrorIs(t, err, ErrUserHasBookings)
}

func TestDeleteUser_TeacherCardRequiresForce(t *testing.T) {
	users := &mockUserRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.User, error) {
			return &domain.User{ID: 5, Role: domain.RoleTeacher}, nil
		},
	}
	teachers := &mockTeacherRepo{
		existsFn: func(ctx context.Context, id int64) (bool, error) { return true, nil },
	}
	bookings := &mockBookingRepo{
		countActiveByClientFn: func(ctx context.Context, clientID int64) (int, error) { return 0, nil },
	}

	svc := NewService(users, teachers, &mockSlotRepo{}, bookings, passthroughTxManager{}, nopLogger{})

	err := svc.Delete(context.Background(), 5, false)
	assert.ErrorIs(t, err, ErrTeacherCardExists)
}

func TestDeleteUser_ForceCascadesTeacherSchedule(t *testing.T) {
	users := &mockUserRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.User, error) {
			return &domain.User{ID: 5, Role: domain.RoleTeacher}, nil
		},
		deleteFn: func(ctx context.Context, id int64) error { return nil },
	}

	var order []string
	teachers := &mockTeacherRepo{
		existsFn: func(ctx context.Context, id int64) (bool, error) { return true, nil },
		deleteFn: func(ctx context.Context, id int64) error {
			order = append(order, "teacher")
			return nil
		},
	}
	slots := &mockSlotRepo{
		deleteByTeacherIDFn: func(ctx context.Context, teacherID int64) error {
			order = append(order, "slots")
			return nil
		},
	}
	bookings := &mockBookingRepo{
		countActiveByClientFn: func(ctx context.Context, clientID int64) (int, error) { return 0, nil },
		deleteByTeacherSlotsFn: func(ctx context.Context, teacherID int64) error {
			order = append(order, "bookings")
			return nil
		},
		deleteByClientIDFn: func(ctx context.Context, clientID int64) error { return nil },
	}

	svc := NewService(users, teachers, slots, bookings, passthroughTxManager{}, nopLogger{})

	err := svc.Delete(context.Background(), 5, true)
	require.NoError(t, err)

	// Каскад: брони на слоты преподавателя, затем слоты, затем карточка
	assert.Equal(t, []string{"bookings", "slots", "teacher"}, order)
}
