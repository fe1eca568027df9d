package users

import (
	"context"

	"github.com/v1malina/TCS-ScheduleService/internal/service/users/models"
)

type UsersService interface {
	Create(ctx context.Context, req *models.CreateUserRequest) (*models.UserResponse, error)
	GetByID(ctx context.Context, id int64) (*models.UserResponse, error)
	List(ctx context.Context, req *models.ListUsersRequest) (*models.UserListResponse, error)
	Patch(ctx context.Context, id int64, req *models.PatchUserRequest) (*models.UserResponse, error)
	Delete(ctx context.Context, id int64, force bool) error
}

type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
