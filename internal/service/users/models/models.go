package models

import (
	"errors"

	"github.com/v1malina/TCS-ScheduleService/internal/domain"
)

var (
	// ErrInvalidRole возвращается при некорректной роли
	ErrInvalidRole = errors.New("invalid user role")
)

// Request модели

// CreateUserRequest запрос на создание пользователя
type CreateUserRequest struct {
	TelegramID int64   `json:"telegramId"`
	Role       string  `json:"role"`
	FirstName  *string `json:"firstName,omitempty"`
	LastName   *string `json:"lastName,omitempty"`
	Username   *string `json:"username,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Email      *string `json:"email,omitempty"`
}

// PatchUserRequest запрос на частичное обновление пользователя
type PatchUserRequest struct {
	Role       *string `json:"role,omitempty"`
	FirstName  *string `json:"firstName,omitempty"`
	LastName   *string `json:"lastName,omitempty"`
	Username   *string `json:"username,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Email      *string `json:"email,omitempty"`
	IsVerified *bool   `json:"isVerified,omitempty"`
}

// ListUsersRequest запрос на листинг пользователей
type ListUsersRequest struct {
	Role   *string `json:"role,omitempty"`
	Query  *string `json:"q,omitempty"`
	Limit  int     `json:"limit,omitempty"`
	Offset int     `json:"offset,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListUsersRequest) ToDomainFilter() (domain.UsersFilter, error) {
	filter := domain.UsersFilter{
		Query:  r.Query,
		Limit:  r.Limit,
		Offset: r.Offset,
	}

	if r.Role != nil {
		role, ok := domain.ParseUserRole(*r.Role)
		if !ok {
			return filter, ErrInvalidRole
		}
		filter.Role = &role
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

	return filter, nil
}

// Response модели

// UserResponse пользователь в ответе API
type UserResponse struct {
	ID          int64   `json:"id"`
	TelegramID  int64   `json:"telegramId"`
	Role        string  `json:"role"`
	FirstName   *string `json:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	Username    *string `json:"username,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Email       *string `json:"email,omitempty"`
	IsVerified  bool    `json:"isVerified"`
	DisplayName string  `json:"displayName"`
}

// UserListResponse список пользователей с общим числом под фильтром
type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int64          `json:"total"`
}

// FromDomainUser конвертирует domain модель в response
func FromDomainUser(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		TelegramID:  u.TelegramID,
		Role:        string(u.Role),
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Username:    u.Username,
		Phone:       u.Phone,
		Email:       u.Email,
		IsVerified:  u.IsVerified,
		DisplayName: u.DisplayName(),
	}
}

// FromDomainUserList конвертирует список domain моделей в response
func FromDomainUserList(users []*domain.User, total int64) *UserListResponse {
	resp := &UserListResponse{
		Users: make([]UserResponse, 0, len(users)),
		Total: total,
	}
	for _, u := range users {
		resp.Users = append(resp.Users, FromDomainUser(u))
	}
	return resp
}
