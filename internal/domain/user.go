package domain

import (
	"strconv"
	"strings"
)

// UserRole represents the role of a user in the system
type UserRole string

const (
	RoleGuest   UserRole = "guest"
	RoleClient  UserRole = "client"
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
)

// ParseUserRole converts a string into a UserRole
func ParseUserRole(s string) (UserRole, bool) {
	switch UserRole(s) {
	case RoleGuest, RoleClient, RoleTeacher, RoleAdmin:
		return UserRole(s), true
	default:
		return "", false
	}
}

// User represents a user of the tutoring service (client, teacher or admin)
type User struct {
	ID         int64
	TelegramID int64
	Role       UserRole
	FirstName  *string
	LastName   *string
	Username   *string
	Phone      *string
	Email      *string
	IsVerified bool
}

// DisplayName возвращает человекочитаемое имя пользователя
// Приоритет: "Имя Фамилия" → username → email → "user {id}"
func (u *User) DisplayName() string {
	parts := make([]string, 0, 2)
	if u.FirstName != nil && *u.FirstName != "" {
		parts = append(parts, *u.FirstName)
	}
	if u.LastName != nil && *u.LastName != "" {
		parts = append(parts, *u.LastName)
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	if u.Username != nil && *u.Username != "" {
		return *u.Username
	}
	if u.Email != nil && *u.Email != "" {
		return *u.Email
	}
	return "user " + strconv.FormatInt(u.ID, 10)
}

// Teacher карточка преподавателя, 1:1 к User (id совпадает с users.id)
type Teacher struct {
	ID          int64
	Bio         *string
	DefaultMode *string // online | offline | mixed
}

// TeacherCard агрегат карточки преподавателя с данными пользователя
type TeacherCard struct {
	Teacher
	User       User
	SubjectIDs []int64
}

// UsersFilter фильтр для листинга пользователей
type UsersFilter struct {
	Role   *UserRole
	Query  *string // поиск по имени/username/email/phone
	Limit  int
	Offset int
}

// TeachersFilter фильтр для листинга карточек преподавателей
type TeachersFilter struct {
	Query     *string
	SubjectID *int64
	Limit     int
	Offset    int
}
