package auth

// LoginRequest тело запроса на вход администратора
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse результат успешного входа
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

// MeResponse сведения о текущей сессии
type MeResponse struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}
