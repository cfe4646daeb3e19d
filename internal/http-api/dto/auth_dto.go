package dto

// Data Transfer Objects for authentication requests and responses

// RegisterRequest: payload for user registration
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=8"`
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name"`
}

// LoginRequest: payload for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse: response payload after successful authentication
type AuthResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	ExpiresIn    int64  `json:"expires_in"` // seconds
}

// RefreshTokenRequest: payload for refreshing access token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshResponse: response payload after refreshing access token
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"` // e.g., "Bearer"
	ExpiresIn   int64  `json:"expires_in"` // seconds
}

// UpdateProfileRequest: partial profile update; email and password are
// immutable through this endpoint
type UpdateProfileRequest struct {
	FullName       *string `json:"full_name,omitempty"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
	FontSize       *string `json:"font_size,omitempty" binding:"omitempty,oneof=small medium large"`
	Theme          *string `json:"theme,omitempty" binding:"omitempty,oneof=light dark sepia"`
	ReadingSpeed   *string `json:"reading_speed,omitempty" binding:"omitempty,oneof=slow normal fast"`
}
