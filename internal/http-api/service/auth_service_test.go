package service

import (
	"testing"
	"time"

	"bookhaven/internal/config"
	"bookhaven/internal/http-api/models"
	"bookhaven/internal/middleware/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

// MockRefreshTokenRepository mocks the RefreshTokenRepository interface
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(token *models.RefreshToken) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByToken(token string) (*models.RefreshToken, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) Revoke(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret-test-secret-test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

func TestRegister_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testConfig())

	mockUserRepo.On("FindByUsername", "testuser").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", "test@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil)

	user, err := authService.Register("testuser", "password123", "test@example.com", "Test User")

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "testuser", user.Username)
	assert.Equal(t, "test@example.com", user.Email)
	assert.Equal(t, "Test User", user.FullName)
	mockUserRepo.AssertExpectations(t)
}

func TestRegister_UsernameExists(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, new(MockRefreshTokenRepository), testConfig())

	existingUser := &models.User{Username: "testuser"}
	mockUserRepo.On("FindByUsername", "testuser").Return(existingUser, nil)

	user, err := authService.Register("testuser", "password123", "test@example.com", "")

	assert.Error(t, err)
	assert.Equal(t, ErrNameInUse, err)
	assert.Nil(t, user)
	mockUserRepo.AssertExpectations(t)
}

func TestRegister_EmailExists(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, new(MockRefreshTokenRepository), testConfig())

	existingUser := &models.User{Email: "test@example.com"}
	mockUserRepo.On("FindByUsername", "testuser").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", "test@example.com").Return(existingUser, nil)

	user, err := authService.Register("testuser", "password123", "test@example.com", "")

	assert.Error(t, err)
	assert.Equal(t, ErrEmailInUse, err)
	assert.Nil(t, user)
	mockUserRepo.AssertExpectations(t)
}

func TestLogin_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testConfig())

	hashed, err := auth.Hashpassword("password123")
	assert.NoError(t, err)

	existingUser := &models.User{
		ID:       "user-1",
		Username: "testuser",
		Email:    "test@example.com",
		Password: hashed,
	}
	mockUserRepo.On("FindByEmail", "test@example.com").Return(existingUser, nil)
	mockUserRepo.On("Update", mock.AnythingOfType("*models.User")).Return(nil)
	mockRefreshTokenRepo.On("Create", mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	accessToken, refreshToken, user, err := authService.Login("test@example.com", "password123")

	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, "testuser", user.Username)
	assert.NotNil(t, user.LastLogin)
	mockUserRepo.AssertExpectations(t)
	mockRefreshTokenRepo.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, new(MockRefreshTokenRepository), testConfig())

	hashed, _ := auth.Hashpassword("password123")
	existingUser := &models.User{Email: "test@example.com", Password: hashed}
	mockUserRepo.On("FindByEmail", "test@example.com").Return(existingUser, nil)

	_, _, _, err := authService.Login("test@example.com", "wrong-password")

	assert.Equal(t, ErrInvalidCredentials, err)
}

func TestLogin_UnknownEmail(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, new(MockRefreshTokenRepository), testConfig())

	mockUserRepo.On("FindByEmail", "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)

	_, _, _, err := authService.Login("nobody@example.com", "password123")

	assert.Equal(t, ErrInvalidCredentials, err)
}

func TestValidateToken_RoundTrip(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testConfig())

	hashed, _ := auth.Hashpassword("password123")
	existingUser := &models.User{
		ID:       "user-1",
		Username: "testuser",
		Email:    "test@example.com",
		Password: hashed,
	}
	mockUserRepo.On("FindByEmail", "test@example.com").Return(existingUser, nil)
	mockUserRepo.On("Update", mock.AnythingOfType("*models.User")).Return(nil)
	mockRefreshTokenRepo.On("Create", mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	accessToken, _, _, err := authService.Login("test@example.com", "password123")
	assert.NoError(t, err)

	token, err := authService.ValidateToken(accessToken)
	assert.NoError(t, err)
	assert.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, "user-1", claims["user_id"])
}

func TestValidateToken_Garbage(t *testing.T) {
	authService := NewAuthService(new(MockUserRepository), new(MockRefreshTokenRepository), testConfig())

	_, err := authService.ValidateToken("not.a.token")
	assert.Error(t, err)
}
