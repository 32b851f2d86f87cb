package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"foodgram/internal/models"
	"foodgram/internal/repositories"
	"foodgram/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test_jwt_secret"

func notFound(what string) error {
	return fmt.Errorf("failed to get %s: %w", what, repositories.ErrNotFound)
}

func newAuthService() (*services.AuthService, *MockUserRepository, *MockTokenRepository) {
	users := new(MockUserRepository)
	tokens := new(MockTokenRepository)
	return services.NewAuthService(users, tokens, testJWTSecret, time.Hour), users, tokens
}

func TestAuthService_RegisterUser(t *testing.T) {
	ctx := context.Background()
	authService, mockRepo, _ := newAuthService()

	user := &models.User{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
	}

	mockRepo.On("GetByUsername", ctx, user.Username).Return(nil, notFound("user")).Once()
	mockRepo.On("GetByEmail", ctx, user.Email).Return(nil, notFound("user")).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil).Once()

	err := authService.RegisterUser(ctx, user)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterUser_Taken(t *testing.T) {
	ctx := context.Background()
	authService, mockRepo, _ := newAuthService()

	user := &models.User{Username: "testuser", Email: "test@example.com", Password: "password123"}
	mockRepo.On("GetByUsername", ctx, user.Username).Return(&models.User{ID: 1}, nil).Once()
	mockRepo.On("GetByEmail", ctx, user.Email).Return(&models.User{ID: 2}, nil).Once()

	err := authService.RegisterUser(ctx, user)
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "username")
	assert.Contains(t, verr.Fields, "email")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_RegisterUser_ReservedName(t *testing.T) {
	ctx := context.Background()
	authService, mockRepo, _ := newAuthService()

	user := &models.User{Username: "me", Email: "me@example.com", Password: "password123"}
	mockRepo.On("GetByUsername", ctx, "me").Return(nil, notFound("user")).Once()
	mockRepo.On("GetByEmail", ctx, user.Email).Return(nil, notFound("user")).Once()

	err := authService.RegisterUser(ctx, user)
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields["username"], 1)
}

func TestAuthService_LoginUser(t *testing.T) {
	ctx := context.Background()
	authService, mockRepo, _ := newAuthService()

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	user := &models.User{
		ID:       42,
		Username: "testuser",
		Email:    "test@example.com",
		Password: string(hashedPassword),
	}

	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	token, err := authService.LoginUser(ctx, "test@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims := &services.Claims{}
	parsedToken, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsedToken.Valid)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "testuser", claims.Username)
	assert.NotEmpty(t, claims.Id)

	// wrong password
	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	_, err = authService.LoginUser(ctx, "test@example.com", "wrongpassword")
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, services.NonFieldErrors)

	// unknown email gets the same answer
	mockRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, notFound("user")).Once()
	_, err = authService.LoginUser(ctx, "nobody@example.com", "password123")
	require.ErrorAs(t, err, &verr)
	mockRepo.AssertExpectations(t)
}

func signed(t *testing.T, claims services.Claims, secret string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestAuthService_ValidateToken(t *testing.T) {
	ctx := context.Background()
	authService, _, tokens := newAuthService()

	valid := signed(t, services.Claims{UserID: 7, Username: "testuser", StandardClaims: jwt.StandardClaims{
		Id: "jti-1", ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}}, testJWTSecret)

	tokens.On("IsRevoked", ctx, "jti-1").Return(false, nil).Once()
	claims, err := authService.ValidateToken(ctx, valid)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)

	tokens.On("IsRevoked", ctx, "jti-1").Return(true, nil).Once()
	_, err = authService.ValidateToken(ctx, valid)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	_, err = authService.ValidateToken(ctx, "invalid.token.string")
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	expired := signed(t, services.Claims{UserID: 7, StandardClaims: jwt.StandardClaims{
		Id: "jti-2", ExpiresAt: time.Now().Add(-time.Hour).Unix(),
	}}, testJWTSecret)
	_, err = authService.ValidateToken(ctx, expired)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	foreign := signed(t, services.Claims{UserID: 7, StandardClaims: jwt.StandardClaims{
		Id: "jti-3", ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}}, "another secret")
	_, err = authService.ValidateToken(ctx, foreign)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
	tokens.AssertExpectations(t)
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	authService, _, tokens := newAuthService()

	exp := time.Now().Add(time.Hour).Unix()
	token := signed(t, services.Claims{UserID: 7, StandardClaims: jwt.StandardClaims{Id: "jti-9", ExpiresAt: exp}}, testJWTSecret)

	tokens.On("Revoke", ctx, "jti-9", time.Unix(exp, 0)).Return(nil).Once()
	require.NoError(t, authService.Logout(ctx, token))
	tokens.AssertExpectations(t)
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	authService, mockRepo, _ := newAuthService()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.MinCost)
	user := &models.User{ID: 3, Password: string(hashed)}

	mockRepo.On("GetByID", ctx, uint(3)).Return(user, nil).Twice()
	err := authService.ChangePassword(ctx, 3, "not-it", "new-password")
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "current_password")

	mockRepo.On("UpdatePassword", ctx, uint(3), mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("new-password")) == nil
	})).Return(nil).Once()
	require.NoError(t, authService.ChangePassword(ctx, 3, "old-password", "new-password"))
	mockRepo.AssertExpectations(t)
}
