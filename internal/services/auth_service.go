package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"foodgram/internal/models"
	"foodgram/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const invalidCredentials = "Unable to log in with provided credentials."

// Claims is the payload of an auth token. StandardClaims.Id is the token id used for logout.
type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.StandardClaims
}

// AuthService handles registration, login, logout and password changes.
type AuthService struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.TokenRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, tokenRepo repositories.TokenRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// RegisterUser validates uniqueness, hashes the password and saves the user.
func (s *AuthService) RegisterUser(ctx context.Context, user *models.User) error {
	verr := &ValidationError{}
	if strings.EqualFold(user.Username, models.ReservedUsername) {
		verr.Add("username", fmt.Sprintf("Username %q is reserved.", user.Username))
	}
	if _, err := s.userRepo.GetByUsername(ctx, user.Username); err == nil {
		verr.Add("username", "A user with that username already exists.")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	if _, err := s.userRepo.GetByEmail(ctx, user.Email); err == nil {
		verr.Add("email", "A user with that email already exists.")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	hashed, err := HashPassword(user.Password)
	if err != nil {
		return err
	}
	user.Password = hashed

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return NewValidationError(NonFieldErrors, "A user with that username or email already exists.")
		}
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// LoginUser authenticates by email and returns a signed token.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", NewValidationError(NonFieldErrors, invalidCredentials)
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", NewValidationError(NonFieldErrors, invalidCredentials)
	}

	now := s.now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.New().String(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.tokenTTL).Unix(),
		},
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

func (s *AuthService) parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Id == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateToken parses a token and rejects revoked ones.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}
	revoked, err := s.tokenRepo.IsRevoked(ctx, claims.Id)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("%w: token was revoked", ErrInvalidToken)
	}
	return claims, nil
}

// Authenticate resolves a token to its user.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", ErrInvalidToken)
		}
		return nil, err
	}
	return user, nil
}

// Logout revokes the token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.parse(tokenString)
	if err != nil {
		return err
	}
	return s.tokenRepo.Revoke(ctx, claims.Id, time.Unix(claims.ExpiresAt, 0))
}

// ChangePassword checks the current password before storing the new one.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return translateRepoErr(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return NewValidationError("current_password", "Invalid password.")
	}
	hashed, err := HashPassword(next)
	if err != nil {
		return err
	}
	return translateRepoErr(s.userRepo.UpdatePassword(ctx, userID, hashed))
}

// PurgeRevoked forgets revocations of tokens that have expired on their own.
func (s *AuthService) PurgeRevoked(ctx context.Context) {
	n, err := s.tokenRepo.PurgeExpired(ctx, s.now())
	if err != nil {
		slog.WarnContext(ctx, "failed to purge revoked tokens", "error", err)
		return
	}
	if n > 0 {
		slog.InfoContext(ctx, "purged revoked tokens", "count", n)
	}
}

// translateRepoErr maps repository sentinels onto service errors.
func translateRepoErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
