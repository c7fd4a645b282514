package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"feedbackhub/internal/model"
	"feedbackhub/internal/repository"
)

// DemoUserID is the account the demo token authenticates as
const DemoUserID = "000000000000000000000001"

const minPasswordLen = 6

var ErrInvalidToken = errors.New("invalid or expired token")

// AuthOptions configures an AuthService
type AuthOptions struct {
	JWTSecret string
	TokenTTL  time.Duration
	// DemoToken, when non-empty, authenticates as DemoUserID
	DemoToken string
	// GoogleClientID, when non-empty, must match the token audience
	GoogleClientID string
}

// AuthService handles creator accounts and tokens
type AuthService struct {
	users    repository.UserRepo
	google   GoogleVerifier
	opts     AuthOptions
	logger   *zap.Logger
	now      func() time.Time
	hashCost int
}

// NewAuthService creates a new auth service
func NewAuthService(users repository.UserRepo, google GoogleVerifier, opts AuthOptions, logger *zap.Logger) *AuthService {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 7 * 24 * time.Hour
	}
	return &AuthService{
		users:    users,
		google:   google,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
		hashCost: bcrypt.DefaultCost,
	}
}

// Register creates a local account and returns a token for it
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, newError(ErrValidation, "Email and password are required")
	}
	if len(req.Password) < minPasswordLen {
		return nil, newError(ErrValidation, "Password must be at least %d characters", minPasswordLen)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, newError(ErrValidation, "User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		AuthProvider: model.AuthProviderLocal,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(ErrValidation, "User already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", zap.String("userId", user.ID))
	return s.respond(user)
}

// Login checks a local account's password and returns a token
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, newError(ErrValidation, "Email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil || user.PasswordHash == "" {
		return nil, newError(ErrValidation, "Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, newError(ErrValidation, "Invalid credentials")
	}
	return s.respond(user)
}

// GoogleLogin verifies a Google ID token, then signs in the matching user,
// linking or creating the account as needed
func (s *AuthService) GoogleLogin(ctx context.Context, req model.GoogleLoginRequest) (*model.AuthResponse, error) {
	credential := strings.TrimSpace(req.Credential)
	if credential == "" {
		return nil, newError(ErrValidation, "Google credential is required")
	}

	identity, err := s.google.Verify(ctx, credential)
	if err != nil {
		var svcErr *Error
		if errors.As(err, &svcErr) {
			return nil, err
		}
		s.logger.Warn("google token verification failed", zap.Error(err))
		return nil, newError(ErrValidation, "Invalid Google credential")
	}
	if identity.Email == "" || identity.Subject == "" {
		return nil, newError(ErrValidation, "Invalid Google payload")
	}
	if !identity.EmailVerified {
		return nil, newError(ErrValidation, "Google email is not verified")
	}
	if s.opts.GoogleClientID != "" && identity.Audience != s.opts.GoogleClientID {
		return nil, newError(ErrValidation, "Google client mismatch")
	}

	name := identity.Name
	if name == "" {
		name, _, _ = strings.Cut(identity.Email, "@")
	}

	user, err := s.users.GetByEmail(ctx, identity.Email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		if user, err = s.users.GetByGoogleID(ctx, identity.Subject); err != nil {
			return nil, fmt.Errorf("lookup user: %w", err)
		}
	}

	if user == nil {
		user = &model.User{
			Name:         name,
			Email:        identity.Email,
			GoogleID:     identity.Subject,
			AuthProvider: model.AuthProviderGoogle,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		s.logger.Info("user registered via google", zap.String("userId", user.ID))
		return s.respond(user)
	}

	if user.GoogleID == "" {
		user.GoogleID = identity.Subject
	}
	if user.Name == "" {
		user.Name = name
	}
	user.AuthProvider = model.AuthProviderGoogle
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("link google account: %w", err)
	}
	return s.respond(user)
}

func (s *AuthService) respond(user *model.User) (*model.AuthResponse, error) {
	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &model.AuthResponse{User: user, Token: token}, nil
}

// IssueToken signs an HS256 token for userID
func (s *AuthService) IssueToken(userID string) (string, error) {
	now := s.now()
	claims := &model.UserClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.opts.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.opts.JWTSecret))
}

// ValidateToken returns the user id carried by a token
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	if s.opts.DemoToken != "" && tokenString == s.opts.DemoToken {
		return DemoUserID, nil
	}

	token, err := jwt.ParseWithClaims(tokenString, &model.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.opts.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.UserClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}
