package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"route-planner/internal/models"
	emailSvc "route-planner/pkg/email"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// tokenTTL is how long an issued access token stays valid.
const tokenTTL = 24 * time.Hour

// ServiceInterface defines methods for user business logic.
type ServiceInterface interface {
	Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)

	GetUserProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, userID string, data models.UserUpdateData) (*models.User, error)
}

type Service struct {
	userRepo        RepositoryInterface
	emailer         emailSvc.ServiceInterface // nil disables the welcome email
	templateManager *emailSvc.TemplateManager
	jwtSecret       string
	clientOrigin    string // link target in emails
	log             *zap.Logger
	now             func() time.Time
}

func NewService(
	userRepo RepositoryInterface,
	emailer emailSvc.ServiceInterface,
	tm *emailSvc.TemplateManager,
	jwtSecret string,
	clientOrigin string,
	logger *zap.Logger,
) ServiceInterface {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		userRepo:        userRepo,
		emailer:         emailer,
		templateManager: tm,
		jwtSecret:       jwtSecret,
		clientOrigin:    clientOrigin,
		log:             logger,
		now:             time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates the account and logs the user straight in.
func (s *Service) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	email := normalizeEmail(req.Email)

	// 1. Check if user with that email already exists
	_, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("service.Signup.FindByEmail: %w", err)
	}
	if err == nil {
		return nil, models.ErrConflict
	}

	// 2. Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("service.Signup.HashPassword: %w", err)
	}

	// 3. Create the user; a concurrent signup still surfaces as ErrConflict
	createdUser, err := s.userRepo.Create(ctx, &models.User{
		Nickname:     strings.TrimSpace(req.Nickname),
		Email:        email,
		PasswordHash: string(hashedPassword),
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("service.Signup.CreateUser: %w", err)
	}

	s.sendWelcome(createdUser)
	return s.generateAuthResponse(createdUser)
}

func (s *Service) sendWelcome(user *models.User) {
	if s.emailer == nil || s.templateManager == nil {
		return
	}
	htmlContent, err := s.templateManager.GenerateWelcomeEmailHTML(emailSvc.TemplateData{
		Name: user.Nickname,
		Link: s.clientOrigin + "/planner",
	})
	if err != nil {
		s.log.Error("failed to generate welcome email", zap.Error(err))
		return
	}
	plainTextContent := fmt.Sprintf("Welcome, %s! Start planning your first trip: %s/planner", user.Nickname, s.clientOrigin)

	go func(to string) {
		// Run in a goroutine so it doesn't block the signup response
		if err := s.emailer.SendEmail(context.Background(), to, "Welcome aboard!", plainTextContent, htmlContent); err != nil {
			s.log.Warn("failed to send welcome email", zap.String("to", to), zap.Error(err))
		}
	}(user.Email)
}

// private helper function to generate AuthResponse
func (s *Service) generateAuthResponse(user *models.User) (*models.AuthResponse, error) {
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(s.now().Add(tokenTTL)),
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenSignedString, err := accessToken.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	user.PasswordHash = "" // Do NOT send sensitive info back

	return &models.AuthResponse{
		AccessToken: tokenSignedString,
		User:        user,
	}, nil
}

func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	userWithHash, err := s.userRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("service.Login.FindByEmail: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userWithHash.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	return s.generateAuthResponse(userWithHash)
}

func (s *Service) GetUserProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.GetUserProfile: %w", err)
	}
	return user, nil
}

func (s *Service) UpdateUserProfile(ctx context.Context, userID string, data models.UserUpdateData) (*models.User, error) {
	if data.Nickname != nil {
		trimmed := strings.TrimSpace(*data.Nickname)
		data.Nickname = &trimmed
	}
	updatedUser, err := s.userRepo.Update(ctx, userID, data)
	if err != nil {
		return nil, fmt.Errorf("service.UpdateUserProfile: %w", err)
	}
	return updatedUser, nil
}
