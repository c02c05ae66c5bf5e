package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Stepheeeen/flairecosystem/internal/models"
	"github.com/Stepheeeen/flairecosystem/internal/repositories"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrTokenInvalid       = errors.New("token is invalid or expired")
)

const (
	resetTokenTTL        = time.Hour
	verificationTokenTTL = 24 * time.Hour
)

// AuthService handles signup, login and the token-based email flows.
type AuthService interface {
	Signup(ctx context.Context, name, email, password string, companyID *uuid.UUID) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	// ForgotPassword always succeeds from the caller's point of view so
	// the endpoint cannot be used to probe which emails exist.
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	VerifyEmail(ctx context.Context, token string) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, name string) (*models.User, error)
	IssueToken(user *models.User) (string, error)
}

// TokenClaims represents JWT claims
type TokenClaims struct {
	Role      string  `json:"role"`
	CompanyID *string `json:"company_id,omitempty"`
	jwt.RegisteredClaims
}

type authService struct {
	userRepo  repositories.UserRepository
	mailer    MailerService
	jwtSecret []byte
	tokenTTL  time.Duration
	baseURL   string
}

func NewAuthService(userRepo repositories.UserRepository, mailer MailerService, jwtSecret string, tokenTTL time.Duration, baseURL string) AuthService {
	return &authService{
		userRepo:  userRepo,
		mailer:    mailer,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

func (s *authService) Signup(ctx context.Context, name, email, password string, companyID *uuid.UUID) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if existing, err := s.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	} else if err != nil && err != pgx.ErrNoRows {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	token := generateSecureToken()
	expiry := time.Now().Add(verificationTokenTTL)

	user := &models.User{
		ID:                      uuid.New(),
		Name:                    name,
		Email:                   email,
		PasswordHash:            string(hash),
		Role:                    models.RoleCustomer,
		CompanyID:               companyID,
		EmailVerified:           false,
		VerificationToken:       &token,
		VerificationTokenExpiry: &expiry,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	verifyURL := fmt.Sprintf("%s/verify-email?token=%s", s.baseURL, token)
	if err := s.mailer.Send(ctx, email, "Verify your email",
		fmt.Sprintf("Hi %s, confirm your email address by visiting %s. The link expires in 24 hours.", name, verifyURL)); err != nil {
		log.Printf("WARN: verification email to %s not delivered: %v", email, err)
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if err == pgx.ErrNoRows {
			// Indistinguishable from the found case.
			return nil
		}
		log.Printf("WARN: forgot-password lookup failed: %v", err)
		return nil
	}

	token := generateSecureToken()
	if err := s.userRepo.SetResetToken(ctx, user.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
		log.Printf("WARN: failed to store reset token for %s: %v", user.ID, err)
		return nil
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, token)
	if err := s.mailer.Send(ctx, user.Email, "Reset your password",
		fmt.Sprintf("Hi %s, reset your password by visiting %s. The link expires in 1 hour.", user.Name, resetURL)); err != nil {
		log.Printf("WARN: reset email to %s not delivered: %v", user.Email, err)
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.userRepo.GetByResetToken(ctx, token)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrTokenInvalid
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}
	return s.userRepo.ClearResetToken(ctx, user.ID)
}

func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.userRepo.GetByVerificationToken(ctx, token)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrTokenInvalid
		}
		return err
	}
	return s.userRepo.MarkEmailVerified(ctx, user.ID)
}

func (s *authService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, name string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = strings.TrimSpace(name)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// IssueToken signs a JWT carrying the user's role and company.
func (s *authService) IssueToken(user *models.User) (string, error) {
	now := time.Now()

	var companyID *string
	if user.CompanyID != nil {
		id := user.CompanyID.String()
		companyID = &id
	}

	claims := TokenClaims{
		Role:      user.Role,
		CompanyID: companyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "flair-auth",
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT: %v", err)
	}
	return signed, nil
}

// generateSecureToken returns a 32-byte random token in hex.
func generateSecureToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	return hex.EncodeToString(b)
}
