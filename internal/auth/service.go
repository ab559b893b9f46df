package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mrlokans/lingua/internal/config"
	"github.com/mrlokans/lingua/internal/database/resets"
	"github.com/mrlokans/lingua/internal/database/users"
	"github.com/mrlokans/lingua/internal/docstore"
	"github.com/mrlokans/lingua/internal/entities"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var (
	ErrUserNotFound      = users.ErrUserNotFound
	ErrUserExists        = errors.New("user already exists")
	ErrInvalidRole       = errors.New("invalid role")
	ErrEmailRequired     = errors.New("email is required")
	ErrPasswordRequired  = errors.New("password is required")
	ErrEmailInvalid      = errors.New("invalid email format")
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
)

// UserStore is the subset of the users repository the service needs.
type UserStore interface {
	Create(ctx context.Context, user *entities.User) (docstore.InsertResult, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

type ResetStore interface {
	Create(ctx context.Context, reset *entities.PasswordReset) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*entities.PasswordReset, error)
	Delete(ctx context.Context, id string) error
}

// ResetNotifier delivers the plaintext reset token to the user.
type ResetNotifier interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// RegisterInput carries the fields accepted by Register.
type RegisterInput struct {
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Img      string        `json:"img"`
	Password string        `json:"password"`
	Role     entities.Role `json:"role"`
}

// Service handles registration, login and password resets.
type Service struct {
	users    UserStore
	resets   ResetStore
	tokens   *TokenIssuer
	notifier ResetNotifier
	config   config.Auth
	now      func() time.Time
}

func NewService(users UserStore, resets ResetStore, tokens *TokenIssuer, cfg config.Auth) *Service {
	cfg.BcryptCost = normalizeCost(cfg.BcryptCost)
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = 30 * time.Minute
	}
	return &Service{
		users:  users,
		resets: resets,
		tokens: tokens,
		config: cfg,
		now:    time.Now,
	}
}

// SetResetNotifier sets how reset tokens reach users. Without a notifier
// resets are stored but never delivered.
func (s *Service) SetResetNotifier(n ResetNotifier) {
	s.notifier = n
}

// Register validates input and creates a user with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entities.User, docstore.InsertResult, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, docstore.InsertResult{}, ErrEmailRequired
	}
	if in.Password == "" {
		return nil, docstore.InsertResult{}, ErrPasswordRequired
	}
	// RFC 5321 limit is 254
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return nil, docstore.InsertResult{}, ErrEmailInvalid
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, docstore.InsertResult{}, err
	}

	role := in.Role
	if role == "" {
		role = entities.RoleUser
	}
	if !role.Valid() {
		return nil, docstore.InsertResult{}, ErrInvalidRole
	}

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, docstore.InsertResult{}, ErrUserExists
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, docstore.InsertResult{}, fmt.Errorf("failed to check existing user: %w", err)
	}

	passwordHash, err := HashPassword(in.Password, s.config.BcryptCost)
	if err != nil {
		return nil, docstore.InsertResult{}, err
	}

	user := &entities.User{
		Name:         in.Name,
		Email:        email,
		Img:          in.Img,
		Role:         role,
		PasswordHash: passwordHash,
	}
	res, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, docstore.InsertResult{}, fmt.Errorf("failed to create user: %w", err)
	}
	return user, res, nil
}

// Login checks credentials and returns the user with a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (*entities.User, string, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, "", err
	}
	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return nil, "", err
	}
	if NeedsRehash(user.PasswordHash, s.config.BcryptCost) {
		s.rehash(ctx, user, password)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// rehash upgrades a stored hash to the configured cost. Failures are logged
// and the login still succeeds.
func (s *Service) rehash(ctx context.Context, user *entities.User, password string) {
	hash, err := HashPassword(password, s.config.BcryptCost)
	if err == nil {
		err = s.users.UpdatePassword(ctx, user.Email, hash)
	}
	if err != nil {
		log.WithError(err).WithField("email", user.Email).Warn("Failed to upgrade password hash")
		return
	}
	user.PasswordHash = hash
}

// ValidateToken parses a token issued by Login.
func (s *Service) ValidateToken(token string) (*Claims, error) {
	return s.tokens.Parse(token)
}

// CurrentUser returns the account behind an authenticated request.
func (s *Service) CurrentUser(ctx context.Context, email string) (*entities.User, error) {
	return s.users.GetByEmail(ctx, email)
}

// RequestPasswordReset stores a reset for email and hands the token to the
// notifier. Unknown emails are not an error so callers cannot probe for
// accounts.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			log.WithField("email", email).Debug("Password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, hash, err := GenerateResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	reset := &entities.PasswordReset{
		Email:     user.Email,
		TokenHash: hash,
		ExpiresAt: s.now().Add(s.config.ResetTTL).UTC(),
	}
	if err := s.resets.Create(ctx, reset); err != nil {
		return fmt.Errorf("failed to store password reset: %w", err)
	}

	if s.notifier == nil {
		log.WithField("email", user.Email).Warn("No reset notifier configured, reset email not sent")
		return nil
	}
	if err := s.notifier.SendPasswordReset(ctx, user.Email, token); err != nil {
		return fmt.Errorf("failed to send password reset: %w", err)
	}
	return nil
}

// ResetPassword consumes a reset token and sets a new password.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return ErrInvalidResetToken
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	reset, err := s.resets.FindByTokenHash(ctx, HashToken(token))
	if err != nil {
		if errors.Is(err, resets.ErrResetNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}
	if reset.IsExpired(s.now()) {
		_ = s.resets.Delete(ctx, reset.ID)
		return ErrInvalidResetToken
	}

	passwordHash, err := HashPassword(newPassword, s.config.BcryptCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, reset.Email, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if err := s.resets.Delete(ctx, reset.ID); err != nil {
		return fmt.Errorf("failed to delete password reset: %w", err)
	}
	return nil
}
