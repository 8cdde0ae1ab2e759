package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mobypark/internal/models"
	"mobypark/internal/password"
	"mobypark/internal/repository"
	"mobypark/internal/sessions"
)

var (
	// ErrUsernameTaken is returned when registering a duplicate username.
	ErrUsernameTaken = errors.New("auth: username already taken")
	// ErrInvalidCredentials represents login failure.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrInvalidToken represents logout with an unknown session token.
	ErrInvalidToken = errors.New("auth: invalid session token")
)

// UserRepository defines the storage contract used by the auth service.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
}

// TokenStore is the session-token collaborator (redis-backed in prod).
type TokenStore interface {
	Save(ctx context.Context, token string, identity sessions.Identity) error
	Resolve(ctx context.Context, token string) (*sessions.Identity, error)
	Delete(ctx context.Context, token string) error
}

// AuthService contains registration, login and profile logic.
type AuthService struct {
	repo   UserRepository
	hasher password.Hasher
	tokens TokenStore
	logger *zap.Logger
}

// NewAuthService builds AuthService.
func NewAuthService(repo UserRepository, hasher password.Hasher, tokens TokenStore, logger *zap.Logger) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

// RegisterInput carries the registration payload.
type RegisterInput struct {
	Username string
	Password string
	Name     string
	Email    string
	Phone    string
	Role     string
}

// Register validates and creates a new account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := validateUsername(in.Username); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	if err := validateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := validatePhone(in.Phone); err != nil {
		return nil, err
	}
	role := strings.ToUpper(strings.TrimSpace(in.Role))
	if role == "" {
		role = models.RoleUser
	}
	if err := validateRole(role); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByUsername(ctx, in.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:  in.Username,
		Password:  hash,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Role:      role,
		BirthYear: 1990,
		Active:    true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login authenticates by username or email and issues an opaque session
// token. Legacy MD5 hashes rehash to bcrypt on first successful login.
func (s *AuthService) Login(ctx context.Context, usernameOrEmail, pass string) (string, *models.User, error) {
	usernameOrEmail = strings.TrimSpace(usernameOrEmail)
	if usernameOrEmail == "" || pass == "" {
		return "", nil, ErrInvalidCredentials
	}

	user, err := s.lookup(ctx, usernameOrEmail)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	needsUpgrade, err := s.hasher.Compare(user.Password, pass)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if needsUpgrade {
		if newHash, hashErr := s.hasher.Hash(pass); hashErr == nil {
			if upErr := s.repo.UpdatePassword(ctx, user.ID, newHash); upErr != nil {
				s.logger.Warn("password upgrade failed", zap.Int64("user_id", user.ID), zap.Error(upErr))
			}
		}
	}

	token := uuid.NewString()
	identity := sessions.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Name:     user.Name,
		Role:     user.Role,
	}
	if err := s.tokens.Save(ctx, token, identity); err != nil {
		return "", nil, err
	}

	s.logger.Info("user logged in", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return token, user, nil
}

func (s *AuthService) lookup(ctx context.Context, usernameOrEmail string) (*models.User, error) {
	if strings.Contains(usernameOrEmail, "@") {
		user, err := s.repo.GetByEmail(ctx, usernameOrEmail)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
	}
	return s.repo.GetByUsername(ctx, usernameOrEmail)
}

// Logout revokes a session token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if _, err := s.tokens.Resolve(ctx, token); err != nil {
		if errors.Is(err, sessions.ErrTokenNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	return s.tokens.Delete(ctx, token)
}

// Profile returns the caller's account.
func (s *AuthService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	return s.repo.GetByID(ctx, userID)
}

// ProfileUpdate carries optional profile changes; nil fields stay as-is.
type ProfileUpdate struct {
	Name     *string
	Password *string
	Role     *string
	Email    *string
	Phone    *string
}

// UpdateProfile applies validated changes to the caller's account. Role
// changes require the caller to already hold ADMIN.
func (s *AuthService) UpdateProfile(ctx context.Context, identity sessions.Identity, updates ProfileUpdate) error {
	user, err := s.repo.GetByID(ctx, identity.UserID)
	if err != nil {
		return err
	}

	if updates.Password != nil {
		if err := validatePassword(*updates.Password); err != nil {
			return err
		}
		hash, err := s.hasher.Hash(*updates.Password)
		if err != nil {
			return err
		}
		user.Password = hash
	}
	if updates.Email != nil {
		if err := validateEmail(*updates.Email); err != nil {
			return err
		}
		user.Email = *updates.Email
	}
	if updates.Phone != nil {
		if err := validatePhone(*updates.Phone); err != nil {
			return err
		}
		user.Phone = *updates.Phone
	}
	if updates.Role != nil {
		role := strings.ToUpper(strings.TrimSpace(*updates.Role))
		if err := validateRole(role); err != nil {
			return err
		}
		if identity.Role == models.RoleAdmin {
			user.Role = role
		}
	}
	if updates.Name != nil {
		user.Name = *updates.Name
	}

	return s.repo.Update(ctx, user)
}
