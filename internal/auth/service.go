package auth

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/anstrom/escudo/internal/db"
	"github.com/anstrom/escudo/internal/errors"
	"github.com/anstrom/escudo/internal/logging"
)

//go:generate mockgen -destination=mocks/mock_user_store.go -package=mocks github.com/anstrom/escudo/internal/auth UserStore

// UserStore is the account storage used by Service. db.UserRepository
// implements it.
type UserStore interface {
	Create(ctx context.Context, email, hashedPassword string) (*db.User, error)
	GetByEmail(ctx context.Context, email string) (*db.User, error)
	GetByID(ctx context.Context, id int64) (*db.User, error)
	Delete(ctx context.Context, id int64) error
}

// Identity is the authenticated caller. UserID is the owner key for scan
// results.
type Identity struct {
	UserID int64
	Email  string
}

// Token is a freshly issued access token.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Service handles signup, login and bearer token resolution.
type Service struct {
	users    UserStore
	tokens   *TokenManager
	validate *validator.Validate
	logger   *logging.Logger
}

// NewService creates an auth service.
func NewService(users UserStore, tokens *TokenManager, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		users:    users,
		tokens:   tokens,
		validate: validator.New(),
		logger:   logger.WithComponent("auth"),
	}
}

// Signup registers a new account. A malformed email or a password shorter
// than MinPasswordLength is CodeValidation; an existing email is
// CodeConflict.
func (s *Service) Signup(ctx context.Context, email, password string) (*db.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.validate.Var(email, "required,email,max=255"); err != nil {
		return nil, errors.WrapAuthError(errors.CodeValidation, "A valid email address is required", err)
	}
	if len(password) < MinPasswordLength {
		return nil, errors.NewAuthError(errors.CodeValidation, "Password must be at least 6 characters")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, errors.WrapAuthError(errors.CodeUnknown, "Failed to process password", err)
	}

	user, err := s.users.Create(ctx, email, hash)
	if err != nil {
		if errors.IsConflict(err) {
			return nil, errors.NewAuthError(errors.CodeConflict, "Email already registered")
		}
		return nil, err
	}

	s.logger.Info("User registered", "user_id", user.ID)
	return user, nil
}

// Login verifies the credentials and issues an access token. Unknown emails
// and wrong passwords fail identically.
func (s *Service) Login(ctx context.Context, email, password string) (*Token, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, s.badCredentials()
		}
		return nil, err
	}
	if !CheckPassword(password, user.HashedPassword) {
		return nil, s.badCredentials()
	}

	signed, _, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, errors.WrapAuthError(errors.CodeUnknown, "Failed to issue token", err)
	}
	return &Token{AccessToken: signed, TokenType: TokenType}, nil
}

func (s *Service) badCredentials() error {
	s.logger.WarnAuth("Login rejected")
	return errors.NewAuthError(errors.CodeUnauthorized, "Incorrect email or password")
}

// Authenticate resolves a bearer token to an identity. The token must verify
// and its uid and subject must both name the same existing user.
func (s *Service) Authenticate(ctx context.Context, token string) (*Identity, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		s.logger.WarnAuth("Token rejected", "reason", err.Error())
		return nil, errors.ErrUnauthorized(err)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.IsNotFound(err) {
			s.logger.WarnAuth("Token names an unknown user", "user_id", claims.UserID)
			return nil, errors.ErrUnauthorized(nil)
		}
		return nil, err
	}
	if !strings.EqualFold(user.Email, claims.Subject) {
		s.logger.WarnAuth("Token subject does not match user", "user_id", user.ID)
		return nil, errors.ErrUnauthorized(nil)
	}

	return &Identity{UserID: user.ID, Email: user.Email}, nil
}

// DeleteUser removes an account together with its scan results.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("User deleted", "user_id", id)
	return nil
}

type identityKey struct{}

// WithIdentity returns a context carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity stored by WithIdentity.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}
