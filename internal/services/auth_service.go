package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/justsurfingit/jobportal/internal/apperr"
	"github.com/justsurfingit/jobportal/internal/auth"
	"github.com/justsurfingit/jobportal/internal/dtos"
	"github.com/justsurfingit/jobportal/internal/models"
	"github.com/justsurfingit/jobportal/internal/repository"
)

var ErrTokenNotValid = apperr.New(apperr.KindAuthentication, "token_not_valid", "Token is invalid or expired")

// AuthService issues credentials for portal users.
type AuthService struct {
	users    repository.UserRepository
	tokens   *auth.TokenManager
	verifier *auth.Verifier
	log      logrus.FieldLogger
}

func NewAuthService(store repository.Store, tokens *auth.TokenManager, verifier *auth.Verifier, log logrus.FieldLogger) *AuthService {
	return &AuthService{users: store.Users(), tokens: tokens, verifier: verifier, log: log}
}

// ObtainPair exchanges credentials for an access and refresh token.
func (s *AuthService) ObtainPair(ctx context.Context, req dtos.TokenRequest) (*dtos.TokenPair, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	access, _, err := s.tokens.Issue(*user, auth.TokenAccess)
	if err != nil {
		return nil, apperr.Internal("issue access token", err)
	}
	refresh, _, err := s.tokens.Issue(*user, auth.TokenRefresh)
	if err != nil {
		return nil, apperr.Internal("issue refresh token", err)
	}
	return &dtos.TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh mints a new access token. The user is reloaded so a deactivated
// account cannot refresh.
func (s *AuthService) Refresh(ctx context.Context, req dtos.RefreshRequest) (*dtos.AccessToken, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}
	identity, err := s.verifier.VerifyType(ctx, req.Refresh, auth.TokenRefresh)
	if err != nil {
		if verr, ok := auth.AsVerificationError(err); ok {
			s.log.WithField("kind", verr.Kind).Info("refresh token rejected")
			return nil, ErrTokenNotValid
		}
		return nil, apperr.Internal("verify refresh token", err)
	}
	user, err := s.users.GetByID(ctx, identity.UserID)
	if err != nil {
		return nil, apperr.Internal("load user", err)
	}
	access, _, err := s.tokens.Issue(*user, auth.TokenAccess)
	if err != nil {
		return nil, apperr.Internal("issue access token", err)
	}
	return &dtos.AccessToken{Access: access}, nil
}

// StartSession authenticates an admin login and returns a session token.
func (s *AuthService) StartSession(ctx context.Context, email, password string) (string, time.Time, error) {
	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return "", time.Time{}, err
	}
	token, expires, err := s.tokens.Issue(*user, auth.TokenSession)
	if err != nil {
		return "", time.Time{}, apperr.Internal("issue session token", err)
	}
	return token, expires, nil
}

// CreateUser registers a portal account.
func (s *AuthService) CreateUser(ctx context.Context, email, password string, staff bool) (*models.User, error) {
	email = normalizeEmail(email)
	fields := map[string][]string{}
	if email == "" {
		fields["email"] = []string{"This field is required."}
	} else if validate.Var(email, "email") != nil {
		fields["email"] = []string{"Enter a valid email address."}
	}
	if password == "" {
		fields["password"] = []string{"This field is required."}
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperr.Internal("hash password", err)
	}
	user := &models.User{Email: email, PasswordHash: hash, IsStaff: staff, IsActive: true}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperr.Field(apperr.KindConflict, "duplicate_user", "email", "user with this email already exists.")
		}
		return nil, apperr.Internal("create user", err)
	}
	return user, nil
}

func (s *AuthService) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, apperr.Internal("load user", err)
	}
	if !user.IsActive || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperr.ErrInvalidCredentials
	}
	return user, nil
}
