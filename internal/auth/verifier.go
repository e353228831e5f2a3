package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"github.com/justsurfingit/jobportal/internal/models"
	"github.com/justsurfingit/jobportal/internal/repository"
)

type FailureKind string

const (
	FailureInvalid   FailureKind = "invalid"
	FailureExpired   FailureKind = "expired"
	FailureMalformed FailureKind = "malformed"
)

// VerificationError is a rejected credential. Any other error returned by
// Verify is an internal failure, not an authentication outcome.
type VerificationError struct {
	Kind FailureKind
	Err  error
}

func (e *VerificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("token %s: %v", e.Kind, e.Err)
	}
	return "token " + string(e.Kind)
}

func (e *VerificationError) Unwrap() error { return e.Err }

func AsVerificationError(err error) (*VerificationError, bool) {
	var verr *VerificationError
	ok := errors.As(err, &verr)
	return verr, ok
}

// Verifier resolves a token to the stored user behind it. It never creates users.
type Verifier struct {
	tokens *TokenManager
	users  repository.UserRepository
}

func NewVerifier(tokens *TokenManager, users repository.UserRepository) *Verifier {
	return &Verifier{tokens: tokens, users: users}
}

// Verify accepts only access tokens.
func (v *Verifier) Verify(ctx context.Context, token string) (models.Identity, error) {
	return v.VerifyType(ctx, token, TokenAccess)
}

func (v *Verifier) VerifyType(ctx context.Context, token string, kind TokenType) (models.Identity, error) {
	claims, err := v.tokens.parse(token)
	if err != nil {
		return models.Identity{}, classify(err)
	}
	if claims.TokenType != kind {
		return models.Identity{}, &VerificationError{Kind: FailureInvalid, Err: fmt.Errorf("token type %q, want %q", claims.TokenType, kind)}
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return models.Identity{}, &VerificationError{Kind: FailureMalformed, Err: fmt.Errorf("subject %q", claims.Subject)}
	}

	user, err := v.users.GetByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Identity{}, &VerificationError{Kind: FailureInvalid, Err: errors.New("user not found")}
		}
		return models.Identity{}, fmt.Errorf("load user %d: %w", id, err)
	}
	if !user.IsActive {
		return models.Identity{}, &VerificationError{Kind: FailureInvalid, Err: errors.New("user inactive")}
	}
	return models.Identity{UserID: user.ID, Email: user.Email, Role: user.Role()}, nil
}

func classify(err error) *VerificationError {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return &VerificationError{Kind: FailureExpired, Err: err}
	case errors.Is(err, jwt.ErrTokenMalformed):
		return &VerificationError{Kind: FailureMalformed, Err: err}
	default:
		return &VerificationError{Kind: FailureInvalid, Err: err}
	}
}
