package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Skotchmaster/inventory/internal/hash"
	"github.com/Skotchmaster/inventory/internal/logging"
	"github.com/Skotchmaster/inventory/internal/models"
	"github.com/Skotchmaster/inventory/internal/repo"
	"github.com/Skotchmaster/inventory/internal/tokens"
	"github.com/Skotchmaster/inventory/internal/transport"
	"github.com/Skotchmaster/inventory/internal/validation"
)

const (
	tokenName            = "auth_token"
	msgInvalidCredential = "Invalid credentials."
	msgEmailTaken        = "The email has already been taken."
)

type AuthService struct {
	Users  UserRepository
	Tokens TokenRepository
	Issuer *tokens.Issuer
	Events EventPublisher
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user. The requested role is honored only when the
// requester is an authenticated admin; everyone else gets "user".
func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest, requester *Identity) (*models.User, error) {
	l := logging.FromContext(ctx).WithField("svc", "auth.register")

	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	if errs := validation.Struct(&req); errs != nil {
		return nil, NewValidationError(errs)
	}

	taken, err := s.Users.EmailTaken(ctx, req.Email)
	if err != nil {
		l.WithError(err).Error("register_error")
		return nil, err
	}
	if taken {
		return nil, NewConflictError("email", msgEmailTaken)
	}

	role := models.RoleUser
	if req.Role != nil && requester.IsAdmin() {
		role = *req.Role
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, hash.ErrPasswordTooLong) {
			return nil, FieldError("password", "The password field must not be greater than 72 bytes.")
		}
		l.WithError(err).Error("register_error")
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: pwHash,
		Role:         role,
	}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, NewConflictError("email", msgEmailTaken)
		}
		l.WithError(err).Error("register_error")
		return nil, err
	}

	l.WithField("user_id", user.ID).Info("register_success")
	publish(ctx, s.Events, TopicUsers, "user_registered", user.ID, user.Name)
	return user, nil
}

// Login verifies credentials and issues a new bearer token. Unknown email and
// wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (string, error) {
	l := logging.FromContext(ctx).WithField("svc", "auth.login")

	req.Email = normalizeEmail(req.Email)
	if errs := validation.Struct(&req); errs != nil {
		return "", NewValidationError(errs)
	}

	user, err := s.Users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			hash.BurnCompare(req.Password)
			l.Warn("login_failed")
			return "", NewAuthenticationError(msgInvalidCredential)
		}
		l.WithError(err).Error("login_error")
		return "", err
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("login_failed")
		return "", NewAuthenticationError(msgInvalidCredential)
	}

	issued, err := s.Issuer.Issue(user.ID)
	if err != nil {
		l.WithError(err).Error("login_error")
		return "", err
	}

	token := &models.Token{
		UserID:    user.ID,
		Name:      tokenName,
		JTI:       issued.JTI,
		TokenHash: issued.Hash,
		ExpiresAt: issued.ExpiresAt,
	}
	if err := s.Tokens.CreateToken(ctx, token); err != nil {
		l.WithError(err).Error("login_error")
		return "", err
	}

	l.WithField("user_id", user.ID).Info("login_success")
	return issued.Token, nil
}

// Authenticate resolves a presented bearer secret to the identity it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, secret string) (*Identity, error) {
	if secret == "" {
		return nil, NewAuthenticationError("")
	}

	claims, err := s.Issuer.Parse(secret)
	if err != nil {
		return nil, NewAuthenticationError("")
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, NewAuthenticationError("")
	}

	token, err := s.Tokens.GetTokenByJTI(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewAuthenticationError("")
		}
		return nil, err
	}
	if token.UserID != userID || !tokens.Matches(secret, token.TokenHash) {
		return nil, NewAuthenticationError("")
	}

	now := time.Now().UTC()
	if token.ExpiresAt != nil && now.After(*token.ExpiresAt) {
		return nil, NewAuthenticationError("")
	}

	if err := s.Tokens.TouchToken(ctx, token.ID, now); err != nil {
		logging.FromContext(ctx).WithError(err).Warn("token_touch_failed")
	}

	return &Identity{
		UserID:  token.User.ID,
		Name:    token.User.Name,
		Email:   token.User.Email,
		Role:    token.User.Role,
		TokenID: token.ID,
	}, nil
}

// Logout revokes exactly the token the caller authenticated with.
func (s *AuthService) Logout(ctx context.Context, id *Identity) error {
	if id == nil {
		return NewAuthenticationError("")
	}
	if err := s.Tokens.DeleteToken(ctx, id.TokenID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewAuthenticationError("")
		}
		return err
	}
	logging.FromContext(ctx).WithField("user_id", id.UserID).Info("logout_success")
	return nil
}

// SeedAdmin creates the bootstrap administrator unless the email is taken.
func (s *AuthService) SeedAdmin(ctx context.Context, name, email, password string) (bool, error) {
	if password == "" {
		return false, errors.New("admin password is empty")
	}
	email = normalizeEmail(email)

	taken, err := s.Users.EmailTaken(ctx, email)
	if err != nil || taken {
		return false, err
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return false, err
	}
	user := &models.User{Name: name, Email: email, PasswordHash: pwHash, Role: models.RoleAdmin}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		return false, err
	}
	return true, nil
}
