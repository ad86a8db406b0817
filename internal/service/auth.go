package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/library-server/internal/logger"
	"github.com/dtroode/library-server/internal/model"
	"github.com/dtroode/library-server/internal/validator"
)

const (
	minPasswordLength = 6
	// bcrypt refuses longer input.
	maxPasswordLength = 72
)

type Auth struct {
	userStore            model.UserStore
	tokenManager         model.TokenManager
	logger               *logger.Logger
	allowLibrarianSignup bool
	hashCost             int
}

func NewAuth(
	userStore model.UserStore,
	tokenManager model.TokenManager,
	logger *logger.Logger,
	allowLibrarianSignup bool,
) *Auth {
	return &Auth{
		userStore:            userStore,
		tokenManager:         tokenManager,
		logger:               logger,
		allowLibrarianSignup: allowLibrarianSignup,
		hashCost:             bcrypt.DefaultCost,
	}
}

var passwordTooLong = fmt.Sprintf("Password is too long (maximum is %d characters)", maxPasswordLength)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user and signs them in. Librarian accounts can only be
// self-registered when the server allows it.
func (a *Auth) Register(ctx context.Context, params model.RegisterParams) (model.Session, error) {
	email := normalizeEmail(params.Email)
	a.logger.Debug("Auth service: registering user", "email", email, "role", params.Role)

	v := validator.New()
	v.Check(email != "", "email", "Email can't be blank")
	v.Check(email == "" || validator.Matches(email, validator.EmailRX), "email", "Email is invalid")
	v.Check(params.Password != "", "password", "Password can't be blank")
	v.Check(params.Password == "" || len(params.Password) >= minPasswordLength, "password",
		fmt.Sprintf("Password is too short (minimum is %d characters)", minPasswordLength))
	v.Check(len(params.Password) <= maxPasswordLength, "password", passwordTooLong)

	role, err := model.ParseRole(params.Role)
	v.Check(err == nil, "role", "Role is not included in the list")
	if err == nil && role == model.RoleLibrarian && !a.allowLibrarianSignup {
		v.AddError("role", model.MsgLibrarianSignupClose)
	}

	if v.Valid() {
		_, err := a.userStore.GetByEmail(ctx, email)
		switch {
		case err == nil:
			v.AddError("email", model.MsgEmailTaken)
		case !errors.Is(err, model.ErrNotFound):
			return model.Session{}, fmt.Errorf("failed to get user by email: %w", err)
		}
	}
	if err := v.Err(); err != nil {
		a.logger.Info("Auth service: registration rejected", "email", email, "error", err.Error())
		return model.Session{}, err
	}

	user, err := a.createUser(ctx, email, params.Password, role)
	if err != nil {
		return model.Session{}, err
	}

	session, err := a.session(user)
	if err != nil {
		return model.Session{}, err
	}

	a.logger.Info("Auth service: user registered", "user_id", user.ID, "role", user.Role)
	return session, nil
}

// CreateLibrarian provisions a librarian account regardless of the signup setting.
func (a *Auth) CreateLibrarian(ctx context.Context, email, password string) (model.User, error) {
	email = normalizeEmail(email)

	v := validator.New()
	v.Check(validator.Matches(email, validator.EmailRX), "email", "Email is invalid")
	v.Check(len(password) >= minPasswordLength, "password",
		fmt.Sprintf("Password is too short (minimum is %d characters)", minPasswordLength))
	v.Check(len(password) <= maxPasswordLength, "password", passwordTooLong)
	if err := v.Err(); err != nil {
		return model.User{}, err
	}

	user, err := a.createUser(ctx, email, password, model.RoleLibrarian)
	if err != nil {
		return model.User{}, err
	}

	a.logger.Info("Auth service: librarian created", "user_id", user.ID)
	return user, nil
}

func (a *Auth) createUser(ctx context.Context, email, password string, role model.Role) (model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.hashCost)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := a.userStore.Create(ctx, model.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
	if errors.Is(err, model.ErrDuplicateEmail) {
		return model.User{}, model.NewValidationError(model.MsgEmailTaken)
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create user", "email", email, "error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (a *Auth) Login(ctx context.Context, email, password string) (model.Session, error) {
	email = normalizeEmail(email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		a.logger.Info("Auth service: login for unknown email", "email", email)
		return model.Session{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		a.logger.Info("Auth service: wrong password", "user_id", user.ID)
		return model.Session{}, model.ErrInvalidCredentials
	}

	session, err := a.session(user)
	if err != nil {
		return model.Session{}, err
	}

	a.logger.Debug("Auth service: user logged in", "user_id", user.ID)
	return session, nil
}

// Logout acknowledges the caller. Tokens are stateless and simply expire.
func (a *Auth) Logout(ctx context.Context, identity model.Identity) error {
	a.logger.Debug("Auth service: user logged out", "user_id", identity.UserID)
	return nil
}

// Authenticate resolves a bearer token into the caller's identity.
func (a *Auth) Authenticate(ctx context.Context, token string) (model.Identity, error) {
	claims, err := a.tokenManager.ParseAccessToken(token)
	if err != nil {
		return model.Identity{}, err
	}

	user, err := a.userStore.GetByID(ctx, claims.UserID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Identity{}, fmt.Errorf("%w: user no longer exists", model.ErrUnauthorized)
	}
	if err != nil {
		return model.Identity{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return model.Identity{UserID: user.ID, Role: user.Role}, nil
}

func (a *Auth) session(user model.User) (model.Session, error) {
	token, err := a.tokenManager.GenerateAccessToken(user)
	if err != nil {
		a.logger.Error("Auth service: failed to generate access token", "user_id", user.ID, "error", err.Error())
		return model.Session{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	return model.Session{User: user, AccessToken: token}, nil
}
