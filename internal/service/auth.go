package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/employee-directory/internal/apierror"
	"github.com/dtroode/employee-directory/internal/logger"
	"github.com/dtroode/employee-directory/internal/model"
)

// Auth registers users and logs them in.
type Auth struct {
	userStore    model.UserStore
	hasher       model.PasswordHasher
	tokenManager model.TokenManager
	logger       *logger.Logger
}

// NewAuth creates an Auth service.
func NewAuth(
	userStore model.UserStore,
	hasher model.PasswordHasher,
	tokenManager model.TokenManager,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		hasher:       hasher,
		tokenManager: tokenManager,
		logger:       logger,
	}
}

// Signup registers a user and returns its id.
func (a *Auth) Signup(ctx context.Context, params model.SignupParams) (uuid.UUID, error) {
	username := strings.TrimSpace(params.Username)
	email := strings.ToLower(strings.TrimSpace(params.Email))

	a.logger.Debug("Auth service: starting user registration",
		"username", username,
		"email", email)

	taken, err := a.isTaken(ctx, email, username)
	if err != nil {
		a.logger.Error("Auth service: failed to look up existing user",
			"email", email,
			"error", err.Error())
		return uuid.Nil, err
	}
	if taken {
		a.logger.Info("Auth service: user already exists",
			"username", username,
			"email", email)
		return uuid.Nil, apierror.NewErrUserExists()
	}

	hash, err := a.hasher.Hash(params.Password)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	saved, err := a.userStore.Create(ctx, user)
	if errors.Is(err, model.ErrConflict) {
		a.logger.Info("Auth service: user created concurrently",
			"username", username,
			"email", email)
		return uuid.Nil, apierror.NewErrUserExists()
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return uuid.Nil, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user registered",
		"user_id", saved.ID.String())

	return saved.ID, nil
}

// Login checks the credentials and issues a session token. Login matches
// either the email or the username.
func (a *Auth) Login(ctx context.Context, params model.LoginParams) (model.LoginResult, error) {
	login := strings.TrimSpace(params.Login)

	a.logger.Debug("Auth service: starting user login",
		"login", login)

	user, err := a.userStore.GetByLogin(ctx, login)
	if errors.Is(err, model.ErrNotFound) {
		a.logger.Info("Auth service: unknown login",
			"login", login)
		return model.LoginResult{}, apierror.NewErrInvalidCredentials()
	}
	if err != nil {
		return model.LoginResult{}, fmt.Errorf("failed to get user by login: %w", err)
	}

	err = a.hasher.Verify(user.PasswordHash, params.Password)
	if errors.Is(err, model.ErrPasswordMismatch) {
		a.logger.Info("Auth service: password mismatch",
			"user_id", user.ID.String())
		return model.LoginResult{}, apierror.NewErrInvalidCredentials()
	}
	if err != nil {
		return model.LoginResult{}, fmt.Errorf("failed to verify password: %w", err)
	}

	token, err := a.tokenManager.GenerateToken(user.ID)
	if err != nil {
		return model.LoginResult{}, fmt.Errorf("failed to generate token: %w", err)
	}

	a.logger.Info("Auth service: user logged in",
		"user_id", user.ID.String())

	return model.LoginResult{
		Token: token,
		User:  user.Identity(),
	}, nil
}

func (a *Auth) isTaken(ctx context.Context, email, username string) (bool, error) {
	_, err := a.userStore.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return false, fmt.Errorf("failed to get user by email: %w", err)
	}

	_, err = a.userStore.GetByLogin(ctx, username)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return false, fmt.Errorf("failed to get user by username: %w", err)
	}
	return false, nil
}
