package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/employee-directory/internal/apierror"
	"github.com/dtroode/employee-directory/internal/logger"
	"github.com/dtroode/employee-directory/internal/model"
)

// AuthService registers and logs in users.
type AuthService interface {
	Signup(ctx context.Context, params model.SignupParams) (uuid.UUID, error)
	Login(ctx context.Context, params model.LoginParams) (model.LoginResult, error)
}

// Auth handles the signup and login routes.
type Auth struct {
	service AuthService
	logger  *logger.Logger
}

// NewAuth creates an Auth handler.
func NewAuth(service AuthService, logger *logger.Logger) *Auth {
	return &Auth{
		service: service,
		logger:  logger,
	}
}

type signupResponse struct {
	Message string    `json:"message"`
	UserID  uuid.UUID `json:"user_id"`
}

type loginResponse struct {
	Message string         `json:"message"`
	Token   string         `json:"token"`
	User    model.Identity `json:"user"`
}

// Signup handles POST /users/signup.
func (h *Auth) Signup(c *gin.Context) {
	fields, _, err := readFields(c, 0)
	if err != nil {
		handleError(c, h.logger, "Auth handler: failed to read body", err)
		return
	}
	if err := signupRules.Run(fields); err != nil {
		handleError(c, h.logger, "", apierror.NewErrBadRequest(err.Error()))
		return
	}

	params := model.SignupParams{
		Username: fields["username"],
		Email:    fields["email"],
		Password: fields["password"],
	}

	userID, err := h.service.Signup(c.Request.Context(), params)
	if err != nil {
		handleError(c, h.logger, "Auth handler: signup failed", err)
		return
	}

	c.JSON(http.StatusCreated, signupResponse{
		Message: "User created successfully",
		UserID:  userID,
	})
}

// Login handles POST /users/login. The "email" field may hold a username;
// "username" is accepted as an alias.
func (h *Auth) Login(c *gin.Context) {
	fields, _, err := readFields(c, 0)
	if err != nil {
		handleError(c, h.logger, "Auth handler: failed to read body", err)
		return
	}
	if !fields.Has("email") && fields.Has("username") {
		fields["email"] = fields["username"]
	}
	if err := loginRules.Run(fields); err != nil {
		handleError(c, h.logger, "", apierror.NewErrBadRequest(err.Error()))
		return
	}

	result, err := h.service.Login(c.Request.Context(), model.LoginParams{
		Login:    fields["email"],
		Password: fields["password"],
	})
	if err != nil {
		handleError(c, h.logger, "Auth handler: login failed", err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Message: "Login successful",
		Token:   result.Token,
		User:    result.User,
	})
}
