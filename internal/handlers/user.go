package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Tourment0412/orquestador-solicitudes-micro/internal/models"
	"github.com/Tourment0412/orquestador-solicitudes-micro/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserStore is the subset of user persistence behavior needed by the handler.
type UserStore interface {
	Create(ctx context.Context, user *repository.User) error
	List(ctx context.Context) ([]repository.User, error)
	FindByEmail(ctx context.Context, email string) (*repository.User, error)
}

// UserHandler handles user CRUD requests.
type UserHandler struct {
	store UserStore
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(store UserStore) *UserHandler {
	return &UserHandler{store: store}
}

// CreateUser handles POST /api/v1/users.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	if existing, err := h.store.FindByEmail(c.Request.Context(), req.Email); err == nil && existing != nil {
		respondError(c, http.StatusConflict, "email already registered", nil)
		return
	} else if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		respondError(c, http.StatusInternalServerError, "failed to check existing user", err)
		return
	}

	user := &repository.User{
		ID:    uuid.NewString(),
		Name:  req.Name,
		Email: req.Email,
	}
	if req.Phone != "" {
		user.Phone = &req.Phone
	}

	if err := h.store.Create(c.Request.Context(), user); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create user", err)
		return
	}

	respondSuccess(c, http.StatusCreated, "user created", user)
}

// ListUsers handles GET /api/v1/users.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.store.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list users", err)
		return
	}
	respondSuccess(c, http.StatusOK, "users retrieved", users)
}
