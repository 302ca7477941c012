package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "user-crud-api/internal/domain/user"
	usecase "user-crud-api/internal/usecase/user"
	apperrors "user-crud-api/pkg/errors"
	"user-crud-api/pkg/logger"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  usecase.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc usecase.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// logger returns the handler logger enriched with the request id placed
// in the context by the logging middleware.
func (h *UserHandler) logger(c *gin.Context) *zap.Logger {
	return logger.WithContext(c.Request.Context(), h.log)
}

// UserRequest represents the HTTP request body for creating or updating a user
type UserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   *int64 `json:"age"`
}

// UserResponse represents the HTTP response for user data.
// Age serializes as null when absent; updated_at is omitted until set.
type UserResponse struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Age       *int64     `json:"age"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// UserIdentity is the terminal state returned after a delete
type UserIdentity struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ListResponse is the envelope for the list endpoint
type ListResponse struct {
	Success bool           `json:"success"`
	Count   int            `json:"count"`
	Data    []UserResponse `json:"data"`
}

// DataResponse is the envelope for single-entity responses
type DataResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

// ErrorResponse is the envelope for error responses
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Path    string `json:"path,omitempty"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.uc.ListUsers(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	data := make([]UserResponse, len(users))
	for i := range users {
		data[i] = toUserResponse(&users[i])
	}

	c.JSON(http.StatusOK, ListResponse{
		Success: true,
		Count:   len(data),
		Data:    data,
	})
}

// GetUser handles GET /api/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	u, err := h.uc.GetUser(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, DataResponse{
		Success: true,
		Data:    toUserResponse(u),
	})
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger(c).Warn("invalid create user request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	u, err := h.uc.CreateUser(c.Request.Context(), usecase.CreateUserInput{
		Name:  req.Name,
		Email: req.Email,
		Age:   req.Age,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, DataResponse{
		Success: true,
		Message: "User created successfully",
		Data:    toUserResponse(u),
	})
}

// UpdateUser handles PUT /api/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger(c).Warn("invalid update user request body", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	u, err := h.uc.UpdateUser(c.Request.Context(), id, usecase.UpdateUserInput{
		Name:  req.Name,
		Email: req.Email,
		Age:   req.Age,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, DataResponse{
		Success: true,
		Message: "User updated successfully",
		Data:    toUserResponse(u),
	})
}

// DeleteUser handles DELETE /api/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	u, err := h.uc.DeleteUser(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, DataResponse{
		Success: true,
		Message: "User deleted successfully",
		Data: UserIdentity{
			ID:    u.ID,
			Name:  u.Name,
			Email: u.Email,
		},
	})
}

// parseID reads the :id path parameter. A non-numeric id answers 400
// directly rather than reaching storage.
func (h *UserHandler) parseID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.logger(c).Warn("invalid user id", zap.String("id", idStr), zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid user id",
		})
		return 0, false
	}
	return id, true
}

// handleError converts usecase errors to the uniform error envelope.
// Typed errors carry their own status and message; anything else is a
// generic 500, logged with full detail but never echoed to the client.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	var statuser apperrors.HTTPStatuser
	if errors.As(err, &statuser) {
		status := statuser.HTTPStatus()
		if status >= http.StatusInternalServerError {
			h.logger(c).Error("internal error in request handler", zap.Error(err))
			c.JSON(status, ErrorResponse{Error: "Internal server error"})
			return
		}
		c.JSON(status, ErrorResponse{
			Error: err.Error(),
		})
		return
	}

	h.logger(c).Error("unhandled error in request handler", zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error: "Internal server error",
	})
}
