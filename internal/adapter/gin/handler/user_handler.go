package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"library-service/internal/usecase/user"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// CreateUserRequest represents the HTTP request body for creating a user
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateUserRequest represents the HTTP request body for updating a user
type UpdateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	JoinedDate time.Time `json:"joinedDate"`
}

func toUserResponse(u user.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		JoinedDate: u.JoinedDate,
	}
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.uc.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = toUserResponse(u)
	}
	c.JSON(http.StatusOK, resp)
}

// GetUser handles GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	u, err := h.uc.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(*u))
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid create user request", zap.Error(err))
		c.String(http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := h.uc.CreateUser(c.Request.Context(), user.CreateUserRequest{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, toUserResponse(*u))
}

// UpdateUser handles PUT /users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid update user request", zap.Error(err))
		c.String(http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := h.uc.UpdateUser(c.Request.Context(), user.UpdateUserRequest{
		ID:    c.Param("id"),
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(*u))
}

// DeleteUser handles DELETE /users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.uc.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
