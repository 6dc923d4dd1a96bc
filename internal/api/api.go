package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"user-service/internal/entity"
	"user-service/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new instance of UserHandler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes mounts the user endpoints and the health check.
func (h *UserHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Health)

	g := e.Group("/api/users")
	g.GET("", h.GetAllUsers)
	g.GET("/:id", h.GetUserByID)
	g.POST("", h.CreateUser)
	g.PUT("/:id", h.UpdateUser)
	g.DELETE("/:id", h.DeleteUser)
}

// ErrorHandler renders every unhandled error as JSON. Unmatched routes come
// through here as echo's 404 and keep the {"error": "Not Found"} shape.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		msg := http.StatusText(httpErr.Code)
		if httpErr.Code == http.StatusNotFound {
			msg = "Not Found"
		}
		_ = c.JSON(httpErr.Code, map[string]string{"error": msg})
		return
	}

	_ = c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
}

// Health reports liveness --> /
func (h *UserHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "user-service API",
		"status":  "running",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// GetAllUsers lists all users --> GET /api/users
func (h *UserHandler) GetAllUsers(c echo.Context) error {
	users, err := h.userService.GetAllUsers(c.Request().Context())
	if err != nil {
		return h.renderError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// GetUserByID retrieves a user by ID --> GET /api/users/:id
func (h *UserHandler) GetUserByID(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user ID"})
	}

	user, err := h.userService.GetUserByID(c.Request().Context(), id)
	if err != nil {
		return h.renderError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// CreateUser creates a new user --> POST /api/users
func (h *UserHandler) CreateUser(c echo.Context) error {
	data := entity.NewUser{}
	if err := c.Bind(&data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
	}

	if data.Name == "" || data.Email == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Name and email are required"})
	}

	user, err := h.userService.CreateUser(c.Request().Context(), data)
	if err != nil {
		return h.renderError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

// UpdateUser applies a partial update --> PUT /api/users/:id
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user ID"})
	}

	patch := entity.UserPatch{}
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
	}

	user, err := h.userService.UpdateUser(c.Request().Context(), id, patch)
	if err != nil {
		return h.renderError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser removes a user --> DELETE /api/users/:id
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user ID"})
	}

	if err := h.userService.DeleteUser(c.Request().Context(), id); err != nil {
		return h.renderError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

// renderError maps domain errors onto status codes; everything unrecognized
// becomes an opaque 500.
func (h *UserHandler) renderError(c echo.Context, err error) error {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		body := map[string]string{"error": svcErr.Message, "code": string(svcErr.Code)}
		switch svcErr.Code {
		case service.CodeNotFound:
			return c.JSON(http.StatusNotFound, body)
		case service.CodeConflict:
			return c.JSON(http.StatusConflict, body)
		default:
			return c.JSON(http.StatusInternalServerError, body)
		}
	}

	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
}
