package handler

import (
	"log/slog"
	"net/http"
	"time"

	"taskhub/internal/delivery/http/middleware"
	"taskhub/internal/delivery/http/response"
	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type createTaskRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

type updateTaskRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

type taskView struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toTaskView(task *entity.Task) taskView {
	return taskView{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// TaskHandler holds dependencies for task handlers.
type TaskHandler struct {
	uc     usecase.TaskUsecase
	logger *slog.Logger
}

// NewTaskHandler is the constructor for TaskHandler, injected by Fx.
func NewTaskHandler(uc usecase.TaskUsecase, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		uc:     uc,
		logger: logger,
	}
}

// taskID parses the :id path parameter. An unparsable id behaves like a
// missing task rather than a malformed request, so ids stay opaque to clients.
func taskID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, domainerrors.ErrTaskNotFound.WrapMessage("task id is not a valid uuid")
	}

	return id, nil
}

// Create handles the task creation request.
func (h *TaskHandler) Create(c echo.Context) error {
	identity, err := middleware.IdentityFromContext(c)
	if err != nil {
		return errors.WithStack(err)
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "invalid task input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	task, err := h.uc.CreateTask(c.Request().Context(), &usecase.CreateTaskInput{
		OwnerID:     identity.UserID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toTaskView(task), "task created successfully")
}

// List handles the request for all of the caller's tasks.
func (h *TaskHandler) List(c echo.Context) error {
	identity, err := middleware.IdentityFromContext(c)
	if err != nil {
		return errors.WithStack(err)
	}

	tasks, err := h.uc.ListTasks(c.Request().Context(), identity.UserID)
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]taskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, toTaskView(task))
	}

	return response.Success(c, http.StatusOK, views, "tasks retrieved successfully")
}

// Get handles the request for a single task.
func (h *TaskHandler) Get(c echo.Context) error {
	identity, err := middleware.IdentityFromContext(c)
	if err != nil {
		return errors.WithStack(err)
	}

	id, err := taskID(c)
	if err != nil {
		return err
	}

	task, err := h.uc.GetTask(c.Request().Context(), id, identity.UserID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toTaskView(task), "task retrieved successfully")
}

// Update handles the full update of a task.
func (h *TaskHandler) Update(c echo.Context) error {
	identity, err := middleware.IdentityFromContext(c)
	if err != nil {
		return errors.WithStack(err)
	}

	id, err := taskID(c)
	if err != nil {
		return err
	}

	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "invalid task input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	task, err := h.uc.UpdateTask(c.Request().Context(), &usecase.UpdateTaskInput{
		ID:          id,
		OwnerID:     identity.UserID,
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toTaskView(task), "task updated successfully")
}

// Delete handles the task deletion request.
func (h *TaskHandler) Delete(c echo.Context) error {
	identity, err := middleware.IdentityFromContext(c)
	if err != nil {
		return errors.WithStack(err)
	}

	id, err := taskID(c)
	if err != nil {
		return err
	}

	if err := h.uc.DeleteTask(c.Request().Context(), id, identity.UserID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "task deleted successfully")
}
