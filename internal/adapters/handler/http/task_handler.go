package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taskward/api/internal/core/domain"
	"github.com/taskward/api/internal/core/ports"
)

type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// taskRequest covers create and update payloads. Fields the client may
// not set (owner, created_at, updated_at, completed_at) are absent on
// purpose: anything outside this set is dropped on decode, not errored.
type taskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := ports.CreateTaskInput{DueDate: req.DueDate}
	if req.Title != nil {
		input.Title = *req.Title
	}
	if req.Description != nil {
		input.Description = *req.Description
	}
	if req.Status != nil {
		input.Status = *req.Status
	}
	if req.Priority != nil {
		input.Priority = *req.Priority
	}

	task, err := h.service.Create(r.Context(), userID, input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	query := r.URL.Query()
	filter := ports.TaskFilter{
		Status:      domain.TaskStatus(query.Get("status")),
		Priority:    domain.TaskPriority(query.Get("priority")),
		Title:       query.Get("title"),
		Description: query.Get("description"),
	}

	tasks, err := h.service.List(r.Context(), userID, filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := h.taskIDs(w, r)
	if !ok {
		return
	}

	task, err := h.service.Get(r.Context(), userID, taskID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

func (h *TaskHandler) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *TaskHandler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	userID, taskID, ok := h.taskIDs(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var req taskRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// A second decode into a raw map tells "due_date": null apart from
	// the key being absent, which matters for partial updates.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := ports.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	}
	if value, present := raw["due_date"]; present {
		input.DueDateSet = true
		if !bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			if req.DueDate == nil {
				respondError(w, http.StatusBadRequest, "invalid due_date")
				return
			}
			input.DueDate = req.DueDate
		}
	}

	task, err := h.service.Update(r.Context(), userID, taskID, input, partial)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := h.taskIDs(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, taskID); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := h.taskIDs(w, r)
	if !ok {
		return
	}

	task, err := h.service.Complete(r.Context(), userID, taskID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Reopen(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := h.taskIDs(w, r)
	if !ok {
		return
	}

	task, err := h.service.Reopen(r.Context(), userID, taskID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// taskIDs pulls the caller and path task id. An unparseable id maps to
// 404: the resource cannot exist, and a 400 would leak more than the
// ownership rule allows elsewhere.
func (h *TaskHandler) taskIDs(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := callerID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing user context")
		return uuid.Nil, uuid.Nil, false
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, domain.ErrTaskNotFound.Error())
		return uuid.Nil, uuid.Nil, false
	}

	return userID, taskID, true
}
