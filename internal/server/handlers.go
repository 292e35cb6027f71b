package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taskflow-app/taskflowd/internal/calendar"
	"github.com/taskflow-app/taskflowd/internal/model"
	"github.com/taskflow-app/taskflowd/internal/notify"
	"github.com/taskflow-app/taskflowd/internal/storage"
)

type todoPayload struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	StartDate   string   `json:"startDate,omitempty"`
	DueDate     string   `json:"dueDate,omitempty"`
	Tags        []string `json:"tags"`
	AiGenerated bool     `json:"isAiGenerated"`
	CreatedAt   int64    `json:"createdAt"`
}

type userPayload struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	Bio            string `json:"bio"`
	TelegramChatID string `json:"telegramChatId"`
}

type errorPayload struct {
	Error string `json:"error"`
}

func userFromStorage(u storage.User) userPayload {
	return userPayload{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		Bio:            u.Bio,
		TelegramChatID: u.TelegramChatID,
	}
}

func todoFromTask(t storage.Task) todoPayload {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return todoPayload{
		ID:          t.ID,
		Text:        t.Text,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		StartDate:   t.StartDate,
		DueDate:     t.DueDate,
		Tags:        tags,
		AiGenerated: t.AiGenerated,
		CreatedAt:   t.CreatedAt.UnixMilli(),
	}
}

func (p todoPayload) toTask(createdAt time.Time) storage.Task {
	if p.CreatedAt > 0 {
		createdAt = time.UnixMilli(p.CreatedAt).UTC()
	}
	return storage.Task{
		ID:          p.ID,
		Text:        p.Text,
		Description: p.Description,
		Status:      p.Status,
		Priority:    p.Priority,
		StartDate:   p.StartDate,
		DueDate:     p.DueDate,
		Tags:        p.Tags,
		AiGenerated: p.AiGenerated,
		CreatedAt:   createdAt,
	}
}

func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.repo.ListTasks(r.Context(), storage.TaskListFilter{Status: r.URL.Query().Get("status")})
	if err != nil {
		s.internalError(w, "list todos", err)
		return
	}
	out := make([]todoPayload, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, todoFromTask(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	var payload todoPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "invalid json body"})
		return
	}
	task := payload.toTask(s.clock().UTC())
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if msg, ok := validateTask(task); !ok {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: msg})
		return
	}
	if err := s.repo.CreateTask(r.Context(), task); err != nil {
		s.internalError(w, "create todo", err)
		return
	}
	writeJSON(w, http.StatusCreated, todoFromTask(task))
}

func (s *Server) handleCreateTodoBatch(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Todos []todoPayload `json:"todos"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "invalid json body"})
		return
	}
	now := s.clock().UTC()
	tasks := make([]storage.Task, 0, len(payload.Todos))
	for _, todo := range payload.Todos {
		task := todo.toTask(now)
		if task.ID == "" {
			task.ID = uuid.NewString()
		}
		if msg, ok := validateTask(task); !ok {
			writeJSON(w, http.StatusBadRequest, errorPayload{Error: msg})
			return
		}
		tasks = append(tasks, task)
	}
	if err := s.repo.CreateTasks(r.Context(), tasks); err != nil {
		s.internalError(w, "create todo batch", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"created": len(tasks)})
}

func (s *Server) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var payload todoPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "invalid json body"})
		return
	}
	payload.ID = id
	task := payload.toTask(s.clock().UTC())
	if msg, ok := validateTask(task); !ok {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: msg})
		return
	}
	if err := s.repo.UpdateTask(r.Context(), task); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorPayload{Error: "todo not found"})
			return
		}
		s.internalError(w, "update todo", err)
		return
	}
	writeJSON(w, http.StatusOK, todoFromTask(task))
}

func (s *Server) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.repo.DeleteTask(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorPayload{Error: "todo not found"})
			return
		}
		s.internalError(w, "delete todo", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.repo.ListUsers(r.Context())
	if err != nil {
		s.internalError(w, "list users", err)
		return
	}
	out := make([]userPayload, 0, len(users))
	for _, u := range users {
		out = append(out, userFromStorage(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.repo.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorPayload{Error: "user not found"})
			return
		}
		s.internalError(w, "get user", err)
		return
	}
	writeJSON(w, http.StatusOK, userFromStorage(user))
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var payload userPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "invalid json body"})
		return
	}
	existing, err := s.repo.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorPayload{Error: "user not found"})
			return
		}
		s.internalError(w, "get user", err)
		return
	}
	existing.Name = payload.Name
	existing.Email = payload.Email
	existing.Role = payload.Role
	existing.Bio = payload.Bio
	existing.TelegramChatID = payload.TelegramChatID
	if err := s.repo.UpdateUser(r.Context(), existing); err != nil {
		s.internalError(w, "update user", err)
		return
	}
	writeJSON(w, http.StatusOK, userFromStorage(existing))
}

func (s *Server) handleNotifyTelegram(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ChatID  string `json:"chatId"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "invalid json body"})
		return
	}
	dispatcher := s.dispatcherFor(payload.ChatID)
	err := dispatcher.Dispatch(r.Context(), notify.Notification{Body: payload.Message})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	case errors.Is(err, notify.ErrMissingDestination):
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "chatId is required"})
	default:
		s.logger.Warn("telegram notify failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorPayload{Error: "telegram delivery failed"})
	}
}

func (s *Server) handleMatrix(w http.ResponseWriter, r *http.Request) {
	reference := s.clock()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, ok := model.ParseDay(raw)
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorPayload{Error: "invalid date"})
			return
		}
		reference = parsed
	}
	rows, err := s.repo.ListTasks(r.Context(), storage.TaskListFilter{})
	if err != nil {
		s.internalError(w, "list todos", err)
		return
	}
	tasks := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, row.ToModel())
	}
	buckets := model.Partition(tasks, reference)

	out := make(map[string][]todoPayload, 4)
	for _, q := range []model.Quadrant{model.QuadrantDo, model.QuadrantDecide, model.QuadrantDelegate, model.QuadrantDelete} {
		todos := make([]todoPayload, 0, len(buckets[q]))
		for _, t := range buckets[q] {
			todos = append(todos, todoFromTask(storage.TaskFromModel(t)))
		}
		out[string(q)] = todos
	}
	writeJSON(w, http.StatusOK, out)
}

type calendarEntryPayload struct {
	Todo    todoPayload `json:"todo"`
	Segment string      `json:"segment"`
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "invalid year"})
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "invalid month"})
		return
	}

	rows, listErr := s.repo.ListTasks(r.Context(), storage.TaskListFilter{})
	if listErr != nil {
		s.internalError(w, "list todos", listErr)
		return
	}
	tasks := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, row.ToModel())
	}

	grid := calendar.MonthGrid(year, time.Month(month))
	projected := calendar.Project(tasks, grid)

	days := make(map[string][]calendarEntryPayload, len(projected))
	for day, entries := range projected {
		list := make([]calendarEntryPayload, 0, len(entries))
		for _, entry := range entries {
			list = append(list, calendarEntryPayload{
				Todo:    todoFromTask(storage.TaskFromModel(entry.Task)),
				Segment: string(entry.Role),
			})
		}
		days[day] = list
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"year":          year,
		"month":         month,
		"leadingBlanks": countLeadingBlanks(grid),
		"days":          days,
	})
}

func countLeadingBlanks(grid calendar.Grid) int {
	n := 0
	for _, cell := range grid.Cells {
		if !cell.Blank {
			break
		}
		n++
	}
	return n
}

func validateTask(t storage.Task) (string, bool) {
	if err := t.ToModel().Validate(); err != nil {
		return strings.TrimPrefix(err.Error(), "model: "), false
	}
	return "", true
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.logger.Error(op+" failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorPayload{Error: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
