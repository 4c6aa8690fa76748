package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"mytasks/internal/service"
)

// taskID returns the validated {id} path parameter. On failure it writes the
// 400 response and returns false.
func taskID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if !service.ValidID(id) {
		writeInvalid(w, &service.ValidationError{Issues: []service.Issue{{Field: "id", Message: "must be a UUID"}}})
		return "", false
	}
	return id, true
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	const fallback = "could not list tasks"

	f, err := service.ParseTaskFilters(r.URL.Query())
	if err == nil {
		err = f.Validate()
	}
	if err != nil {
		writeInvalid(w, err)
		return
	}

	page, err := s.svc.ListTasks(r.Context(), accessToken(r), f)
	if err != nil {
		s.relayError(w, r, err, fallback)
		return
	}
	if err := page.Validate(); err != nil {
		s.rejectResponse(w, r, err, fallback)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	const fallback = "could not create task"

	var in service.CreateTaskInput
	if !decodeValid(w, r, &in) {
		return
	}
	task, err := s.svc.CreateTask(r.Context(), accessToken(r), in)
	s.writeTask(w, r, http.StatusCreated, task, err, fallback)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	task, err := s.svc.GetTask(r.Context(), accessToken(r), id)
	s.writeTask(w, r, http.StatusOK, task, err, "could not load task")
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	var in service.UpdateTaskInput
	if !decodeValid(w, r, &in) {
		return
	}
	task, err := s.svc.UpdateTask(r.Context(), accessToken(r), id, in)
	s.writeTask(w, r, http.StatusOK, task, err, "could not update task")
}

func (s *Server) handleUpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	var in service.UpdateTaskStatusInput
	if !decodeValid(w, r, &in) {
		return
	}
	task, err := s.svc.UpdateTaskStatus(r.Context(), accessToken(r), id, in)
	s.writeTask(w, r, http.StatusOK, task, err, "could not update task status")
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	if err := s.svc.DeleteTask(r.Context(), accessToken(r), id); err != nil {
		s.relayError(w, r, err, "could not delete task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeTask answers with a single task after checking the backend result.
func (s *Server) writeTask(w http.ResponseWriter, r *http.Request, status int, task service.Task, err error, fallback string) {
	if err != nil {
		s.relayError(w, r, err, fallback)
		return
	}
	if err := task.Validate(); err != nil {
		s.rejectResponse(w, r, err, fallback)
		return
	}
	writeJSON(w, status, task)
}
