package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/pluqqy/memberdesk/pkg/editing"
	"github.com/pluqqy/memberdesk/pkg/models"
	"github.com/pluqqy/memberdesk/pkg/pagination"
	"github.com/pluqqy/memberdesk/pkg/profile"
	"github.com/pluqqy/memberdesk/pkg/store"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// PasswordCheckRequest is the body of a password check
type PasswordCheckRequest struct {
	Password string `json:"password"`
}

// PasswordCheckResponse reports the outcome of a password check
type PasswordCheckResponse struct {
	Valid bool `json:"valid"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrInvalidID),
		errors.Is(err, store.ErrUnknownField),
		errors.Is(err, store.ErrInvalidMember):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrDuplicate):
		status = http.StatusConflict
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msg})
}

func validationFailed(w http.ResponseWriter, problems map[string][]string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: problems})
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New("invalid " + name + " parameter")
	}
	return n, nil
}

func (s *Server) listMembers(w http.ResponseWriter, r *http.Request) {
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	limit, err := queryInt(r, "limit", s.defaultLimit)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	if limit == 0 {
		limit = pagination.DefaultLimit
	}

	page, err := s.store.List(r.Context(), store.ListOptions{
		Offset: offset,
		Limit:  limit,
		Query:  r.URL.Query().Get("q"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page.Describe(offset, limit))
}

func (s *Server) getMember(w http.ResponseWriter, r *http.Request) {
	member, err := s.store.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func decodeFields(r *http.Request) (map[string]string, error) {
	var fields map[string]string
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		return nil, errors.New("request body must be a JSON object of string fields")
	}
	if fields == nil {
		fields = map[string]string{}
	}
	return fields, nil
}

func toValues(fields map[string]string) editing.Values {
	values := make(editing.Values, len(fields))
	for k, v := range fields {
		values[editing.FieldID(k)] = v
	}
	return values
}

func (s *Server) createMember(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	// Required fields must be checked even when absent from the body
	for _, required := range []string{models.FieldFirstName, models.FieldEmail} {
		if _, ok := fields[required]; !ok {
			fields[required] = ""
		}
	}
	if problems := profile.ValidateChanges(fields); len(problems) > 0 {
		validationFailed(w, problems)
		return
	}

	member, err := store.NewMember(toValues(fields), s.now())
	if err != nil {
		writeError(w, err)
		return
	}
	created, err := s.store.Create(r.Context(), member)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) patchMember(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	fields, err := decodeFields(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	if problems := profile.ValidateChanges(fields); len(problems) > 0 {
		validationFailed(w, problems)
		return
	}

	member, err := s.store.Update(r.Context(), id, toValues(fields))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (s *Server) deleteMember(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) checkPassword(w http.ResponseWriter, r *http.Request) {
	var req PasswordCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "request body must be a JSON object with a password")
		return
	}

	member, err := s.store.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PasswordCheckResponse{Valid: store.CheckPassword(member, req.Password)})
}
