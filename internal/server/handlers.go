package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zorooz/dayrunner/internal/auth"
	"github.com/zorooz/dayrunner/internal/github"
	"github.com/zorooz/dayrunner/internal/sandbox"
)

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// --- Info handlers ---

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Dayrunner API",
		"version": "1.0",
		"endpoints": map[string]string{
			"/api/auth/login":            "Log in and receive a session token",
			"/api/auth/create-user":      "Create a new user (authenticated)",
			"/api/auth/verify":           "Verify the current token",
			"/api/days":                  "List all day folders",
			"/api/days/{day}/files":      "List Python files in a day",
			"/api/file/{day}/{filename}": "Get file content",
			"/api/execute":               "Execute Python code",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// --- Auth handlers ---

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	token, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
		"username":     req.Username,
	})
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	requestedBy := usernameFromContext(r.Context())
	if err := s.auth.CreateUser(r.Context(), req.Username, req.Password, requestedBy); err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			writeError(w, http.StatusBadRequest, err.Error())
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("user %q created", req.Username),
	})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"username":      usernameFromContext(r.Context()),
		"authenticated": true,
	})
}

// --- Repository browsing handlers ---

// writeProxyError maps repository proxy failures onto HTTP statuses:
// missing folders/files are 404, everything else is 500.
func writeProxyError(w http.ResponseWriter, err error, notFoundMsg string) {
	if errors.Is(err, github.ErrNotFound) {
		writeError(w, http.StatusNotFound, notFoundMsg)
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) handleListDays(w http.ResponseWriter, r *http.Request) {
	days, err := s.repo.ListDays(r.Context())
	if err != nil {
		writeProxyError(w, err, "repository not found")
		return
	}
	writeJSON(w, http.StatusOK, days)
}

func dayParam(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "day"))
}

func (s *Server) handleListDayFiles(w http.ResponseWriter, r *http.Request) {
	day, err := dayParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid day number")
		return
	}

	files, err := s.repo.ListDayFiles(r.Context(), day)
	if err != nil {
		writeProxyError(w, err, fmt.Sprintf("Day %d folder not found", day))
		return
	}
	writeJSON(w, http.StatusOK, files)
}

func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	day, err := dayParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid day number")
		return
	}
	filename := chi.URLParam(r, "filename")

	fc, err := s.repo.GetFile(r.Context(), day, filename)
	if err != nil {
		writeProxyError(w, err, fmt.Sprintf("file %q not found for day %d", filename, day))
		return
	}
	writeJSON(w, http.StatusOK, fc)
}

// --- Execution handler ---

type executeRequest struct {
	Code    string `json:"code"`
	Timeout int    `json:"timeout"` // seconds; zero means the default
}

type executeResponse struct {
	Success    bool   `json:"success"`
	Output     string `json:"output"`
	Error      string `json:"error"`
	ReturnCode int    `json:"return_code"`
	ExecutedBy string `json:"executed_by,omitempty"`
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}

	username := usernameFromContext(r.Context())

	res, err := s.sandbox.Exec(r.Context(), sandbox.ExecOpts{
		Code:    req.Code,
		Timeout: time.Duration(req.Timeout) * time.Second,
	})
	if err != nil {
		// Engine-level failures still return 200; callers inspect the
		// payload to detect a failed run.
		res = &sandbox.ExecResult{Success: false, ErrorMsg: err.Error(), ExitCode: -1}
	}

	writeJSON(w, http.StatusOK, executeResponse{
		Success:    res.Success,
		Output:     res.Output,
		Error:      res.ErrorMsg,
		ReturnCode: res.ExitCode,
		ExecutedBy: username,
	})
}
