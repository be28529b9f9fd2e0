package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"talentdesk/api/internal/ai"
	"talentdesk/api/internal/auth"
	"talentdesk/api/internal/export"
	"talentdesk/api/internal/rbac"
	"talentdesk/api/internal/resume"
	"talentdesk/api/internal/search"
	"talentdesk/api/internal/session"
	"talentdesk/api/internal/store"
)

const maxResumeBytes = 10 << 20

type HTTPServer struct {
	service    *Service
	corsOrigin string
}

func NewHTTPServer(service *Service, corsOrigin string) *HTTPServer {
	return &HTTPServer{service: service, corsOrigin: corsOrigin}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.withMiddleware(http.HandlerFunc(s.handle))
}

func (s *HTTPServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		writeJSON(w, http.StatusNoContent, map[string]any{})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/health" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/ready" {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := "ready"
		statusCode := http.StatusOK
		checks := map[string]any{
			"store": map[string]any{"status": "ok"},
		}

		if err := s.service.Ping(ctx); err != nil {
			status = "not_ready"
			statusCode = http.StatusServiceUnavailable
			checks["store"] = map[string]any{
				"status": "error",
				"error":  err.Error(),
			}
		}

		writeJSON(w, statusCode, map[string]any{
			"ok":     status == "ready",
			"status": status,
			"checks": checks,
		})
		return
	}

	// Auth routes (no session required)
	if r.Method == http.MethodPost && r.URL.Path == "/api/auth/login" {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
			Role     string `json:"role"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		user, err := s.service.Login(r.Context(), body.Email, body.Password, body.Role)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"user": user,
			"view": rbac.LandingView(rbac.Normalize(user.Role)),
		})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/auth/logout" {
		s.service.Logout(r.Context())
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/session" {
		writeJSON(w, http.StatusOK, s.service.SessionState(r.Context()))
		return
	}

	user, ok := s.requireUser(w)
	if !ok {
		return
	}
	role := rbac.Normalize(user.Role)

	parts := splitPath(r.URL.Path)

	// Session preferences
	if r.Method == http.MethodPost && r.URL.Path == "/api/session/view" {
		var body struct {
			View string `json:"view"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		s.service.SetView(r.Context(), body.View)
		writeJSON(w, http.StatusOK, map[string]any{"view": body.View})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/session/theme" {
		var body struct {
			Theme string `json:"theme"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		s.service.SetTheme(r.Context(), body.Theme)
		writeJSON(w, http.StatusOK, map[string]any{"theme": body.Theme})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/session/select-request" {
		var body struct {
			ID string `json:"id"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		s.service.SelectRequest(r.Context(), body.ID)
		writeJSON(w, http.StatusOK, map[string]any{"selectedRequestId": body.ID})
		return
	}

	// Requests
	if r.Method == http.MethodGet && r.URL.Path == "/api/requests" {
		writeJSON(w, http.StatusOK, map[string]any{"requests": s.service.Requests()})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/requests" {
		if !rbac.Can(role, rbac.ActionManage) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
			return
		}
		var body store.JobRequest
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		if strings.TrimSpace(body.Title) == "" {
			writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "title is required", nil)
			return
		}
		created := s.service.CreateRequest(r.Context(), body)
		writeJSON(w, http.StatusCreated, map[string]any{"request": created})
		return
	}

	if r.Method == http.MethodPut && len(parts) == 3 && parts[0] == "api" && parts[1] == "requests" {
		if !rbac.Can(role, rbac.ActionManage) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
			return
		}
		var patch session.RequestPatch
		if err := decodeBody(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		updated, err := s.service.UpdateRequest(r.Context(), parts[2], patch)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"request": updated})
		return
	}

	if r.Method == http.MethodDelete && len(parts) == 3 && parts[0] == "api" && parts[1] == "requests" {
		if !rbac.Can(role, rbac.ActionManage) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
			return
		}
		if err := s.service.DeleteRequest(r.Context(), parts[2]); err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	// Request comments
	if r.Method == http.MethodGet && len(parts) == 4 && parts[0] == "api" && parts[1] == "requests" && parts[3] == "comments" {
		writeJSON(w, http.StatusOK, map[string]any{"comments": s.service.Comments(parts[2])})
		return
	}

	if r.Method == http.MethodPost && len(parts) == 4 && parts[0] == "api" && parts[1] == "requests" && parts[3] == "comments" {
		var body struct {
			Body string `json:"body"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		if strings.TrimSpace(body.Body) == "" {
			writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "body is required", nil)
			return
		}
		comment, err := s.service.AddComment(r.Context(), store.Comment{
			RequestID: parts[2],
			Author:    user.Name,
			Body:      body.Body,
		})
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"comment": comment})
		return
	}

	// Candidates
	if r.Method == http.MethodGet && r.URL.Path == "/api/candidates" {
		writeJSON(w, http.StatusOK, map[string]any{"candidates": s.service.Candidates()})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/candidates" {
		if !rbac.Can(role, rbac.ActionSubmit) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
			return
		}
		var body store.Candidate
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		if strings.TrimSpace(body.Name) == "" {
			writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "name is required", nil)
			return
		}
		created := s.service.AddCandidate(r.Context(), body)
		writeJSON(w, http.StatusCreated, map[string]any{"candidate": created})
		return
	}

	if r.Method == http.MethodGet && len(parts) == 4 && parts[0] == "api" && parts[1] == "candidates" && parts[3] == "resume" {
		data, mime, err := s.service.FetchResume(r.Context(), parts[2])
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		if mime == "" {
			mime = "application/octet-stream"
		}
		w.Header().Set("Content-Type", mime)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/candidates/resume" {
		if !rbac.Can(role, rbac.ActionSubmit) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
			return
		}
		s.handleResumeIntake(w, r)
		return
	}

	// Submissions
	if r.Method == http.MethodGet && r.URL.Path == "/api/submissions" {
		writeJSON(w, http.StatusOK, map[string]any{"submissions": s.service.Submissions()})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/submissions" {
		if !rbac.Can(role, rbac.ActionSubmit) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
			return
		}
		var body struct {
			Submission store.Submission `json:"submission"`
			Candidate  store.Candidate  `json:"candidate"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		if strings.TrimSpace(body.Submission.CandidateName) == "" {
			writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "candidateName is required", nil)
			return
		}
		sub, cand := s.service.RecordSubmission(r.Context(), body.Submission, body.Candidate)
		writeJSON(w, http.StatusCreated, map[string]any{"submission": sub, "candidate": cand})
		return
	}

	if r.Method == http.MethodPut && len(parts) == 3 && parts[0] == "api" && parts[1] == "submissions" {
		if !rbac.Can(role, rbac.ActionManage) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
			return
		}
		var body struct {
			Status *string `json:"status"`
			Stage  *string `json:"stage"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		updated, err := s.service.UpdateSubmission(r.Context(), parts[2], session.SubmissionPatch{
			Status: body.Status,
			Stage:  body.Stage,
		})
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"submission": updated})
		return
	}

	// Activities
	if r.Method == http.MethodGet && r.URL.Path == "/api/activities" {
		writeJSON(w, http.StatusOK, map[string]any{"activities": s.service.Activities()})
		return
	}

	// Conversations
	if r.Method == http.MethodGet && r.URL.Path == "/api/conversations" {
		writeJSON(w, http.StatusOK, map[string]any{"conversations": s.service.Conversations()})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/conversations" {
		conv := s.service.StartConversation(r.Context(), user.Name)
		writeJSON(w, http.StatusCreated, map[string]any{"conversation": conv})
		return
	}

	if r.Method == http.MethodPost && len(parts) == 4 && parts[0] == "api" && parts[1] == "conversations" && parts[3] == "messages" {
		var body struct {
			Body string `json:"body"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		if strings.TrimSpace(body.Body) == "" {
			writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "body is required", nil)
			return
		}
		conv, err := s.service.PostMessage(r.Context(), parts[2], user.Name, body.Body)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"conversation": conv})
		return
	}

	// Users (admin only)
	if r.Method == http.MethodGet && r.URL.Path == "/api/users" {
		if !rbac.Can(role, rbac.ActionAdmin) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"users": s.service.Users()})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/users" {
		if !rbac.Can(role, rbac.ActionAdmin) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
			return
		}
		var body store.User
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		created, err := s.service.CreateUser(r.Context(), body)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"user": created})
		return
	}

	// Search
	if r.Method == http.MethodGet && r.URL.Path == "/api/search" {
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		filterType := strings.TrimSpace(r.URL.Query().Get("type"))
		limit := 20
		if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "limit must be an integer", nil)
				return
			}
			limit = parsed
		}
		payload := s.service.Search(search.Query{
			Text:       q,
			FilterType: search.ResultType(filterType),
			Limit:      limit,
		})
		writeJSON(w, http.StatusOK, payload)
		return
	}

	// Exports
	if r.Method == http.MethodGet && r.URL.Path == "/api/export/candidates.csv" {
		result, err := s.service.ExportCandidatesCSV()
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeDownload(w, result)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/export/requests.csv" {
		result, err := s.service.ExportRequestsCSV()
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeDownload(w, result)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/export/pipeline.pdf" {
		if !rbac.Can(role, rbac.ActionManage) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
			return
		}
		requestID := strings.TrimSpace(r.URL.Query().Get("requestId"))
		if requestID == "" {
			writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "requestId is required", nil)
			return
		}
		result, err := s.service.ExportPipelineReport(r.Context(), requestID)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeDownload(w, result)
		return
	}

	// AI
	if r.Method == http.MethodPost && r.URL.Path == "/api/ai/screen" {
		if !rbac.Can(role, rbac.ActionManage) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
			return
		}
		var body struct {
			CandidateID string `json:"candidateId"`
			RequestID   string `json:"requestId"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		result, err := s.service.ScreenCandidate(r.Context(), body.CandidateID, body.RequestID)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"screening": result})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/ai/market-analysis" {
		if !rbac.Can(role, rbac.ActionManage) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
			return
		}
		var body struct {
			RequestID string `json:"requestId"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		report, err := s.service.MarketAnalysis(r.Context(), body.RequestID)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"report": report})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/ai/interview-questions" {
		var body struct {
			RequestID string `json:"requestId"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		questions, err := s.service.InterviewQuestions(r.Context(), body.RequestID)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"questions": questions})
		return
	}

	// Usage counters
	if r.Method == http.MethodGet && r.URL.Path == "/api/usage" {
		writeJSON(w, http.StatusOK, map[string]any{"usage": s.service.Usage(r.Context())})
		return
	}

	// Storage wipe (admin only, confirmation lives with the caller)
	if r.Method == http.MethodPost && r.URL.Path == "/api/storage/clear" {
		if !rbac.Can(role, rbac.ActionAdmin) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
			return
		}
		if err := s.service.ClearAll(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, "SERVER_ERROR", "Could not clear storage", nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handleResumeIntake(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxResumeBytes); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid multipart body", nil)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "file field is required", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxResumeBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "could not read file", nil)
		return
	}
	if len(data) > maxResumeBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds 10MB limit", nil)
		return
	}

	mime := resume.DetectMime(header.Filename, header.Header.Get("Content-Type"))
	requestID := strings.TrimSpace(r.FormValue("requestId"))

	candidate, err := s.service.IntakeResume(r.Context(), header.Filename, mime, data, requestID)
	if err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"candidate": candidate})
}

func (s *HTTPServer) requireUser(w http.ResponseWriter) (*store.User, bool) {
	user := s.service.CurrentUser()
	if user == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return nil, false
	}
	return user, true
}

func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = randomRequestID()
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		started := time.Now()
		writer := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		setCORSHeaders(writer.Header(), s.corsOrigin)
		writer.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(writer, r)

		log.Printf(`{"request_id":"%s","method":"%s","path":"%s","status":%d,"duration_ms":%d}`,
			requestID,
			r.Method,
			r.URL.Path,
			writer.status,
			time.Since(started).Milliseconds(),
		)
	})
}

type requestIDKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func randomRequestID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func setCORSHeaders(header http.Header, corsOrigin string) {
	header.Set("Access-Control-Allow-Origin", corsOrigin)
	header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
	header.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
	header.Set("Cache-Control", "no-store")
	header.Set("Content-Type", "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeDownload(w http.ResponseWriter, result *export.Result) {
	w.Header().Set("Content-Type", result.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	response := map[string]any{
		"code":  code,
		"error": message,
	}
	if details != nil {
		response["details"] = details
	}
	writeJSON(w, status, response)
}

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, http.ErrBodyReadAfterClose) {
			return nil
		}
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func mapError(err error) (status int, code, message string, details any) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Details
	}
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil
	}
	if errors.Is(err, auth.ErrAccountSuspended) {
		return http.StatusForbidden, "ACCOUNT_SUSPENDED", "Account suspended", nil
	}
	if errors.Is(err, auth.ErrRoleMismatch) {
		return http.StatusForbidden, "ROLE_MISMATCH", "Role does not match account", nil
	}
	if errors.Is(err, ai.ErrNotConfigured) {
		return http.StatusServiceUnavailable, "AI_UNAVAILABLE", "AI service not configured", nil
	}
	if errors.Is(err, export.ErrPDFDependencyMissing) {
		return http.StatusServiceUnavailable, "EXPORT_UNAVAILABLE", "PDF export unavailable", nil
	}
	return http.StatusInternalServerError, "SERVER_ERROR", "Server error", nil
}
