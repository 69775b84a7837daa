// Package httpapi exposes the collaboration services over HTTP. Handlers
// never report errors by raw text: every service failure maps to a stable
// machine-readable code plus the matching status.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/collabpack/internal/common"
	"github.com/dmitrijs2005/collabpack/internal/logging"
	"github.com/dmitrijs2005/collabpack/internal/server/services"
)

type Server struct {
	accounts *services.AccountService
	channels *services.ChannelService
	projects *services.ProjectService
	uploads  *services.UploadService
	logger   logging.Logger
}

func NewServer(accounts *services.AccountService, channels *services.ChannelService,
	projects *services.ProjectService, uploads *services.UploadService, logger logging.Logger) *Server {
	return &Server{
		accounts: accounts,
		channels: channels,
		projects: projects,
		uploads:  uploads,
		logger:   logger.With("module", "httpapi"),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/signin", s.handleSignIn)
	r.Post("/api/signout", s.handleSignOut)
	r.Get("/api/verify", s.handleVerify)
	r.Post("/api/refresh", s.handleRefresh)

	r.Route("/api/accounts", func(r chi.Router) {
		r.Get("/", s.handleListAccounts)
		r.Post("/", s.handleCreateAccount)
		r.Get("/id/{accountID}", s.handleGetAccountByID)
		r.Delete("/{accountEmail}", s.handleDeleteAccount)
		r.Patch("/detail", s.handleUpdateDetail)
		r.Patch("/password", s.handleUpdatePassword)
		r.Patch("/{accountEmail}", s.handleAdminUpdateAccount)
	})

	r.Route("/api/channels", func(r chi.Router) {
		r.Get("/", s.handleListChannels)
		r.Post("/", s.handleCreateChannel)
		r.Get("/recent", s.handleListRecentChannels)
		r.Get("/{channelID}/messages", s.handleListMessages)
		r.Post("/{channelID}/messages", s.handlePostMessage)
	})

	r.Route("/api/projects", func(r chi.Router) {
		r.Get("/", s.handleListProjects)
		r.Post("/", s.handleCreateProject)
		r.Get("/{projectID}", s.handleGetProject)
		r.Delete("/{projectID}", s.handleDeleteProject)
		r.Post("/{projectID}/participants", s.handleAddParticipant)
		r.Get("/{projectID}/files", s.handleListProjectFiles)
	})

	r.Post("/api/uploads", s.handleUpload)
	r.Get("/api/files", s.handleListFiles)
	r.Get("/api/files/recent", s.handleListRecentFiles)
	r.Get("/api/files/{serverFileName}", s.handleDownload)

	return r
}

// requestLogger tags every request with a random id and logs method, path
// and timing once the handler is done.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := common.MakeRandHexString(8)
		if err == nil {
			w.Header().Set("X-Request-Id", id)
		}
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug(r.Context(), "request handled",
			"id", id, "method", r.Method, "path", r.URL.Path, "duration", time.Since(start).String())
	})
}

// errorCode maps a service failure to its HTTP status and stable error code.
func errorCode(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"
	case errors.Is(err, common.ErrUploadFailed):
		return http.StatusBadGateway, "UPLOAD_FAILED"
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORISED"
	case errors.Is(err, common.ErrorBadInput):
		return http.StatusBadRequest, "BAD_USER_INPUT"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	default:
		return http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"
	}
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := errorCode(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, map[string]string{"code": code, "message": err.Error()})
}

func writeBadInput(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"code": "BAD_USER_INPUT", "message": message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, out any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

// bearerToken extracts the token from the Authorization header. A missing or
// malformed header yields the empty string; the services treat that as an
// unauthenticated call.
func bearerToken(r *http.Request) string {
	header := r.Header.Get(common.AuthHeaderName)
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(common.BearerPrefix)) {
		return ""
	}
	return strings.TrimSpace(header[len(common.BearerPrefix):])
}

// callerEmail is the identity the request claims to act as; it is always
// cross-checked against the token by the services.
func callerEmail(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("email"))
}
