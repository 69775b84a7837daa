package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleCreateChannel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeBadInput(w, "invalid request body")
		return
	}
	if req.Name == "" {
		writeBadInput(w, "channel name is required")
		return
	}

	channel, err := s.channels.Create(r.Context(), bearerToken(r), callerEmail(r), req.Name)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, channel)
}

func (s *Server) handleListChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := s.channels.List(r.Context(), bearerToken(r), callerEmail(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, channels)
}

func (s *Server) handleListRecentChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := s.channels.ListRecent(r.Context(), bearerToken(r), callerEmail(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, channels)
}

func channelID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "channelID"), 10, 64)
}

func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	id, err := channelID(r)
	if err != nil {
		writeBadInput(w, "invalid channel id")
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeBadInput(w, "invalid request body")
		return
	}
	if req.Message == "" {
		writeBadInput(w, "message text is required")
		return
	}

	message, err := s.channels.PostMessage(r.Context(), bearerToken(r), callerEmail(r), id, req.Message)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, message)
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	id, err := channelID(r)
	if err != nil {
		writeBadInput(w, "invalid channel id")
		return
	}

	messages, err := s.channels.ListMessages(r.Context(), bearerToken(r), callerEmail(r), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}
