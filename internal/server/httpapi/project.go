package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func projectID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "projectID"), 10, 64)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProjectName string `json:"project_name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeBadInput(w, "invalid request body")
		return
	}
	if req.ProjectName == "" {
		writeBadInput(w, "project name is required")
		return
	}

	project, err := s.projects.Create(r.Context(), bearerToken(r), callerEmail(r), req.ProjectName)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.projects.List(r.Context(), bearerToken(r), callerEmail(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		writeBadInput(w, "invalid project id")
		return
	}

	project, err := s.projects.Get(r.Context(), bearerToken(r), callerEmail(r), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (s *Server) handleAddParticipant(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		writeBadInput(w, "invalid project id")
		return
	}

	var req struct {
		Participant string `json:"participant"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeBadInput(w, "invalid request body")
		return
	}
	if req.Participant == "" {
		writeBadInput(w, "participant email is required")
		return
	}

	project, err := s.projects.AddParticipant(r.Context(), bearerToken(r), callerEmail(r), id, req.Participant)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		writeBadInput(w, "invalid project id")
		return
	}

	if err := s.projects.Delete(r.Context(), bearerToken(r), callerEmail(r), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
