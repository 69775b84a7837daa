package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/collabpack/internal/server/services"
)

// handleUpload accepts a multipart request and hands the file part straight
// to the upload service. The body is consumed part by part via
// MultipartReader, so the file never gets buffered in memory or on disk no
// matter its size. Form fields must precede the file part.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	mr, err := r.MultipartReader()
	if err != nil {
		writeBadInput(w, "multipart body required")
		return
	}

	var projectID *int64
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			writeBadInput(w, "file part is required")
			return
		}
		if err != nil {
			writeBadInput(w, "malformed multipart body")
			return
		}

		switch part.FormName() {
		case "project_id":
			raw, err := io.ReadAll(io.LimitReader(part, 64))
			if err != nil {
				writeBadInput(w, "malformed project id")
				return
			}
			id, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
			if err != nil {
				writeBadInput(w, "invalid project id")
				return
			}
			projectID = &id

		case "file":
			encoding := part.Header.Get("Content-Transfer-Encoding")
			if encoding == "" {
				encoding = "7bit"
			}

			result, err := s.uploads.Upload(r.Context(), bearerToken(r), callerEmail(r), &services.UploadInput{
				Body:      part,
				Filename:  part.FileName(),
				Mimetype:  part.Header.Get("Content-Type"),
				Encoding:  encoding,
				ProjectID: projectID,
			})
			if err != nil {
				s.writeServiceError(w, r, err)
				return
			}
			writeJSON(w, http.StatusCreated, result)
			return
		}
	}
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.uploads.ListMine(r.Context(), bearerToken(r), callerEmail(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, files)
}

func (s *Server) handleListRecentFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.uploads.ListRecent(r.Context(), bearerToken(r), callerEmail(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, files)
}

func (s *Server) handleListProjectFiles(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		writeBadInput(w, "invalid project id")
		return
	}

	files, err := s.uploads.ListProjectFiles(r.Context(), bearerToken(r), callerEmail(r), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, files)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "serverFileName")

	file, body, err := s.uploads.Download(r.Context(), bearerToken(r), callerEmail(r), key)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", file.Mimetype)
	w.Header().Set("Content-Disposition", `attachment; filename="`+file.UploadedFileName+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, body)
}
