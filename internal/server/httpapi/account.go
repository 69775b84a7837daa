package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/collabpack/internal/server/models"
)

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	User  *models.AccountView `json:"user"`
	Token string              `json:"token"`
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadInput(w, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeBadInput(w, "email and password are required")
		return
	}

	view, token, err := s.accounts.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, signInResponse{User: view, Token: token})
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeBadInput(w, "invalid request body")
		return
	}

	if err := s.accounts.SignOut(r.Context(), bearerToken(r), req.Email); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	view, err := s.accounts.VerifySession(r.Context(), bearerToken(r), callerEmail(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	view, token, err := s.accounts.Refresh(r.Context(), bearerToken(r), callerEmail(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, signInResponse{User: view, Token: token})
}

func (s *Server) handleGetAccountByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "accountID")

	view, err := s.accounts.GetByID(r.Context(), bearerToken(r), callerEmail(r), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAdminUpdateAccount(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, "accountEmail")

	var req struct {
		Username    string `json:"username"`
		Phone       string `json:"phone"`
		UserGroup   string `json:"user_group"`
		AccountType string `json:"account_type"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeBadInput(w, "invalid request body")
		return
	}

	view, err := s.accounts.AdminUpdate(r.Context(), bearerToken(r), callerEmail(r), target,
		req.Username, req.Phone, req.UserGroup, req.AccountType)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type createAccountRequest struct {
	Email       string `json:"email"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	Phone       string `json:"phone"`
	UserGroup   string `json:"user_group"`
	AccountType string `json:"account_type"`
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadInput(w, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeBadInput(w, "email and password are required")
		return
	}

	view, err := s.accounts.Create(r.Context(), bearerToken(r), callerEmail(r), &models.AccountCreation{
		Email:       req.Email,
		Username:    req.Username,
		Password:    req.Password,
		Phone:       req.Phone,
		UserGroup:   req.UserGroup,
		AccountType: req.AccountType,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	views, err := s.accounts.List(r.Context(), bearerToken(r), callerEmail(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, "accountEmail")
	if err := s.accounts.Delete(r.Context(), bearerToken(r), callerEmail(r), target); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleUpdateDetail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username  string `json:"username"`
		Phone     string `json:"phone"`
		UserGroup string `json:"user_group"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeBadInput(w, "invalid request body")
		return
	}

	view, err := s.accounts.UpdateDetail(r.Context(), bearerToken(r), callerEmail(r),
		req.Username, req.Phone, req.UserGroup)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeBadInput(w, "invalid request body")
		return
	}
	if req.NewPassword == "" {
		writeBadInput(w, "new password is required")
		return
	}

	err := s.accounts.UpdatePassword(r.Context(), bearerToken(r), callerEmail(r),
		req.OldPassword, req.NewPassword)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}
