package http

import (
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/middleware/trace"
)

type userView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func viewOf(u *core.User) userView {
	return userView{ID: u.ID, Email: u.Email, Name: u.Name}
}

type registerRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	Name          string `json:"name"`
	Profession    string `json:"profession"`
	MaritalStatus string `json:"maritalStatus"`
	FamilyMembers int    `json:"familyMembers"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := s.password.Register(r.Context(), &core.User{
		Email:         req.Email,
		Name:          req.Name,
		Profession:    req.Profession,
		MaritalStatus: req.MaritalStatus,
		FamilyMembers: req.FamilyMembers,
	}, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.logger.InfoContext(r.Context(), "User registered",
		log.FieldUserID, user.ID,
		log.FieldEmail, user.Email)

	writeJSON(w, http.StatusCreated, struct {
		Message string   `json:"message"`
		User    userView `json:"user"`
	}{Message: "account created", User: viewOf(user)})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := s.password.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Token generation failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Token string   `json:"token"`
		User  userView `json:"user"`
	}{Token: token, User: viewOf(user)})
}

const oauthStateCookie = "oauth_state"

func (s *Server) handleGoogleStart(w http.ResponseWriter, r *http.Request) {
	state := trace.GenerateRequestID()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/api/auth/google",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, s.google.AuthURL(state), http.StatusFound)
}

func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if errStr := r.URL.Query().Get("error"); errStr != "" {
		writeError(w, http.StatusUnauthorized, "google sign-in was denied")
		return
	}

	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		writeError(w, http.StatusUnauthorized, "invalid oauth state")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	user, err := s.google.Exchange(r.Context(), code)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Google sign-in failed", log.FieldError, err)
		writeError(w, http.StatusUnauthorized, "google sign-in failed")
		return
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Token generation failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Token string   `json:"token"`
		User  userView `json:"user"`
	}{Token: token, User: viewOf(user)})
}
