package handlers

import (
	"net/http"

	"github.com/eventura-app/server/internal/auth"
	"github.com/eventura-app/server/internal/domain/users"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type AuthHandler struct {
	Base
	users    *users.Service
	sessions *auth.SessionManager
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewAuthHandler(base Base, userService *users.Service, sessions *auth.SessionManager, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		Base:     base,
		users:    userService,
		sessions: sessions,
		validate: validator.New(),
		logger:   logger.With().Str("component", "auth_handler").Logger(),
	}
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.Renderer.Render(w, http.StatusOK, "auth/login", h.data(r))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Renderer.Error(w, r, err)
		return
	}
	username := r.PostFormValue("username")

	user, err := h.users.Authenticate(r.Context(), username, r.PostFormValue("password"))
	if err == users.ErrBadCredentials {
		h.logger.Warn().Str("username", username).Msg("failed login attempt")
		data := h.data(r)
		data["formError"] = "Invalid username or password."
		data["username"] = username
		h.Renderer.Render(w, http.StatusUnauthorized, "auth/login", data)
		return
	}
	if err != nil {
		h.Renderer.Error(w, r, err)
		return
	}

	token, err := h.sessions.Issue(user.Actor())
	if err != nil {
		h.Renderer.Error(w, r, err)
		return
	}
	h.sessions.SetCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	data := h.data(r)
	data["form"] = users.RegisterParams{}
	h.Renderer.Render(w, http.StatusOK, "auth/register", data)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Renderer.Error(w, r, err)
		return
	}
	form := users.RegisterParams{
		Username:  r.PostFormValue("username"),
		Email:     r.PostFormValue("email"),
		Password:  r.PostFormValue("password"),
		FirstName: r.PostFormValue("first_name"),
		LastName:  r.PostFormValue("last_name"),
		Phone:     r.PostFormValue("phone"),
	}

	if err := h.validate.Struct(form); err != nil {
		h.renderRegister(w, r, form, "Please check the form: username (3-50 chars), a valid email and a password of at least 8 characters are required.")
		return
	}

	user, err := h.users.Register(r.Context(), form)
	if err != nil {
		h.renderRegister(w, r, form, err.Error())
		return
	}

	token, err := h.sessions.Issue(user.Actor())
	if err != nil {
		h.Renderer.Error(w, r, err)
		return
	}
	h.sessions.SetCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) renderRegister(w http.ResponseWriter, r *http.Request, form users.RegisterParams, formError string) {
	form.Password = ""
	data := h.data(r)
	data["form"] = form
	data["formError"] = formError
	h.Renderer.Render(w, http.StatusUnprocessableEntity, "auth/register", data)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Profile shows a user's public profile page.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Profile(r.Context(), r.PathValue("username"))
	if err != nil {
		h.Renderer.Error(w, r, err)
		return
	}
	data := h.data(r)
	data["user"] = user
	h.Renderer.Render(w, http.StatusOK, "users/profile", data)
}
