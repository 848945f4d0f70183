// Package handler contains the HTTP request handlers for the account API.
//
// Handlers parse requests, call the service layer, and shape responses.
// They contain no business rules: validation, defaults and error
// classification all live in internal/service; this layer only translates
// between HTTP and service calls (including the taxonomy → status mapping
// in response.go, and the session cookie on login/signout).
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/account-api/internal/auth"
	"github.com/sakif/account-api/internal/service"
)

// UserHandler exposes the account operations over HTTP.
//
// ROUTES (wired in internal/server):
//
//	POST  /signup            → HandleRegister
//	POST  /signin            → HandleLogin (sets the jwt cookie)
//	POST  /signout           → HandleLogout (clears it)
//	GET   /users             → HandleList
//	GET   /users/me          → HandleGetMe
//	GET   /users/{userId}    → HandleGetByID
//	PATCH /users/me          → HandleUpdateProfile
//	PATCH /users/me/avatar   → HandleUpdateAvatar
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler. All dependencies are injected; the
// handler has no knowledge of how they're constructed.
func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger,
	}
}

// registerRequest is the POST /signup body. Name, about and avatar are
// optional — the service applies defaults.
type registerRequest struct {
	Name     string `json:"name"`
	About    string `json:"about"`
	Avatar   string `json:"avatar"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// registerResponse deliberately omits the id along with the hash — the
// reference behavior returns only the public profile fields on signup.
type registerResponse struct {
	Name   string `json:"name"`
	About  string `json:"about"`
	Avatar string `json:"avatar"`
	Email  string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse is the enumerated login body: the id plus the public
// profile fields, nothing else — no timestamps, and the hash is already
// unrepresentable at the type level.
type loginResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	About  string `json:"about"`
	Avatar string `json:"avatar"`
	Email  string `json:"email"`
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	About string `json:"about"`
}

type updateAvatarRequest struct {
	Avatar string `json:"avatar"`
}

// decodeBody reads a JSON request body into dst, reporting malformed JSON
// as a 400 in the standard error shape. Returns false if the response has
// already been written.
func (h *UserHandler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.Warn("invalid JSON body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return false
	}
	return true
}

// HandleRegister creates a new account.
//
// HTTP: POST /signup
// BODY: {"name"?, "about"?, "avatar"?, "email", "password"}
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		About:    req.About,
		Avatar:   req.Avatar,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{
		Name:   user.Name,
		About:  user.About,
		Avatar: user.Avatar,
		Email:  user.Email,
	})
}

// HandleLogin authenticates and sets the session cookie.
//
// HTTP: POST /signin
// BODY: {"email", "password"}
//
// COOKIE FLAGS:
// HttpOnly keeps the token away from JavaScript (XSS), Secure keeps it off
// plaintext HTTP, and SameSite=None lets the separately-hosted front-end
// send it on cross-site requests (None requires Secure). MaxAge matches the
// token's 7-day expiry so browser and token forget each other together.
func (h *UserHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	result, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    result.Token,
		Path:     "/",
		MaxAge:   result.MaxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})

	writeJSON(w, http.StatusOK, loginResponse{
		ID:     result.User.ID,
		Name:   result.User.Name,
		About:  result.User.About,
		Avatar: result.User.Avatar,
		Email:  result.User.Email,
	})
}

// HandleLogout clears the session cookie.
//
// HTTP: POST /signout
//
// Sessions are stateless, so "logout" just means deleting the client-side
// cookie; the token stays technically valid until its expiry, but without
// the cookie the browser can't send it.
func (h *UserHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // delete immediately
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "signed out"})
}

// HandleList returns all users.
//
// HTTP: GET /users
// Auth: required
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// HandleGetMe returns the authenticated user's own profile.
//
// HTTP: GET /users/me
// Auth: required (middleware put the userID in the context)
func (h *UserHandler) HandleGetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, but don't assume the wiring.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "authorization required",
		})
		return
	}

	user, err := h.users.GetCurrentUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleGetByID returns any user's profile by id.
//
// HTTP: GET /users/{userId}
// Auth: required
func (h *UserHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUserByID(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleUpdateProfile updates name/about on the authenticated user.
//
// HTTP: PATCH /users/me
// BODY: {"name", "about"}
func (h *UserHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "authorization required",
		})
		return
	}

	var req updateProfileRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), userID, req.Name, req.About)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleUpdateAvatar updates the avatar URL on the authenticated user.
//
// HTTP: PATCH /users/me/avatar
// BODY: {"avatar"}
func (h *UserHandler) HandleUpdateAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "authorization required",
		})
		return
	}

	var req updateAvatarRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	user, err := h.users.UpdateAvatar(r.Context(), userID, req.Avatar)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
