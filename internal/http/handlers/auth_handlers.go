package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"mobypark/internal/http/middleware"
	"mobypark/internal/service"
)

// NewRegisterHandler handles POST /register.
func NewRegisterHandler(auth *service.AuthService) http.HandlerFunc {
	type request struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Role     string `json:"role"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		_, err := auth.Register(r.Context(), service.RegisterInput{
			Username: req.Username,
			Password: req.Password,
			Name:     req.Name,
			Email:    req.Email,
			Phone:    req.Phone,
			Role:     req.Role,
		})
		if err != nil {
			if writeValidationError(w, err) {
				return
			}
			if errors.Is(err, service.ErrUsernameTaken) {
				writeError(w, http.StatusConflict, "username already taken")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to register")
			return
		}

		writeJSON(w, http.StatusCreated, map[string]string{"message": "User created"})
	}
}

// NewLoginHandler handles POST /login.
func NewLoginHandler(auth *service.AuthService) http.HandlerFunc {
	type request struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	type response struct {
		Message      string `json:"message"`
		SessionToken string `json:"session_token"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		login := strings.TrimSpace(req.Email)
		if login == "" {
			login = strings.TrimSpace(req.Username)
		}
		if login == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "email or username and password are required")
			return
		}

		token, _, err := auth.Login(r.Context(), login, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				writeError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to login")
			return
		}

		writeJSON(w, http.StatusOK, response{
			Message:      "Login successful",
			SessionToken: token,
		})
	}
}

// NewProfileHandler handles GET /profile.
func NewProfileHandler(auth *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.IdentityFromContext(r.Context())

		user, err := auth.Profile(r.Context(), identity.UserID)
		if err != nil {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"username": user.Username,
			"name":     user.Name,
			"role":     user.Role,
		})
	}
}

// NewUpdateProfileHandler handles PUT /profile.
func NewUpdateProfileHandler(auth *service.AuthService) http.HandlerFunc {
	type request struct {
		Name     *string `json:"name"`
		Password *string `json:"password"`
		Role     *string `json:"role"`
		Email    *string `json:"email"`
		Phone    *string `json:"phone"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.IdentityFromContext(r.Context())

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		err := auth.UpdateProfile(r.Context(), identity, service.ProfileUpdate{
			Name:     req.Name,
			Password: req.Password,
			Role:     req.Role,
			Email:    req.Email,
			Phone:    req.Phone,
		})
		if err != nil {
			if writeValidationError(w, err) {
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to update user")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "User updated successfully"})
	}
}

// NewLogoutHandler handles GET /logout.
func NewLogoutHandler(auth *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusBadRequest, "invalid session token")
			return
		}

		if err := auth.Logout(r.Context(), token); err != nil {
			if errors.Is(err, service.ErrInvalidToken) {
				writeError(w, http.StatusBadRequest, "invalid session token")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to logout")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "User logged out"})
	}
}
