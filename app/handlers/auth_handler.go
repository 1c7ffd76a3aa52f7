package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/Rakhulsr/supplierhub/app/helpers"
	"github.com/Rakhulsr/supplierhub/app/middlewares"
	"github.com/Rakhulsr/supplierhub/app/models"
	"github.com/Rakhulsr/supplierhub/app/services"
	"github.com/Rakhulsr/supplierhub/app/utils/sessions"
	"github.com/gorilla/csrf"
	"github.com/unrolled/render"
)

type AuthHandler struct {
	render       *render.Render
	auth         *services.AuthService
	suppliers    *services.SupplierService
	sessionStore sessions.SessionStore
}

func NewAuthHandler(r *render.Render, auth *services.AuthService, suppliers *services.SupplierService, sessionStore sessions.SessionStore) *AuthHandler {
	return &AuthHandler{
		render:       r,
		auth:         auth,
		suppliers:    suppliers,
		sessionStore: sessionStore,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// meResponse describes the logged-in account. Supplier is nil until
// onboarding is done.
type meResponse struct {
	User     *models.User     `json:"user"`
	Supplier *models.Supplier `json:"supplier"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := DecodeJSON(w, r, &in); err != nil {
		helpers.WriteError(h.render, w, "AuthHandler.Register", err)
		return
	}
	user, err := h.auth.Register(r.Context(), in)
	if err != nil {
		helpers.WriteError(h.render, w, "AuthHandler.Register", err)
		return
	}
	log.Printf("AuthHandler.Register: user %s registered", user.Email)
	_ = h.render.JSON(w, http.StatusCreated, map[string]interface{}{
		"user":    user,
		"message": "Account created. Check your email to verify your address.",
	})
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.VerifyEmail(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		helpers.WriteError(h.render, w, "AuthHandler.VerifyEmail", err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{
		"user":    user,
		"message": "Email verified. You can now log in.",
	})
}

func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var in emailRequest
	if err := DecodeJSON(w, r, &in); err != nil {
		helpers.WriteError(h.render, w, "AuthHandler.ResendVerification", err)
		return
	}
	if err := h.auth.ResendVerification(r.Context(), strings.TrimSpace(in.Email)); err != nil {
		helpers.WriteError(h.render, w, "AuthHandler.ResendVerification", err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, messageResponse{Message: "If the account exists and is unverified, a new link has been sent."})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := DecodeJSON(w, r, &in); err != nil {
		helpers.WriteError(h.render, w, "AuthHandler.Login", err)
		return
	}
	user, err := h.auth.Login(r.Context(), strings.TrimSpace(in.Email), in.Password)
	if err != nil {
		helpers.WriteError(h.render, w, "AuthHandler.Login", err)
		return
	}
	if err := h.sessionStore.SetUser(w, r, user.ID, user.Role); err != nil {
		log.Printf("AuthHandler.Login: Error setting user session: %v", err)
		helpers.WriteError(h.render, w, "AuthHandler.Login", err)
		return
	}
	log.Printf("AuthHandler.Login: user %s logged in", user.Email)
	h.writeMe(w, r, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionStore.ClearSession(w, r); err != nil {
		log.Printf("AuthHandler.Logout: Error clearing session: %v", err)
	}
	_ = h.render.JSON(w, http.StatusOK, messageResponse{Message: "Logged out."})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in emailRequest
	if err := DecodeJSON(w, r, &in); err != nil {
		helpers.WriteError(h.render, w, "AuthHandler.ForgotPassword", err)
		return
	}
	if err := h.auth.ForgotPassword(r.Context(), strings.TrimSpace(in.Email)); err != nil {
		helpers.WriteError(h.render, w, "AuthHandler.ForgotPassword", err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, messageResponse{Message: "If the account exists, a reset link has been sent."})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var in services.ResetPasswordInput
	if err := DecodeJSON(w, r, &in); err != nil {
		helpers.WriteError(h.render, w, "AuthHandler.ResetPassword", err)
		return
	}
	if err := h.auth.ResetPassword(r.Context(), in); err != nil {
		helpers.WriteError(h.render, w, "AuthHandler.ResetPassword", err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, messageResponse{Message: "Password updated. You can now log in."})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middlewares.CurrentUser(r)
	if user == nil {
		helpers.WriteError(h.render, w, "AuthHandler.Me", helpers.ErrUnauthorized)
		return
	}
	h.writeMe(w, r, user)
}

func (h *AuthHandler) writeMe(w http.ResponseWriter, r *http.Request, user *models.User) {
	resp := meResponse{User: user}
	if !user.IsAdmin() && h.suppliers != nil {
		supplier, err := h.suppliers.ForUser(r.Context(), user.ID)
		if err != nil {
			log.Printf("WARN AuthHandler.writeMe: load supplier for %s: %v", user.ID, err)
		}
		resp.Supplier = supplier
	}
	_ = h.render.JSON(w, http.StatusOK, resp)
}

// CSRFToken hands the token to script clients. It is empty when CSRF
// protection is disabled.
func (h *AuthHandler) CSRFToken(w http.ResponseWriter, r *http.Request) {
	_ = h.render.JSON(w, http.StatusOK, map[string]string{"csrfToken": csrf.Token(r)})
}
