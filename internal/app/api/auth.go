package api

import (
	"encoding/json"
	"net/http"
	"time"

	"barpos/internal/auth"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	user, err := h.users.Verify(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	token, err := h.sessions.Create(r.Context(), auth.Session{
		UserID: user.ID, Username: user.Username, Role: user.Role,
	})
	if err != nil {
		h.writeErr(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	h.log.Info("user_logged_in", map[string]any{"username": user.Username, "role": user.Role})
	writeJSON(w, http.StatusOK, map[string]any{"username": user.Username, "role": user.Role})
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		_ = h.sessions.Delete(r.Context(), cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{Name: auth.CookieName, Value: "", Path: "/", MaxAge: -1})
	writeJSON(w, http.StatusOK, map[string]any{"logged_out": true})
}
