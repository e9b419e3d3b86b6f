package api

import (
	"encoding/json"
	"net/http"

	"barpos/internal/auth"
	"barpos/internal/domain"
)

type userView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func toUserView(u domain.User) userView {
	return userView{ID: u.ID, Username: u.Username, Role: u.Role}
}

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := h.users.List(r.Context(), atoiDefault(r.URL.Query().Get("page"), 1))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	views := make([]userView, 0, len(page.Users))
	for _, u := range page.Users {
		views = append(views, toUserView(u))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"users": views, "total": page.Total, "page": page.Page, "per_page": page.PerPage,
	})
}

func (h *Handlers) AddUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	u, err := h.users.Add(r.Context(), body.Username, body.Password, body.Role)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.log.Info("user_added", map[string]any{"username": u.Username, "role": u.Role})
	writeJSON(w, http.StatusCreated, toUserView(u))
}

func (h *Handlers) EditUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeErr(w, err)
		return
	}
	var body struct {
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	u, err := h.users.Edit(r.Context(), id, body.Password, body.Role)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserView(u))
}

func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeErr(w, err)
		return
	}
	session, _ := auth.FromContext(r.Context())
	if err := h.users.Delete(r.Context(), id, session.UserID); err != nil {
		h.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}
