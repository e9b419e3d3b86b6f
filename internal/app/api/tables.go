package api

import (
	"encoding/json"
	"net/http"

	"barpos/internal/domain"
)

type tableBody struct {
	Number   int `json:"number"`
	Capacity int `json:"capacity"`
}

type tableView struct {
	ID       int64  `json:"id"`
	Number   int    `json:"number"`
	Capacity int    `json:"capacity"`
	Status   string `json:"status"`
}

func toTableView(t domain.Table) tableView {
	return tableView{ID: t.ID, Number: t.Number, Capacity: t.Capacity, Status: string(t.Status)}
}

// Floor is the waiter view: all tables with their open-order total.
func (h *Handlers) Floor(w http.ResponseWriter, r *http.Request) {
	floor, err := h.tables.Floor(r.Context())
	if err != nil {
		h.writeErr(w, err)
		return
	}
	type entry struct {
		ID             int64  `json:"id"`
		Number         int    `json:"number"`
		Capacity       int    `json:"capacity"`
		Status         string `json:"status"`
		OpenOrderID    *int64 `json:"open_order_id,omitempty"`
		OpenOrderTotal string `json:"open_order_total"`
	}
	out := make([]entry, 0, len(floor))
	for _, t := range floor {
		out = append(out, entry{
			ID: t.ID, Number: t.Number, Capacity: t.Capacity, Status: string(t.Status),
			OpenOrderID: t.OpenOrderID, OpenOrderTotal: t.OpenOrderTotal.StringFixed(2),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"tables": out})
}

func (h *Handlers) ListTables(w http.ResponseWriter, r *http.Request) {
	page, err := h.tables.List(r.Context(), atoiDefault(r.URL.Query().Get("page"), 1))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	views := make([]tableView, 0, len(page.Tables))
	for _, t := range page.Tables {
		views = append(views, toTableView(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tables": views, "total": page.Total, "page": page.Page, "per_page": page.PerPage,
	})
}

func (h *Handlers) AddTable(w http.ResponseWriter, r *http.Request) {
	var body tableBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	t, err := h.tables.Add(r.Context(), body.Number, body.Capacity)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.log.Info("table_added", map[string]any{"number": t.Number})
	writeJSON(w, http.StatusCreated, toTableView(t))
}

func (h *Handlers) EditTable(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeErr(w, err)
		return
	}
	var body tableBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	t, err := h.tables.Edit(r.Context(), id, body.Number, body.Capacity)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTableView(t))
}

func (h *Handlers) DeleteTable(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if err := h.tables.Delete(r.Context(), id); err != nil {
		h.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}
