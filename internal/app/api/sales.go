package api

import (
	"net/http"

	"barpos/internal/sales"
)

func (h *Handlers) SalesLog(w http.ResponseWriter, r *http.Request) {
	page, err := h.sales.Log(r.Context(), sales.LogRequest{
		Date: r.URL.Query().Get("date"),
		Page: atoiDefault(r.URL.Query().Get("page"), 1),
	})
	if err != nil {
		h.writeErr(w, err)
		return
	}
	views := make([]orderView, 0, len(page.Orders))
	for _, o := range page.Orders {
		views = append(views, toOrderView(o))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sales":          views,
		"total":          page.Total,
		"page":           page.Page,
		"per_page":       page.PerPage,
		"total_sales":    page.Totals.Total.StringFixed(2),
		"total_dine_in":  page.Totals.DineIn.StringFixed(2),
		"total_takeaway": page.Totals.Takeaway.StringFixed(2),
	})
}

func (h *Handlers) SaleDetail(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeErr(w, err)
		return
	}
	order, err := h.sales.Detail(r.Context(), id)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderView(order))
}

func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.sales.Dashboard(r.Context())
	if err != nil {
		h.writeErr(w, err)
		return
	}
	top := make([]map[string]any, 0, len(stats.TopProducts))
	for _, tp := range stats.TopProducts {
		top = append(top, map[string]any{"name": tp.Name, "quantity": tp.Quantity})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sales_today":          stats.SalesToday.Total.StringFixed(2),
		"sales_today_dine_in":  stats.SalesToday.DineIn.StringFixed(2),
		"sales_today_takeaway": stats.SalesToday.Takeaway.StringFixed(2),
		"open_orders":          stats.OpenOrderCount,
		"occupied_tables":      stats.OccupiedTableCount,
		"top_products":         top,
	})
}
