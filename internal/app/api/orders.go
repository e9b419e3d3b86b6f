package api

import (
	"encoding/json"
	"net/http"
	"time"

	"barpos/internal/domain"
)

type orderView struct {
	ID            int64           `json:"id"`
	Type          string          `json:"type"`
	Status        string          `json:"status"`
	TableID       *int64          `json:"table_id,omitempty"`
	CustomerName  string          `json:"customer_name,omitempty"`
	TotalAmount   string          `json:"total_amount"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Lines         []orderLineView `json:"items,omitempty"`
}

type orderLineView struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name,omitempty"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

func toOrderView(o domain.Order) orderView {
	v := orderView{
		ID: o.ID, Type: string(o.Type), Status: string(o.Status),
		TableID: o.TableID, CustomerName: o.CustomerName,
		TotalAmount: o.TotalAmount.StringFixed(2), PaymentMethod: o.PaymentMethod,
		CreatedAt: o.CreatedAt, UpdatedAt: o.UpdatedAt,
	}
	for _, l := range o.Lines {
		v.Lines = append(v.Lines, toLineView(l))
	}
	return v
}

func toLineView(l domain.OrderLine) orderLineView {
	return orderLineView{
		ID: l.ID, ProductID: l.ProductID, Name: l.ProductName,
		Quantity: l.Quantity, UnitPrice: l.UnitPrice.StringFixed(2), Subtotal: l.Subtotal.StringFixed(2),
	}
}

func (h *Handlers) StartDineInOrder(w http.ResponseWriter, r *http.Request) {
	tableID, err := idParam(r, "id")
	if err != nil {
		h.writeErr(w, err)
		return
	}
	order, err := h.engine.StartDineInOrder(r.Context(), tableID)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.log.Info("order_started", map[string]any{"order_id": order.ID, "table_id": tableID})
	writeJSON(w, http.StatusCreated, toOrderView(order))
}

func (h *Handlers) StartTakeawayOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CustomerName string `json:"customer_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	order, err := h.engine.StartTakeawayOrder(r.Context(), body.CustomerName)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.log.Info("takeaway_started", map[string]any{"order_id": order.ID, "customer": order.CustomerName})
	writeJSON(w, http.StatusCreated, toOrderView(order))
}

func (h *Handlers) ListTakeaway(w http.ResponseWriter, r *http.Request) {
	orders, err := h.sales.ListTakeaway(r.Context())
	if err != nil {
		h.writeErr(w, err)
		return
	}
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, toOrderView(o))
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": views})
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
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

func (h *Handlers) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeErr(w, err)
		return
	}
	var body struct {
		CustomerName string `json:"customer_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	if err := h.engine.UpdateTakeawayCustomer(r.Context(), id, body.CustomerName); err != nil {
		h.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"updated": true})
}

func (h *Handlers) AddItem(w http.ResponseWriter, r *http.Request) {
	orderID, err := idParam(r, "id")
	if err != nil {
		h.writeErr(w, err)
		return
	}
	var body struct {
		ProductID int64 `json:"product_id"`
		Quantity  int   `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	if body.Quantity == 0 {
		body.Quantity = 1
	}
	res, err := h.engine.AddItem(r.Context(), orderID, body.ProductID, body.Quantity)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"item":          toLineView(res.Line),
		"order_total":   res.OrderTotal.StringFixed(2),
		"product_stock": res.ProductStock,
	})
}

func (h *Handlers) RemoveItem(w http.ResponseWriter, r *http.Request) {
	lineID, err := idParam(r, "id")
	if err != nil {
		h.writeErr(w, err)
		return
	}
	res, err := h.engine.RemoveItem(r.Context(), lineID)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"order_total":   res.OrderTotal.StringFixed(2),
		"product_stock": res.ProductStock,
	})
}

func (h *Handlers) MarkPaid(w http.ResponseWriter, r *http.Request) {
	orderID, err := idParam(r, "id")
	if err != nil {
		h.writeErr(w, err)
		return
	}
	var body struct {
		PaymentMethod string `json:"payment_method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	if err := h.engine.MarkPaid(r.Context(), orderID, body.PaymentMethod); err != nil {
		h.writeErr(w, err)
		return
	}
	h.log.Info("order_paid", map[string]any{"order_id": orderID, "method": body.PaymentMethod})
	writeJSON(w, http.StatusOK, map[string]any{"paid": true})
}

func (h *Handlers) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := idParam(r, "id")
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if err := h.engine.CancelOrder(r.Context(), orderID); err != nil {
		h.writeErr(w, err)
		return
	}
	h.log.Info("order_cancelled", map[string]any{"order_id": orderID})
	writeJSON(w, http.StatusOK, map[string]any{"cancelled": true})
}

func (h *Handlers) AnnulSale(w http.ResponseWriter, r *http.Request) {
	orderID, err := idParam(r, "id")
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if err := h.engine.AnnulSale(r.Context(), orderID); err != nil {
		h.writeErr(w, err)
		return
	}
	h.log.Info("sale_annulled", map[string]any{"order_id": orderID})
	writeJSON(w, http.StatusOK, map[string]any{"annulled": true})
}

func (h *Handlers) DeleteProcessedOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := idParam(r, "id")
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if err := h.engine.DeleteProcessedOrder(r.Context(), orderID); err != nil {
		h.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

func (h *Handlers) LiberateTable(w http.ResponseWriter, r *http.Request) {
	tableID, err := idParam(r, "id")
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if err := h.engine.LiberateTable(r.Context(), tableID); err != nil {
		h.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"liberated": true})
}
