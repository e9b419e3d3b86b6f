package api

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"barpos/internal/catalog"
	"barpos/internal/domain"
)

type productBody struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	Stock    int             `json:"stock"`
}

type productView struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	Stock    int             `json:"stock"`
}

func toProductView(p domain.Product) productView {
	return productView{ID: p.ID, Name: p.Name, Price: p.Price, Category: p.Category, Stock: p.Stock}
}

func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, err := h.catalog.List(r.Context(), catalog.ListRequest{
		SearchName: r.URL.Query().Get("search_name"),
		Category:   r.URL.Query().Get("category"),
		Page:       atoiDefault(r.URL.Query().Get("page"), 1),
	})
	if err != nil {
		h.writeErr(w, err)
		return
	}
	views := make([]productView, 0, len(page.Products))
	for _, p := range page.Products {
		views = append(views, toProductView(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"products": views, "total": page.Total, "page": page.Page, "per_page": page.PerPage,
	})
}

func (h *Handlers) AddProduct(w http.ResponseWriter, r *http.Request) {
	var body productBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	p, err := h.catalog.Add(r.Context(), catalog.ProductInput{
		Name: body.Name, Price: body.Price, Category: body.Category, Stock: body.Stock,
	})
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.log.Info("product_added", map[string]any{"product": p.Name})
	writeJSON(w, http.StatusCreated, toProductView(p))
}

func (h *Handlers) EditProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeErr(w, err)
		return
	}
	var body productBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	p, err := h.catalog.Edit(r.Context(), id, catalog.ProductInput{
		Name: body.Name, Price: body.Price, Category: body.Category, Stock: body.Stock,
	})
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductView(p))
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if err := h.catalog.Delete(r.Context(), id); err != nil {
		h.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

func (h *Handlers) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.catalog.Categories(r.Context())
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

func (h *Handlers) Menu(w http.ResponseWriter, r *http.Request) {
	sections, err := h.catalog.Menu(r.Context())
	if err != nil {
		h.writeErr(w, err)
		return
	}
	type section struct {
		Category string        `json:"category"`
		Products []productView `json:"products"`
	}
	out := make([]section, 0, len(sections))
	for _, sec := range sections {
		s := section{Category: sec.Category}
		for _, p := range sec.Products {
			s.Products = append(s.Products, toProductView(p))
		}
		out = append(out, s)
	}
	writeJSON(w, http.StatusOK, map[string]any{"menu": out})
}
