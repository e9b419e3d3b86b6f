package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"barpos/internal/auth"
	"barpos/internal/domain"
)

func Router(h *Handlers) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", h.Login)

		// staff and admin
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate(h.sessions))
			r.Use(auth.RequireRole(domain.RoleAdmin, domain.RoleStaff))

			r.Post("/auth/logout", h.Logout)
			r.Get("/menu", h.Menu)

			r.Get("/tables", h.Floor)
			r.Post("/tables/{id}/order", h.StartDineInOrder)
			r.Post("/tables/{id}/liberate", h.LiberateTable)

			r.Post("/orders/takeaway", h.StartTakeawayOrder)
			r.Get("/orders/takeaway", h.ListTakeaway)
			r.Get("/orders/{id}", h.GetOrder)
			r.Put("/orders/{id}/customer", h.UpdateCustomer)
			r.Post("/orders/{id}/items", h.AddItem)
			r.Delete("/order-items/{id}", h.RemoveItem)
			r.Post("/orders/{id}/pay", h.MarkPaid)
			r.Post("/orders/{id}/cancel", h.CancelOrder)
			r.Delete("/orders/{id}", h.DeleteProcessedOrder)
		})

		// admin only
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate(h.sessions))
			r.Use(auth.RequireRole(domain.RoleAdmin))

			r.Get("/products", h.ListProducts)
			r.Post("/products", h.AddProduct)
			r.Put("/products/{id}", h.EditProduct)
			r.Delete("/products/{id}", h.DeleteProduct)
			r.Get("/categories", h.Categories)

			r.Get("/tables/all", h.ListTables)
			r.Post("/tables", h.AddTable)
			r.Put("/tables/{id}", h.EditTable)
			r.Delete("/tables/{id}", h.DeleteTable)

			r.Get("/users", h.ListUsers)
			r.Post("/users", h.AddUser)
			r.Put("/users/{id}", h.EditUser)
			r.Delete("/users/{id}", h.DeleteUser)

			r.Post("/orders/{id}/annul", h.AnnulSale)
			r.Get("/sales", h.SalesLog)
			r.Get("/sales/{id}", h.SaleDetail)
			r.Get("/dashboard", h.Dashboard)
		})
	})
	return r
}
