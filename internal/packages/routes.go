package packages

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes attaches the package ledger endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.Add)
	r.Post("/list", h.List)
	r.Post("/delete", h.Delete)
	r.Post("/payment-total", h.PaymentTotal)
}

// MountExtraFeeRoutes attaches the surcharge endpoints.
func (h *Handler) MountExtraFeeRoutes(r chi.Router) {
	r.Post("/", h.AddExtraFee)
	r.Post("/update", h.UpdateExtraFee)
	r.Get("/", h.ListExtraFees)
}
