package httpapi

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all fund and portfolio routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/funds", func(r chi.Router) {
		r.Get("/", h.HandleListFunds)              // All scheme codes
		r.Get("/{schemeCode}", h.HandleGetFund)    // Current fund details
		r.Get("/{schemeCode}/nav", h.HandleGetFund) // Current NAV (same payload)
	})

	r.Route("/portfolio", func(r chi.Router) {
		r.Post("/", h.HandleCreateHolding)    // Lump-sum purchase
		r.Get("/", h.HandleGetPortfolio)      // Current snapshot with totals
		r.Get("/history", h.HandleGetHistory) // Portfolio-value timeline

		r.Route("/{schemeCode}", func(r chi.Router) {
			r.Get("/", h.HandleGetHolding)       // Detail + monthly performance
			r.Patch("/", h.HandlePatchHolding)   // Edit invested amount
			r.Delete("/", h.HandleDeleteHolding) // Remove holding
			r.Put("/sip", h.HandleApplySip)      // Apply/extend SIP schedule
		})
	})
}
