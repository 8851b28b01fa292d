package orders

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shipline/shipline/internal/platform/httpx"
	"github.com/shipline/shipline/internal/shared"
)

// Handler exposes the confirmed-order lifecycle over HTTP.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches the staff order endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/accept", h.Accept)
	r.Post("/reject", h.Reject)
	r.Get("/last-tracking", h.LastTracking)
	r.Get("/consignees", h.SearchConsignees)
}

// Accept confirms a pending order, either assigning a rider or marking an
// office-counter handover.
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	req := AcceptRequest{
		Reference:   r.PostFormValue("reference"),
		RiderID:     r.PostFormValue("d_id"),
		TrackingNo:  r.PostFormValue("cslj_no"),
		ServiceType: r.PostFormValue("s_type"),
	}
	if req.Reference == "" {
		httpx.Fail(w, http.StatusBadRequest, "Reference is required.")
		return
	}

	if err := h.service.Accept(r.Context(), req); err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			h.logger.Error("accept order failed",
				slog.String("reference", req.Reference), slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Order accepted successfully.", nil)
}

// Reject flags an order rejected. The intake form posts the reference in the
// id field.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	reference := r.PostFormValue("id")
	if reference == "" {
		reference = r.PostFormValue("reference")
	}

	if err := h.service.Reject(r.Context(), reference); err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			h.logger.Error("reject order failed",
				slog.String("reference", reference), slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Order rejected successfully.", nil)
}

// LastTracking returns the most recently assigned tracking number, or null
// when none has been assigned yet.
func (h *Handler) LastTracking(w http.ResponseWriter, r *http.Request) {
	trackingNo, err := h.service.LastTrackingNo(r.Context())
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.OK(w, "", map[string]any{"cslj_no": nil})
			return
		}
		h.logger.Error("last tracking lookup failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "", map[string]any{"cslj_no": trackingNo})
}

// SearchConsignees lists the calling account's previous recipients.
func (h *Handler) SearchConsignees(w http.ResponseWriter, r *http.Request) {
	identity, _ := shared.IdentityFromContext(r.Context())
	term := r.URL.Query().Get("term")

	consignees, err := h.service.SearchConsignees(r.Context(), identity.AccountNo, term)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if len(consignees) == 0 {
		httpx.Fail(w, http.StatusNotFound, "No consignees found")
		return
	}
	httpx.OK(w, "", consignees)
}
