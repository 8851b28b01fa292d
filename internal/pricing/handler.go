package pricing

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/shipline/shipline/internal/platform/httpx"
)

// Handler exposes live price previews over HTTP.
type Handler struct {
	logger   *slog.Logger
	validate *validator.Validate
}

// NewHandler constructs the pricing handler.
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger, validate: validator.New()}
}

// MountRoutes attaches pricing endpoints to the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/volume", h.CalculateVolumePrice)
	r.Post("/weight", h.CalculateWeightPrice)
}

type weightForm struct {
	Weight float64 `validate:"required,gt=0,lte=1000"`
}

// CalculateVolumePrice quotes a price for the posted dimensions.
func (h *Handler) CalculateVolumePrice(w http.ResponseWriter, r *http.Request) {
	width, errW := strconv.ParseFloat(r.PostFormValue("width"), 64)
	height, errH := strconv.ParseFloat(r.PostFormValue("height"), 64)
	length, errL := strconv.ParseFloat(r.PostFormValue("length"), 64)
	if errW != nil || errH != nil || errL != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid dimensions")
		return
	}

	volume := Volume(width, height, length)
	price := PriceByVolume(volume)

	httpx.OK(w, "", map[string]any{
		"volume": math.Round(volume*1000) / 1000,
		"price":  price,
	})
}

// CalculateWeightPrice quotes a price for the posted weight.
func (h *Handler) CalculateWeightPrice(w http.ResponseWriter, r *http.Request) {
	weight, err := strconv.ParseFloat(r.PostFormValue("weight"), 64)
	if err != nil {
		httpx.FailFields(w, "Validation failed", map[string]string{"weight": "weight must be numeric"})
		return
	}
	if err := h.validate.Struct(weightForm{Weight: weight}); err != nil {
		httpx.FailFields(w, "Validation failed", map[string]string{"weight": "weight must be greater than 0 and at most 1000"})
		return
	}

	quote, err := PriceByWeight(weight)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	httpx.OK(w, quote.Message, map[string]any{
		"price": quote.Price,
	})
}
