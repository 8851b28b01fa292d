package packages

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/shipline/shipline/internal/platform/httpx"
)

// Handler exposes the package ledger over HTTP.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// Add stores one package line and echoes the enriched list for the reference.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	req := AddPackageRequest{
		Reference:    r.PostFormValue("reference"),
		PackageType:  r.PostFormValue("package_type"),
		Description:  r.PostFormValue("package_description"),
		BoxID:        formInt(r, "box_size"),
		Price:        formFloat(r, "package_price"),
		Weight:       formFloat(r, "package_weight"),
		Width:        formFloat(r, "width"),
		Height:       formFloat(r, "height"),
		Length:       formFloat(r, "length"),
		ChassisNo:    r.PostFormValue("chassie_no"),
		EngineNo:     r.PostFormValue("engine_no"),
		CustomSize:   r.PostFormValue("is_custom_size") == "1",
		CustomWidth:  formFloat(r, "custom_width"),
		CustomHeight: formFloat(r, "custom_height"),
		CustomLength: formFloat(r, "custom_length"),
		CustomWeight: formFloat(r, "custom_weight"),
		CustomPrice:  formFloat(r, "custom_price"),
		ExtraFee:     formFloat(r, "extra_fee"),
	}

	if err := h.validate.Struct(req); err != nil {
		httpx.FailFields(w, "Validation failed", fieldErrors(err))
		return
	}

	packageID, err := h.service.AddPackage(r.Context(), req)
	if err != nil {
		h.logger.Error("add package failed", slog.String("reference", req.Reference), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	list, err := h.service.ListPackages(r.Context(), req.Reference)
	if err != nil {
		h.logger.Error("list packages after add failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, httpx.Envelope{
		Status:  http.StatusOK,
		Message: "Package added successfully",
		Data:    map[string]any{"package_id": packageID, "packages": list},
		Success: true,
	})
}

// List returns the enriched packages for a reference. Missing packages are a
// 404 to mirror the intake form's polling behaviour.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	reference := r.PostFormValue("reference_id")
	if reference == "" {
		reference = r.PostFormValue("reference")
	}

	list, err := h.service.ListPackages(r.Context(), reference)
	if err != nil {
		h.logger.Error("list packages failed", slog.String("reference", reference), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if len(list) == 0 {
		httpx.Fail(w, http.StatusNotFound, "Package not found")
		return
	}
	httpx.OK(w, "", list)
}

// Delete removes a package and its fees.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	packageID := formInt(r, "package_id")
	reference := r.PostFormValue("reference")

	result, err := h.service.DeletePackage(r.Context(), packageID, reference)
	if err != nil {
		h.logger.Error("delete package failed", slog.Int64("package_id", packageID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Package deleted successfully", result)
}

// PaymentTotal reports the price and extra-fee sums for a reference.
func (h *Handler) PaymentTotal(w http.ResponseWriter, r *http.Request) {
	reference := r.PostFormValue("reference")
	totals, err := h.service.PaymentTotal(r.Context(), reference)
	if err != nil {
		h.logger.Error("payment total failed", slog.String("reference", reference), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "", totals)
}

// AddExtraFee records a staff-entered surcharge.
func (h *Handler) AddExtraFee(w http.ResponseWriter, r *http.Request) {
	req := AddExtraFeeRequest{
		Reference:   r.PostFormValue("reference"),
		PackageID:   formInt(r, "package_id"),
		Description: r.PostFormValue("description"),
		Amount:      formFloat(r, "amount"),
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.FailFields(w, "Validation failed", fieldErrors(err))
		return
	}

	id, err := h.service.AddExtraFee(r.Context(), req)
	if err != nil {
		h.logger.Error("add extra fee failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Extra fee added successfully", map[string]any{"id": id})
}

// UpdateExtraFee adjusts a surcharge and the weight on its package.
func (h *Handler) UpdateExtraFee(w http.ResponseWriter, r *http.Request) {
	req := UpdateExtraFeeRequest{
		ID:          formInt(r, "id"),
		PackageID:   formInt(r, "package_id"),
		Description: r.PostFormValue("description"),
		Weight:      formFloat(r, "weight"),
		Amount:      formFloat(r, "amount"),
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.FailFields(w, "Validation failed", fieldErrors(err))
		return
	}

	if err := h.service.UpdateExtraFee(r.Context(), req); err != nil {
		h.logger.Error("update extra fee failed", slog.Int64("id", req.ID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Extra fee updated successfully", nil)
}

// ListExtraFees returns the surcharges for a reference.
func (h *Handler) ListExtraFees(w http.ResponseWriter, r *http.Request) {
	reference := r.URL.Query().Get("reference")
	fees, err := h.service.ListExtraFees(r.Context(), reference)
	if err != nil {
		h.logger.Error("list extra fees failed", slog.String("reference", reference), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if len(fees) == 0 {
		httpx.Fail(w, http.StatusNotFound, "No extra fees found for this reference")
		return
	}
	httpx.OK(w, "", fees)
}

func formFloat(r *http.Request, field string) float64 {
	v, _ := strconv.ParseFloat(r.PostFormValue(field), 64)
	return v
}

func formInt(r *http.Request, field string) int64 {
	v, _ := strconv.ParseInt(r.PostFormValue(field), 10, 64)
	return v
}

func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			out[fe.Field()] = "failed " + fe.Tag() + " validation"
		}
	}
	return out
}
