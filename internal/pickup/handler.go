package pickup

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/shipline/shipline/internal/platform/httpx"
	"github.com/shipline/shipline/internal/shared"
	"github.com/shipline/shipline/internal/storage"
)

// Sri Lankan local (0XXXXXXXXX) or Japan international (+81...) numbers.
var contactPattern = regexp.MustCompile(`^(0\d{9}|(\+81\d{10,11}))$`)

const maxUploadBytes = 32 << 20

// Handler exposes the pickup-request lifecycle over HTTP.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
	files    storage.Store
}

// NewHandler constructs the handler.
func NewHandler(logger *slog.Logger, service *Service, files storage.Store) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New(), files: files}
}

// MountRoutes attaches the pickup-request endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.Intake)
	r.Post("/guest", h.GuestIntake)
	r.Get("/drafts", h.Drafts)
	r.Get("/contacts", h.Contacts)
	r.Get("/passports", h.Passports)
	r.Post("/delete", h.Delete)
	r.Get("/{id}", h.Resume)
}

// Intake handles the authenticated multipart intake form. The action field
// selects save (keep drafting) or finalize (promote to confirmed order).
func (h *Handler) Intake(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid form submission")
		return
	}

	form := IntakeForm{
		ID:                  formInt(r, "order_id"),
		Reference:           r.FormValue("reference"),
		TrackingNo:          r.FormValue("cslj_no"),
		SenderName:          r.FormValue("shipper_name"),
		SenderTel:           r.FormValue("shipper_contact"),
		SenderAddress:       r.FormValue("shipper_address"),
		SenderCity:          r.FormValue("shipper_city"),
		SenderMail:          r.FormValue("shipper_mail"),
		RecipientName:       r.FormValue("consignee_name"),
		RecipientName2:      r.FormValue("other_consignee_names"),
		RecipientContact:    r.FormValue("consignee_contact"),
		RecipientAddress:    r.FormValue("consignee_address"),
		RecipientCity:       r.FormValue("consignee_city"),
		RecipientPassportNo: r.FormValue("consignee_passport_no"),
		ServiceType:         r.FormValue("service_type"),
		PaymentMethod:       r.FormValue("payment_method"),
		BoxID:               formInt(r, "box_size_id"),
		RiderID:             r.FormValue("assigned_rider"),
		AgentID:             formInt(r, "collecting_agent_id"),
		AgentLocationID:     formInt(r, "location_id"),
		PassportNumber:      r.FormValue("passport_no"),
		PostalCode:          r.FormValue("postal_code"),
		Gift:                r.FormValue("gift"),
	}

	if !contactPattern.MatchString(form.SenderTel) {
		httpx.Fail(w, http.StatusBadRequest, "Invalid Sender Contact Number.")
		return
	}
	if !contactPattern.MatchString(form.RecipientContact) {
		httpx.Fail(w, http.StatusBadRequest, "Invalid Recipient Contact Number.")
		return
	}

	var err error
	form.PassportPhoto, err = h.storeUpload(r, "passport_image", "passport_photo_url")
	if err != nil {
		h.logger.Error("sender passport upload failed", slog.Any("error", err))
		httpx.Fail(w, http.StatusBadRequest, "Failed to store passport photo")
		return
	}
	form.RecipientPassportPhoto, err = h.storeUpload(r, "consignee_passport_image", "consignee_passport_url")
	if err != nil {
		h.logger.Error("recipient passport upload failed", slog.Any("error", err))
		httpx.Fail(w, http.StatusBadRequest, "Failed to store passport photo")
		return
	}

	identity, _ := shared.IdentityFromContext(r.Context())
	action := r.FormValue("action")

	var result SaveResult
	if action == "save" {
		result, err = h.service.Save(r.Context(), identity, form)
	} else {
		action = "finalize"
		result, err = h.service.Finalize(r.Context(), identity, form)
	}
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			h.logger.Error("intake failed",
				slog.String("action", action),
				slog.Int64("order_id", form.ID),
				slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, httpx.Envelope{
		Status:  http.StatusOK,
		Message: fmt.Sprintf("Parcel Added successfully! Order ID: %d", result.ID),
		Data: map[string]any{
			"action":    action,
			"id":        result.ID,
			"reference": result.Reference,
		},
		Success: true,
	})
}

// GuestIntake handles the walk-in form with field-level validation.
func (h *Handler) GuestIntake(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid form submission")
		return
	}

	req := GuestIntakeRequest{
		WaybillID:        r.FormValue("waybill_id"),
		ParcelType:       r.FormValue("parcel_type"),
		Description:      r.FormValue("description"),
		RecipientName:    r.FormValue("recipient_name"),
		RecipientContact: r.FormValue("recipient_contact"),
		RecipientAddress: r.FormValue("recipient_address"),
		RecipientCity:    r.FormValue("recipient_city"),
		PaymentMethod:    r.FormValue("payment_method"),
		BoxSize:          r.FormValue("box_sizes"),
		SenderName:       r.FormValue("sender_name"),
		SenderContact:    r.FormValue("sender_contact"),
		SenderAddress:    r.FormValue("sender_address"),
		SenderCity:       r.FormValue("sender_city"),
		SenderEmail:      r.FormValue("sender_email"),
		PassportNumber:   r.FormValue("passport_number"),
		CustomWidth:      formFloat(r, "custom_width"),
		CustomHeight:     formFloat(r, "custom_height"),
		CustomLength:     formFloat(r, "custom_length"),
		CustomPrice:      formFloat(r, "amount"),
	}

	if err := h.validate.Struct(req); err != nil {
		httpx.FailFields(w, "Validation failed", fieldErrors(err))
		return
	}

	photo, err := h.storeUpload(r, "passport_photo", "")
	if err != nil {
		h.logger.Error("guest passport upload failed", slog.Any("error", err))
		httpx.Fail(w, http.StatusBadRequest, "Failed to store passport photo")
		return
	}
	req.PassportPhoto = photo

	identity, _ := shared.IdentityFromContext(r.Context())
	result, err := h.service.GuestIntake(r.Context(), identity, req)
	if err != nil {
		h.logger.Error("guest intake failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.OK(w, fmt.Sprintf("Parcel Added successfully! Order ID: %d", result.ID),
		map[string]any{"id": result.ID, "reference": result.Reference})
}

// Resume returns one draft by id for cross-session editing.
func (h *Handler) Resume(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	request, err := h.service.Resume(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "", request)
}

// Drafts lists the calling account's open drafts.
func (h *Handler) Drafts(w http.ResponseWriter, r *http.Request) {
	identity, _ := shared.IdentityFromContext(r.Context())

	drafts, err := h.service.OpenDrafts(r.Context(), identity.AccountNo)
	if err != nil {
		h.logger.Error("list drafts failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "", drafts)
}

// Contacts matches previous sender contact numbers for autocomplete.
func (h *Handler) Contacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.service.SearchContacts(r.Context(), r.URL.Query().Get("term"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if len(contacts) == 0 {
		httpx.Fail(w, http.StatusNotFound, "No contacts found")
		return
	}
	httpx.OK(w, "", contacts)
}

// Passports matches previous sender passport numbers for autocomplete.
func (h *Handler) Passports(w http.ResponseWriter, r *http.Request) {
	passports, err := h.service.SearchPassports(r.Context(), r.URL.Query().Get("term"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if len(passports) == 0 {
		httpx.Fail(w, http.StatusNotFound, "No passport numbers found")
		return
	}
	httpx.OK(w, "", passports)
}

// Delete removes a draft order and everything under its reference.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ref := r.PostFormValue("reference")
	if err := h.service.DeleteOrder(r.Context(), ref); err != nil {
		h.logger.Error("delete order failed", slog.String("reference", ref), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Order deleted successfully", nil)
}

// storeUpload saves the multipart file under field when present, otherwise
// falls back to the token the client already holds in urlField.
func (h *Handler) storeUpload(r *http.Request, field, urlField string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			if urlField == "" {
				return "", nil
			}
			return r.FormValue(urlField), nil
		}
		return "", err
	}
	defer file.Close()

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
	return h.files.Save(r.Context(), ext, file)
}

func formFloat(r *http.Request, field string) float64 {
	v, _ := strconv.ParseFloat(r.FormValue(field), 64)
	return v
}

func formInt(r *http.Request, field string) int64 {
	v, _ := strconv.ParseInt(r.FormValue(field), 10, 64)
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
