package customers

import (
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/shipline/shipline/internal/platform/httpx"
	"github.com/shipline/shipline/internal/shared"
	"github.com/shipline/shipline/internal/storage"
)

const maxUploadBytes = 16 << 20

type passwordChangeRequest struct {
	CurrentPassword string `validate:"required"`
	NewPassword     string `validate:"required"`
	ConfirmPassword string `validate:"required"`
}

// Handler exposes the customer directory over HTTP.
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

// MountRoutes attaches the customer endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/search", h.Search)
	r.Get("/me", h.Me)
	r.Get("/me/passport", h.Passport)
	r.Post("/me/profile", h.UpdateProfile)
	r.Post("/me/password", h.ChangePassword)
}

// Search matches customers by name, phone or passport.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.Search(r.Context(), r.URL.Query().Get("term"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if len(results) == 0 {
		httpx.Fail(w, http.StatusNotFound, "No customers found")
		return
	}
	httpx.OK(w, "", results)
}

// Me returns the calling customer's directory row.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	identity, _ := shared.IdentityFromContext(r.Context())

	customer, err := h.service.Me(r.Context(), identity)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Fail(w, http.StatusNotFound, "Customer not found")
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "", customer)
}

// Passport returns the stored passport photo as a base64 data URI.
func (h *Handler) Passport(w http.ResponseWriter, r *http.Request) {
	identity, _ := shared.IdentityFromContext(r.Context())

	result, err := h.service.PassportPhoto(r.Context(), identity.AccountNo)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Fail(w, http.StatusNotFound, "Customer or passport photo not found")
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "", result)
}

// UpdateProfile overwrites the caller's profile from the multipart form.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid form submission")
		return
	}

	update := ProfileUpdate{
		FullName:  r.FormValue("customer_f_name"),
		Address:   r.FormValue("customer_address"),
		Passport:  r.FormValue("customer_pass_no"),
		Phone:     r.FormValue("customer_phone"),
		City:      r.FormValue("customer_city"),
		Zipcode:   r.FormValue("customer_zip_jp"),
		Email:     r.FormValue("customer_email"),
		NIC:       r.FormValue("customer_nic"),
		SLAddress: r.FormValue("customer_address_sl"),
		SLZipcode: r.FormValue("customer_zip_sl"),
		Mobile:    r.FormValue("customer_phone_sl"),
	}

	var err error
	update.ProfilePhoto, err = h.storeUpload(r, "customer_prof_pic")
	if err == nil {
		update.PassportPhoto, err = h.storeUpload(r, "customer_passport_book")
	}
	if err != nil {
		h.logger.Error("profile upload failed", slog.Any("error", err))
		httpx.Fail(w, http.StatusBadRequest, "Failed to store uploaded image")
		return
	}

	identity, _ := shared.IdentityFromContext(r.Context())
	if err := h.service.UpdateProfile(r.Context(), identity, update); err != nil {
		if !errors.Is(err, shared.ErrValidation) {
			h.logger.Error("profile update failed",
				slog.Int64("customer_id", identity.CustomerID), slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Successfully updated!", nil)
}

// ChangePassword rotates the caller's password.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	req := passwordChangeRequest{
		CurrentPassword: r.PostFormValue("current_password"),
		NewPassword:     r.PostFormValue("new_password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Please fill all the required fields!")
		return
	}

	identity, _ := shared.IdentityFromContext(r.Context())
	err := h.service.ChangePassword(r.Context(), identity,
		req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Password changed successfully!", nil)
}

func (h *Handler) storeUpload(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", err
	}
	defer file.Close()

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
	return h.files.Save(r.Context(), ext, file)
}
