package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"localmart-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

type authResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var input RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	u, token, err := h.svc.Register(r.Context(), input)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			utils.WriteJSONError(w, err.Error(), http.StatusConflict)
			return
		}
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, authResponse{Token: token, User: u})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var input LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	u, token, err := h.svc.Login(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			utils.WriteJSONError(w, err.Error(), http.StatusUnauthorized)
		case errors.Is(err, ErrAccountDeactivated):
			utils.WriteJSONError(w, err.Error(), http.StatusForbidden)
		default:
			utils.WriteJSONError(w, "login failed", http.StatusInternalServerError)
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, authResponse{Token: token, User: u})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	u, err := h.svc.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		utils.WriteJSONError(w, "failed to load profile", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var input UpdateProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	u, err := h.svc.UpdateProfile(r.Context(), userID, input)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	utils.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) ListVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.svc.ListVendors(r.Context())
	if err != nil {
		utils.WriteJSONError(w, "failed to load vendors", http.StatusInternalServerError)
		return
	}
	if vendors == nil {
		vendors = []*Vendor{}
	}
	utils.WriteJSON(w, http.StatusOK, vendors)
}

func (h *Handler) GetVendor(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid vendor id", http.StatusBadRequest)
		return
	}

	v, err := h.svc.GetVendor(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			utils.WriteJSONError(w, "vendor not found", http.StatusNotFound)
			return
		}
		utils.WriteJSONError(w, "failed to load vendor", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, v)
}
