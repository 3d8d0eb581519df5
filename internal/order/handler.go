package order

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

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	customerID, _ := utils.GetUserIDFromContext(r.Context())

	var input NewOrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	o, err := h.svc.CreateOrder(r.Context(), customerID, input)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, o)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	customerID, _ := utils.GetUserIDFromContext(r.Context())

	orders, err := h.svc.GetOrdersForCustomer(r.Context(), customerID)
	if err != nil {
		utils.WriteJSONError(w, "failed to load orders", http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []*Order{}
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	callerID, _ := utils.GetUserIDFromContext(r.Context())
	callerRole := utils.GetUserRoleFromContext(r.Context())

	orderID, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid order id", http.StatusBadRequest)
		return
	}

	o, err := h.svc.GetOrder(r.Context(), orderID, callerID, callerRole)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) ListForVendor(w http.ResponseWriter, r *http.Request) {
	vendorID, _ := utils.GetUserIDFromContext(r.Context())

	orders, err := h.svc.GetOrdersForVendor(
		r.Context(),
		vendorID,
		utils.QueryInt(r, "limit", 10, 100),
		utils.QueryInt(r, "page", 1, 0),
	)
	if err != nil {
		utils.WriteJSONError(w, "failed to load orders", http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []*Order{}
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}

type updateStatusInput struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	vendorID, _ := utils.GetUserIDFromContext(r.Context())

	orderID, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid order id", http.StatusBadRequest)
		return
	}

	var input updateStatusInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	o, err := h.svc.UpdateOrderStatus(r.Context(), orderID, input.Status, vendorID)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, o)
}

func writeOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrOrderNotFound):
		utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		utils.WriteJSONError(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrEmptyOrder),
		errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrTotalMismatch),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidTransition):
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		utils.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
	}
}
