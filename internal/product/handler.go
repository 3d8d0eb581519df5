package product

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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	opts := QueryOptions{
		Category: r.URL.Query().Get("category"),
		City:     r.URL.Query().Get("city"),
		Search:   r.URL.Query().Get("search"),
		Limit:    utils.QueryInt(r, "limit", 50, 100),
		Page:     utils.QueryInt(r, "page", 1, 0),
	}
	if vendorID := r.URL.Query().Get("vendor"); vendorID != "" {
		id, err := utils.ToUint(vendorID)
		if err != nil {
			utils.WriteJSONError(w, "invalid vendor id", http.StatusBadRequest)
			return
		}
		opts.VendorID = id
	}

	products, err := h.svc.GetList(r.Context(), opts)
	if err != nil {
		utils.WriteJSONError(w, "failed to load products", http.StatusInternalServerError)
		return
	}
	if products == nil {
		products = []*Product{}
	}
	utils.WriteJSON(w, http.StatusOK, products)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid product id", http.StatusBadRequest)
		return
	}

	p, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		utils.WriteJSONError(w, "failed to load product", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Categories(r.Context())
	if err != nil {
		utils.WriteJSONError(w, "failed to load categories", http.StatusInternalServerError)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	utils.WriteJSON(w, http.StatusOK, categories)
}

func (h *Handler) Cities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.svc.Cities(r.Context())
	if err != nil {
		utils.WriteJSONError(w, "failed to load cities", http.StatusInternalServerError)
		return
	}
	if cities == nil {
		cities = []string{}
	}
	utils.WriteJSON(w, http.StatusOK, cities)
}

// MyProducts lists the authenticated vendor's own catalog, inactive
// products included.
func (h *Handler) MyProducts(w http.ResponseWriter, r *http.Request) {
	vendorID, _ := utils.GetUserIDFromContext(r.Context())

	products, err := h.svc.GetVendorProducts(
		r.Context(),
		vendorID,
		utils.QueryInt(r, "limit", 20, 100),
		utils.QueryInt(r, "page", 1, 0),
	)
	if err != nil {
		utils.WriteJSONError(w, "failed to load products", http.StatusInternalServerError)
		return
	}
	if products == nil {
		products = []*Product{}
	}
	utils.WriteJSON(w, http.StatusOK, products)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	vendorID, _ := utils.GetUserIDFromContext(r.Context())

	var input NewProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.svc.Create(r.Context(), vendorID, input)
	if err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	vendorID, _ := utils.GetUserIDFromContext(r.Context())

	id, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid product id", http.StatusBadRequest)
		return
	}

	var input UpdateProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.svc.Update(r.Context(), vendorID, id, input)
	if err != nil {
		switch {
		case errors.Is(err, ErrProductNotFound):
			utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ErrNotOwner):
			utils.WriteJSONError(w, err.Error(), http.StatusForbidden)
		default:
			utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	vendorID, _ := utils.GetUserIDFromContext(r.Context())

	id, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid product id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), vendorID, id); err != nil {
		switch {
		case errors.Is(err, ErrProductNotFound):
			utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ErrNotOwner):
			utils.WriteJSONError(w, err.Error(), http.StatusForbidden)
		default:
			utils.WriteJSONError(w, "failed to delete product", http.StatusInternalServerError)
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "product removed"})
}
