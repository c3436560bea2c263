package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/apparelops/lot-tracker/internal/repo"
)

// AddProductHandler godoc
// @Summary Add stock for a lot
// @Description Creates a new lot or restocks the existing one matching design/size/color
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body ProductRequest true "Lot to add"
// @Success 200 {object} ProductResponse "Restocked existing lot"
// @Success 201 {object} ProductResponse "Created new lot"
// @Failure 400 {array} ProductValidationError
// @Router /products [post]
func AddProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateProduct(req)
	if len(validationErrors) > 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(validationErrors)
		return
	}

	result, err := inventoryRepo.Add(r.Context(), req.Design, req.Size, req.Color, req.Quantity, req.Price)
	if err != nil {
		if errors.Is(err, repo.ErrInvalidQuantity) || errors.Is(err, repo.ErrInvalidPrice) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("could not add product: %v", err)
		http.Error(w, "could not add product", http.StatusInternalServerError)
		return
	}

	status := http.StatusCreated
	if result.Restocked {
		status = http.StatusOK
	}
	writeJSON(w, status, toProductResponse(result.Product, result.Restocked))
}

// GetProductsHandler godoc
// @Summary List all lots in collection order
// @Tags products
// @Produce json
// @Param sort query string false "Sort criterion: design, stock, code or sold"
// @Success 200 {array} ProductResponse
// @Router /products [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	var products = inventoryRepo.All()
	if criterion := r.URL.Query().Get("sort"); criterion != "" {
		products = inventoryRepo.SortBy(criterion)
	}

	response := make([]ProductResponse, len(products))
	for i, p := range products {
		response[i] = toProductResponse(p, false)
	}
	writeJSON(w, http.StatusOK, response)
}

// GetProductByCodeHandler godoc
// @Summary Get a lot by its code
// @Tags products
// @Produce json
// @Param code path string true "Lot code"
// @Success 200 {object} ProductResponse
// @Failure 404 {string} string "Not found"
// @Router /products/{code} [get]
func GetProductByCodeHandler(w http.ResponseWriter, r *http.Request) {
	productCode := chi.URLParam(r, "code")

	product, err := inventoryRepo.GetByCode(productCode)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch product", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product, false))
}

// SearchProductsHandler godoc
// @Summary Search lots by design name or code
// @Tags products
// @Produce json
// @Param q query string true "Substring to match, case-insensitive"
// @Success 200 {object} ProductsSearchResult
// @Router /products/search [get]
func SearchProductsHandler(w http.ResponseWriter, r *http.Request) {
	matches := inventoryRepo.Search(r.URL.Query().Get("q"))

	resp := ProductsSearchResult{
		Data: make([]ProductResponse, len(matches)),
		Meta: Meta{TotalCount: len(matches)},
	}
	for i, p := range matches {
		resp.Data[i] = toProductResponse(p, false)
	}
	writeJSON(w, http.StatusOK, resp)
}

// SellProductHandler godoc
// @Summary Sell one unit of a lot
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param code path string true "Lot code"
// @Success 200 {object} ProductResponse
// @Failure 404 {string} string "Unknown code"
// @Failure 409 {string} string "Out of stock"
// @Router /products/{code}/sell [post]
func SellProductHandler(w http.ResponseWriter, r *http.Request) {
	productCode := chi.URLParam(r, "code")

	product, err := inventoryRepo.Sell(r.Context(), productCode)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrProductNotFound):
			http.Error(w, "product not found", http.StatusNotFound)
		case errors.Is(err, repo.ErrOutOfStock):
			http.Error(w, "product out of stock", http.StatusConflict)
		default:
			log.Printf("could not sell product %s: %v", productCode, err)
			http.Error(w, "could not sell product", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product, false))
}
