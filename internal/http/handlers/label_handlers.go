package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/apparelops/lot-tracker/internal/labels"
	"github.com/apparelops/lot-tracker/internal/models"
	"github.com/apparelops/lot-tracker/internal/repo"
)

func labelProduct(w http.ResponseWriter, r *http.Request) (models.Product, int, bool) {
	productCode := chi.URLParam(r, "code")

	product, err := inventoryRepo.GetByCode(productCode)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
		} else {
			http.Error(w, "could not fetch product", http.StatusInternalServerError)
		}
		return models.Product{}, 0, false
	}

	quantity, err := strconv.Atoi(r.URL.Query().Get("quantity"))
	if err != nil || quantity < labels.MinQuantity || quantity > labels.MaxQuantity {
		http.Error(w, "quantity must be between 1 and 500", http.StatusBadRequest)
		return models.Product{}, 0, false
	}
	return product, quantity, true
}

// GetLabelLayoutHandler godoc
// @Summary Page layout for a bulk label run
// @Description Pages of 20 labels (4x5 grid); the last page may be partial
// @Tags labels
// @Produce json
// @Param code path string true "Lot code"
// @Param quantity query int true "Number of labels (1-500)"
// @Success 200 {object} LabelLayoutResult
// @Failure 400 {string} string "Invalid quantity"
// @Failure 404 {string} string "Not found"
// @Router /products/{code}/labels/layout [get]
func GetLabelLayoutHandler(w http.ResponseWriter, r *http.Request) {
	product, quantity, ok := labelProduct(w, r)
	if !ok {
		return
	}

	pages, err := labels.Paginate(product, quantity)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, LabelLayoutResult{
		Code:     product.Code,
		Quantity: quantity,
		Capacity: labels.PageCapacity,
		Pages:    pages,
	})
}

// GetLabelSheetHandler godoc
// @Summary Print-ready label sheet
// @Description Returns an HTML document that opens the host print dialog
// @Tags labels
// @Produce html
// @Param code path string true "Lot code"
// @Param quantity query int true "Number of labels (1-500)"
// @Success 200 {string} string "HTML sheet"
// @Failure 400 {string} string "Invalid quantity"
// @Failure 404 {string} string "Not found"
// @Router /products/{code}/labels [get]
func GetLabelSheetHandler(w http.ResponseWriter, r *http.Request) {
	product, quantity, ok := labelProduct(w, r)
	if !ok {
		return
	}

	pages, err := labels.Paginate(product, quantity)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := sheetWriter.WriteSheet(w, pages); err != nil {
		log.Printf("could not render label sheet for %s: %v", product.Code, err)
	}
}

// GetCodeImageHandler godoc
// @Summary Scannable code image for a lot
// @Tags labels
// @Produce png
// @Param code path string true "Lot code"
// @Param size query int false "Image size in pixels (default 256)"
// @Success 200 {file} file
// @Failure 404 {string} string "Not found"
// @Router /products/{code}/code.png [get]
func GetCodeImageHandler(w http.ResponseWriter, r *http.Request) {
	productCode := chi.URLParam(r, "code")

	product, err := inventoryRepo.GetByCode(productCode)
	if err != nil {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}

	size := 256
	if s := r.URL.Query().Get("size"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 64 && v <= 1024 {
			size = v
		}
	}

	png, err := codeRenderer.Render(product.Code, size)
	if err != nil {
		log.Printf("could not render code image for %s: %v", product.Code, err)
		http.Error(w, "could not render code image", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
