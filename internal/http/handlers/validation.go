package handlers

import (
	"strings"
)

type ProductValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

// validateProduct rejects bad input before it reaches the store: missing
// fields, non-positive quantities and negative prices.
func validateProduct(p ProductRequest) []ProductValidationError {
	errs := []ProductValidationError{}
	if strings.TrimSpace(p.Design) == "" {
		errs = append(errs, ProductValidationError{Field: "Design", Description: "Design is required"})
	}
	if strings.TrimSpace(p.Size) == "" {
		errs = append(errs, ProductValidationError{Field: "Size", Description: "Size is required"})
	}
	if strings.TrimSpace(p.Color) == "" {
		errs = append(errs, ProductValidationError{Field: "Color", Description: "Color is required"})
	}
	if p.Quantity < 1 {
		errs = append(errs, ProductValidationError{Field: "Quantity", Description: "Quantity must be at least one"})
	}
	if p.Price < 0 {
		errs = append(errs, ProductValidationError{Field: "Price", Description: "Price cannot be negative"})
	}
	return errs
}
