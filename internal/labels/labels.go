// Package labels lays out scannable lot codes onto fixed-capacity sheets
// for bulk printing.
package labels

import (
	"errors"

	"github.com/apparelops/lot-tracker/internal/models"
)

const (
	// PageCapacity is the number of labels per sheet: a 4x5 grid.
	PageCapacity = 20
	Columns      = 4
	Rows         = 5

	MinQuantity = 1
	MaxQuantity = 500
)

// ErrQuantityOutOfRange is returned when the requested label count is
// outside [MinQuantity, MaxQuantity].
var ErrQuantityOutOfRange = errors.New("label quantity out of range")

// Label is one cell on a sheet.
type Label struct {
	Code   string `json:"code"`
	Design string `json:"design"`
	Size   string `json:"size"`
	Color  string `json:"color"`
}

// Page is one printed sheet. The last page of a run may be partially
// filled.
type Page struct {
	Number int     `json:"number"`
	Labels []Label `json:"labels"`
}

// Paginate tiles quantity copies of the product's label into pages of
// PageCapacity. Page count is ceil(quantity / PageCapacity).
func Paginate(p models.Product, quantity int) ([]Page, error) {
	if quantity < MinQuantity || quantity > MaxQuantity {
		return nil, ErrQuantityOutOfRange
	}

	label := Label{Code: p.Code, Design: p.Design, Size: p.Size, Color: p.Color}

	pageCount := (quantity + PageCapacity - 1) / PageCapacity
	pages := make([]Page, 0, pageCount)
	remaining := quantity
	for n := 1; n <= pageCount; n++ {
		count := PageCapacity
		if remaining < count {
			count = remaining
		}
		labels := make([]Label, count)
		for i := range labels {
			labels[i] = label
		}
		pages = append(pages, Page{Number: n, Labels: labels})
		remaining -= count
	}
	return pages, nil
}
