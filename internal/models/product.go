package models

// Product represents one apparel lot in the inventory: a single
// design/size/color combination tracked as a unit.
type Product struct {
	Code      string  `json:"code"`
	Design    string  `json:"design"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Stock     int     `json:"stock"`
	Sold      int     `json:"sold"`
	Price     float64 `json:"price"`
	CreatedAt string  `json:"created_at,omitempty"`
}
