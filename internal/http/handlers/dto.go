package handlers

import "github.com/apparelops/lot-tracker/internal/labels"

type ProductRequest struct {
	Design   string  `json:"design"`
	Size     string  `json:"size"`
	Color    string  `json:"color"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type ProductResponse struct {
	Code      string  `json:"code"`
	Design    string  `json:"design"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Stock     int     `json:"stock"`
	Sold      int     `json:"sold"`
	Price     float64 `json:"price"`
	CreatedAt string  `json:"created_at,omitempty"`
	Restocked bool    `json:"restocked,omitempty"`
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type ProductsSearchResult struct {
	Data []ProductResponse `json:"data"`
	Meta Meta              `json:"meta,omitempty"`
}

type LabelLayoutResult struct {
	Code     string        `json:"code"`
	Quantity int           `json:"quantity"`
	Capacity int           `json:"capacity"`
	Pages    []labels.Page `json:"pages"`
}

type ScanSessionResponse struct {
	ID                string `json:"id"`
	State             string `json:"state"`
	CooldownRemaining int    `json:"cooldown_remaining_seconds"`
}

type DecodeRequest struct {
	Payload string `json:"payload"`
}

type UserLogin struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token string `json:"token"`
}

type RegisterResult struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}
