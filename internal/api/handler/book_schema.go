package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// isoDate accepts an RFC 3339 timestamp or a bare YYYY-MM-DD date and holds it
// in UTC at millisecond precision, the resolution the store keeps.
type isoDate struct {
	time.Time
}

func (d *isoDate) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("published_date must be a string: %w", err)
	}
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC().Truncate(time.Millisecond)
			return nil
		}
	}
	return fmt.Errorf("published_date %q is not an ISO 8601 date", s)
}

// --- Request types ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// bookRequest is the body of POST /books and PUT /books/:id.
type bookRequest struct {
	Title         string   `json:"title"          validate:"required"`
	Author        string   `json:"author"         validate:"required"`
	PublishedDate *isoDate `json:"published_date" validate:"required"`
	Genre         string   `json:"genre"          validate:"required"`
	Price         *float64 `json:"price"          validate:"required,gte=0"`
}

// patchBookRequest is the body of PATCH /books/:id. Absent fields stay untouched.
type patchBookRequest struct {
	Title         *string  `json:"title"          validate:"omitempty,min=1"`
	Author        *string  `json:"author"         validate:"omitempty,min=1"`
	PublishedDate *isoDate `json:"published_date"`
	Genre         *string  `json:"genre"          validate:"omitempty,min=1"`
	Price         *float64 `json:"price"          validate:"omitempty,gte=0"`
}

type listBooksRequest struct {
	Page      int    `query:"page"       validate:"omitempty,min=1"`
	Size      int    `query:"size"       validate:"omitempty,min=1,max=100"`
	SortBy    string `query:"sort_by"    validate:"omitempty,oneof=published_date author price title"`
	SortOrder string `query:"sort_order" validate:"omitempty,oneof=asc desc"`
	Author    string `query:"author"`
	Title     string `query:"title"`
	Genre     string `query:"genre"`
}

// --- Response types ---

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type bookResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	PublishedDate time.Time `json:"published_date"`
	Genre         string    `json:"genre"`
	Price         float64   `json:"price"`
}

type bookPageResponse struct {
	Items []bookResponse `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
	Pages int            `json:"pages"`
}

// bookMutationResponse carries book=null when success is false.
type bookMutationResponse struct {
	Success bool          `json:"success"`
	Book    *bookResponse `json:"book"`
}

type deleteBookResponse struct {
	Success bool `json:"success"`
}

type yearPriceResponse struct {
	Year         int     `json:"year"`
	AveragePrice float64 `json:"average_price"`
	BookCount    int     `json:"book_count"`
}

type averagePriceResponse struct {
	Data []yearPriceResponse `json:"data"`
}
