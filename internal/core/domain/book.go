package domain

import "time"

// Book is the primary resource.
type Book struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	PublishedDate time.Time `json:"published_date"`
	Genre         string    `json:"genre"`
	Price         float64   `json:"price"`
}

// BookData holds every mutable field of a book. Used for create and full replace.
type BookData struct {
	Title         string
	Author        string
	PublishedDate time.Time
	Genre         string
	Price         float64
}

// WithID builds the Book that data describes once stored under id.
func (d BookData) WithID(id string) *Book {
	return &Book{
		ID:            id,
		Title:         d.Title,
		Author:        d.Author,
		PublishedDate: d.PublishedDate.UTC(),
		Genre:         d.Genre,
		Price:         d.Price,
	}
}

// BookPatch is a partial update; nil fields are left untouched.
type BookPatch struct {
	Title         *string
	Author        *string
	PublishedDate *time.Time
	Genre         *string
	Price         *float64
}

// IsEmpty reports whether the patch sets no field at all.
func (p BookPatch) IsEmpty() bool {
	return p.Title == nil && p.Author == nil && p.PublishedDate == nil && p.Genre == nil && p.Price == nil
}

// SortField names a field books can be ordered by.
type SortField string

const (
	SortByPublishedDate SortField = "published_date"
	SortByAuthor        SortField = "author"
	SortByPrice         SortField = "price"
	SortByTitle         SortField = "title"
)

// SortOrder is the direction of a sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// BookFilter restricts a listing. Each non-empty field is a case-insensitive
// substring match; all set fields must match.
type BookFilter struct {
	Author string
	Title  string
	Genre  string
}

// YearPriceStat is one row of the average-price-by-year report.
type YearPriceStat struct {
	Year         int     `json:"year"`
	AveragePrice float64 `json:"average_price"`
	BookCount    int     `json:"book_count"`
}
