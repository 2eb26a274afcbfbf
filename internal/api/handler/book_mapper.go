package handler

import (
	"github.com/bookshelf/books-api/internal/core/domain"
	"github.com/bookshelf/books-api/internal/core/ports"
)

// --- Request → Service input ---

func toBookData(req bookRequest) domain.BookData {
	return domain.BookData{
		Title:         req.Title,
		Author:        req.Author,
		PublishedDate: req.PublishedDate.Time,
		Genre:         req.Genre,
		Price:         *req.Price,
	}
}

func toBookPatch(req patchBookRequest) domain.BookPatch {
	patch := domain.BookPatch{
		Title:  req.Title,
		Author: req.Author,
		Genre:  req.Genre,
		Price:  req.Price,
	}
	if req.PublishedDate != nil {
		t := req.PublishedDate.Time
		patch.PublishedDate = &t
	}
	return patch
}

func toListInput(req listBooksRequest) ports.ListBooksInput {
	order := domain.SortOrder(req.SortOrder)
	if order == "" {
		order = domain.SortAsc
	}
	return ports.ListBooksInput{
		Page:      req.Page,
		Size:      req.Size,
		SortBy:    domain.SortField(req.SortBy),
		SortOrder: order,
		Filter: domain.BookFilter{
			Author: req.Author,
			Title:  req.Title,
			Genre:  req.Genre,
		},
	}
}

// --- Domain → Response ---

func toBookResponse(b *domain.Book) *bookResponse {
	if b == nil {
		return nil
	}
	return &bookResponse{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		PublishedDate: b.PublishedDate.UTC(),
		Genre:         b.Genre,
		Price:         b.Price,
	}
}

func toBookPageResponse(res *ports.ListBooksResult) bookPageResponse {
	items := make([]bookResponse, 0, len(res.Items))
	for i := range res.Items {
		items = append(items, *toBookResponse(&res.Items[i]))
	}
	return bookPageResponse{
		Items: items,
		Total: res.Total,
		Page:  res.Page,
		Size:  res.Size,
		Pages: res.Pages,
	}
}

func toMutationResponse(res ports.BookMutationResult) bookMutationResponse {
	return bookMutationResponse{Success: res.Success, Book: toBookResponse(res.Book)}
}

func toAveragePriceResponse(stats []domain.YearPriceStat) averagePriceResponse {
	data := make([]yearPriceResponse, 0, len(stats))
	for _, s := range stats {
		data = append(data, yearPriceResponse{
			Year:         s.Year,
			AveragePrice: s.AveragePrice,
			BookCount:    s.BookCount,
		})
	}
	return averagePriceResponse{Data: data}
}
