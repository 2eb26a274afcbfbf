package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookshelf/books-api/internal/core/ports"
)

// HeaderIdempotencyKey lets a client retry POST /books without creating duplicates.
const HeaderIdempotencyKey = "Idempotency-Key"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// BookHandler handles HTTP requests for book operations. Permission checks
// run in middleware before any of these methods.
type BookHandler struct {
	service ports.BookService
}

func NewBookHandler(service ports.BookService) *BookHandler {
	return &BookHandler{service: service}
}

// List handles GET /api/v1/books.
//
// @Summary      List books
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        page        query     int     false  "Page number (1-based)"  default(1)
// @Param        size        query     int     false  "Page size (max 100)"    default(50)
// @Param        sort_by     query     string  false  "Sort field"  Enums(published_date, author, price, title)
// @Param        sort_order  query     string  false  "Sort order"  Enums(asc, desc)
// @Param        author      query     string  false  "Author substring"
// @Param        title       query     string  false  "Title substring"
// @Param        genre       query     string  false  "Genre substring"
// @Success      200         {object}  bookPageResponse
// @Failure      401         {object}  errorResponse
// @Failure      403         {object}  errorResponse
// @Failure      422         {object}  errorResponse
// @Router       /api/v1/books [get]
func (h *BookHandler) List(c echo.Context) error {
	var req listBooksRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.service.ListBooks(c.Request().Context(), toListInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookPageResponse(res))
}

// Get handles GET /api/v1/books/:id.
//
// @Summary      Get a book
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Book id"
// @Success      200  {object}  bookResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) Get(c echo.Context) error {
	book, err := h.service.GetBook(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookResponse(book))
}

// Create handles POST /api/v1/books.
//
// @Summary      Create a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string       false  "Client key for safe retries"
// @Param        body             body      bookRequest  true   "Book"
// @Success      201              {object}  bookMutationResponse
// @Failure      422              {object}  errorResponse
// @Failure      500              {object}  bookMutationResponse
// @Router       /api/v1/books [post]
func (h *BookHandler) Create(c echo.Context) error {
	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res := h.service.CreateBook(c.Request().Context(), ports.CreateBookInput{
		Data:           toBookData(req),
		IdempotencyKey: c.Request().Header.Get(HeaderIdempotencyKey),
	})
	if !res.Success {
		return c.JSON(http.StatusInternalServerError, toMutationResponse(res))
	}
	return c.JSON(http.StatusCreated, toMutationResponse(res))
}

// Replace handles PUT /api/v1/books/:id.
//
// @Summary      Replace a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Book id"
// @Param        body  body      bookRequest  true  "Book"
// @Success      200   {object}  bookMutationResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) Replace(c echo.Context) error {
	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.service.ReplaceBook(c.Request().Context(), c.Param("id"), toBookData(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMutationResponse(*res))
}

// Patch handles PATCH /api/v1/books/:id.
//
// @Summary      Partially update a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Book id"
// @Param        body  body      patchBookRequest  true  "Fields to change"
// @Success      200   {object}  bookMutationResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/books/{id} [patch]
func (h *BookHandler) Patch(c echo.Context) error {
	var req patchBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.service.PatchBook(c.Request().Context(), c.Param("id"), toBookPatch(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMutationResponse(*res))
}

// Delete handles DELETE /api/v1/books/:id. A missing book yields success=false, not 404.
//
// @Summary      Delete a book
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Book id"
// @Success      200  {object}  deleteBookResponse
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) Delete(c echo.Context) error {
	deleted, err := h.service.DeleteBook(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteBookResponse{Success: deleted})
}

// AveragePriceByYear handles GET /api/v1/books/stats/average-price-by-year.
//
// @Summary      Average price by publication year
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        year  query     int  false  "Restrict to one year"
// @Success      200   {object}  averagePriceResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/v1/books/stats/average-price-by-year [get]
func (h *BookHandler) AveragePriceByYear(c echo.Context) error {
	var year *int
	if c.QueryParam("year") != "" {
		var y int
		if err := echo.QueryParamsBinder(c).Int("year", &y).BindError(); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "year must be an integer")
		}
		year = &y
	}

	stats, err := h.service.AveragePriceByYear(c.Request().Context(), year)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAveragePriceResponse(stats))
}
