package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bookshelf/books-api/internal/core/domain"
	"github.com/bookshelf/books-api/internal/core/ports"
)

// BookRepository implements ports.BookRepository on the books collection.
type BookRepository struct {
	store documentStore
}

func NewBookRepository(db *mongo.Database) *BookRepository {
	return &BookRepository{store: newCollectionStore(db.Collection(collectionBooks))}
}

type bookDocument struct {
	ID            string    `bson:"_id"`
	Title         string    `bson:"title"`
	Author        string    `bson:"author"`
	PublishedDate time.Time `bson:"published_date"`
	Genre         string    `bson:"genre"`
	Price         float64   `bson:"price"`
}

func (d bookDocument) toDomain() domain.Book {
	return domain.Book{
		ID:            d.ID,
		Title:         d.Title,
		Author:        d.Author,
		PublishedDate: d.PublishedDate.UTC(),
		Genre:         d.Genre,
		Price:         d.Price,
	}
}

type yearPriceDocument struct {
	Year         int     `bson:"year"`
	AveragePrice float64 `bson:"average_price"`
	BookCount    int     `bson:"book_count"`
}

// validID reports whether id can identify a stored book. Anything that is not
// a UUID is treated as absent rather than as a failure.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// GetByID retrieves a book, or domain.ErrBookNotFound.
func (r *BookRepository) GetByID(ctx context.Context, id string) (*domain.Book, error) {
	if !validID(id) {
		return nil, domain.ErrBookNotFound
	}

	var doc bookDocument
	if err := r.store.FindOne(ctx, bson.M{"_id": id}, &doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("find book: %w", err)
	}
	b := doc.toDomain()
	return &b, nil
}

// Create inserts data under a new UUID. The id reported by the store is the one returned.
func (r *BookRepository) Create(ctx context.Context, data domain.BookData) (*domain.Book, error) {
	data.PublishedDate = storedTime(data.PublishedDate)
	doc := bookDocument{
		ID:            uuid.NewString(),
		Title:         data.Title,
		Author:        data.Author,
		PublishedDate: data.PublishedDate,
		Genre:         data.Genre,
		Price:         data.Price,
	}

	res, err := r.store.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%w: insert book: %v", domain.ErrStoreWrite, err)
	}
	id, err := insertedID(res)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreWrite, err)
	}
	return data.WithID(id), nil
}

// Replace overwrites every field except the id.
func (r *BookRepository) Replace(ctx context.Context, id string, data domain.BookData) (*domain.Book, error) {
	if !validID(id) {
		return nil, domain.ErrBookNotFound
	}

	data.PublishedDate = storedTime(data.PublishedDate)
	update := bson.M{"$set": bson.M{
		"title":          data.Title,
		"author":         data.Author,
		"published_date": data.PublishedDate,
		"genre":          data.Genre,
		"price":          data.Price,
	}}
	matched, err := r.store.UpdateByID(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("replace book: %w", err)
	}
	if matched == 0 {
		return nil, domain.ErrBookNotFound
	}
	return data.WithID(id), nil
}

// Patch sets only the fields present in patch, then reads the full document back.
func (r *BookRepository) Patch(ctx context.Context, id string, patch domain.BookPatch) (*domain.Book, error) {
	set := patchFields(patch)
	if len(set) == 0 {
		return nil, domain.ErrEmptyPatch
	}
	if !validID(id) {
		return nil, domain.ErrBookNotFound
	}

	matched, err := r.store.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("patch book: %w", err)
	}
	if matched == 0 {
		return nil, domain.ErrBookNotFound
	}
	return r.GetByID(ctx, id)
}

func patchFields(p domain.BookPatch) bson.M {
	set := bson.M{}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Author != nil {
		set["author"] = *p.Author
	}
	if p.PublishedDate != nil {
		set["published_date"] = storedTime(*p.PublishedDate)
	}
	if p.Genre != nil {
		set["genre"] = *p.Genre
	}
	if p.Price != nil {
		set["price"] = *p.Price
	}
	return set
}

// storedTime is t as a BSON datetime holds it: UTC, millisecond precision.
func storedTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// Delete removes a book. A missing book is not an error.
func (r *BookRepository) Delete(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	deleted, err := r.store.DeleteByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete book: %w", err)
	}
	return deleted > 0, nil
}

// Count returns the number of books matching filter.
func (r *BookRepository) Count(ctx context.Context, filter domain.BookFilter) (int64, error) {
	n, err := r.store.CountDocuments(ctx, filterQuery(filter))
	if err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return n, nil
}

// List returns one page of books in a deterministic order.
func (r *BookRepository) List(ctx context.Context, q ports.ListBooksQuery) ([]domain.Book, error) {
	var docs []bookDocument
	spec := findSpec{
		Sort:  sortSpec(q.SortBy, q.SortOrder),
		Skip:  q.Skip,
		Limit: q.Limit,
	}
	if err := r.store.Find(ctx, filterQuery(q.Filter), spec, &docs); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	books := make([]domain.Book, 0, len(docs))
	for _, d := range docs {
		books = append(books, d.toDomain())
	}
	return books, nil
}

// filterQuery matches each set field as an escaped, case-insensitive substring.
func filterQuery(f domain.BookFilter) bson.M {
	query := bson.M{}
	for field, value := range map[string]string{
		"author": f.Author,
		"title":  f.Title,
		"genre":  f.Genre,
	} {
		if value == "" {
			continue
		}
		query[field] = primitive.Regex{Pattern: regexp.QuoteMeta(value), Options: "i"}
	}
	return query
}

// sortSpec orders by the requested field with _id as a tie-break in the same
// direction, so pages stay stable when sort keys repeat.
func sortSpec(by domain.SortField, order domain.SortOrder) bson.D {
	if by == "" {
		return bson.D{{Key: "_id", Value: 1}}
	}
	dir := 1
	if order == domain.SortDesc {
		dir = -1
	}
	return bson.D{
		{Key: string(by), Value: dir},
		{Key: "_id", Value: dir},
	}
}

// AveragePriceByYear runs the grouping pipeline. Years without books are absent.
func (r *BookRepository) AveragePriceByYear(ctx context.Context, year *int) ([]domain.YearPriceStat, error) {
	var rows []yearPriceDocument
	if err := r.store.Aggregate(ctx, averagePricePipeline(year), &rows); err != nil {
		return nil, fmt.Errorf("aggregate average price: %w", err)
	}

	stats := make([]domain.YearPriceStat, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, domain.YearPriceStat{
			Year:         row.Year,
			AveragePrice: row.AveragePrice,
			BookCount:    row.BookCount,
		})
	}
	return stats, nil
}

func averagePricePipeline(year *int) mongo.Pipeline {
	pipeline := mongo.Pipeline{}
	if year != nil {
		from := time.Date(*year, time.January, 1, 0, 0, 0, 0, time.UTC)
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.D{
			{Key: "published_date", Value: bson.D{
				{Key: "$gte", Value: from},
				{Key: "$lt", Value: from.AddDate(1, 0, 0)},
			}},
		}}})
	}

	return append(pipeline,
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$year", Value: "$published_date"}}},
			{Key: "average_price", Value: bson.D{{Key: "$avg", Value: "$price"}}},
			{Key: "book_count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "year", Value: "$_id"},
			{Key: "average_price", Value: bson.D{{Key: "$round", Value: bson.A{"$average_price", 2}}}},
			{Key: "book_count", Value: 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "year", Value: -1}}}},
	)
}

// EnsureIndexes creates the lookup and sort indexes on the books collection.
func (r *BookRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	return r.store.CreateIndexes(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "title", Value: 1}}},
		{Keys: bson.D{{Key: "author", Value: 1}}},
		{Keys: bson.D{{Key: "genre", Value: 1}}},
		{Keys: bson.D{{Key: "published_date", Value: 1}}},
	})
}
