package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bookshelf/books-api/internal/core/domain"
	"github.com/bookshelf/books-api/internal/core/ports"
)

type seedUser struct {
	email    string
	password string
	role     domain.Role
}

var seedUsers = []seedUser{
	{
		email:    "admin@test.com",
		password: "adminpass",
		role: domain.Role{Name: domain.RoleAdmin, Permissions: []string{
			domain.PermBookRead, domain.PermBookCreate, domain.PermBookUpdate, domain.PermBookDelete,
			domain.PermUserRead, domain.PermUserCreate, domain.PermUserUpdate, domain.PermUserDelete,
		}},
	},
	{
		email:    "editor@test.com",
		password: "editorpass",
		role: domain.Role{Name: domain.RoleEditor, Permissions: []string{
			domain.PermBookRead, domain.PermBookUpdate,
		}},
	},
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var seedBooks = []domain.BookData{
	{Title: "Clean Architecture", Author: "Robert C. Martin", PublishedDate: day(2017, time.September, 20), Genre: "Software Engineering", Price: 34.99},
	{Title: "The Pragmatic Programmer", Author: "David Thomas, Andrew Hunt", PublishedDate: day(2019, time.September, 13), Genre: "Software Engineering", Price: 49.99},
	{Title: "Design Patterns", Author: "Gang of Four", PublishedDate: day(1994, time.October, 31), Genre: "Software Engineering", Price: 54.99},
	{Title: "Refactoring", Author: "Martin Fowler", PublishedDate: day(2018, time.November, 20), Genre: "Software Engineering", Price: 47.99},
	{Title: "Domain-Driven Design", Author: "Eric Evans", PublishedDate: day(2003, time.August, 30), Genre: "Software Engineering", Price: 59.99},
}

// SeedResult counts what a seed run inserted.
type SeedResult struct {
	UsersInserted int
	BooksInserted int
}

// Seeder populates the demo users and books. Each record is looked up by its
// natural key (email, title) first, so repeated runs insert nothing new.
type Seeder struct {
	users  *UserRepository
	books  documentStore
	hasher ports.PasswordHasher
	log    zerolog.Logger
}

func NewSeeder(db *mongo.Database, hasher ports.PasswordHasher, log zerolog.Logger) *Seeder {
	return &Seeder{
		users:  NewUserRepository(db),
		books:  newCollectionStore(db.Collection(collectionBooks)),
		hasher: hasher,
		log:    log,
	}
}

// Run inserts every missing seed record.
func (s *Seeder) Run(ctx context.Context) (SeedResult, error) {
	var res SeedResult

	for _, su := range seedUsers {
		hash, err := s.hasher.Hash(su.password)
		if err != nil {
			return res, fmt.Errorf("seed user %s: %w", su.email, err)
		}
		inserted, err := s.users.InsertIfAbsent(ctx, &domain.User{
			Email:        su.email,
			PasswordHash: hash,
			IsActive:     true,
			Roles:        []domain.Role{su.role},
		})
		if err != nil {
			return res, fmt.Errorf("seed user %s: %w", su.email, err)
		}
		if inserted {
			res.UsersInserted++
			s.log.Info().Str("email", su.email).Msg("seeded user")
		}
	}

	for _, b := range seedBooks {
		inserted, err := s.insertBookIfAbsent(ctx, b)
		if err != nil {
			return res, fmt.Errorf("seed book %q: %w", b.Title, err)
		}
		if inserted {
			res.BooksInserted++
			s.log.Info().Str("title", b.Title).Msg("seeded book")
		}
	}

	return res, nil
}

func (s *Seeder) insertBookIfAbsent(ctx context.Context, b domain.BookData) (bool, error) {
	var existing bookDocument
	err := s.books.FindOne(ctx, bson.M{"title": b.Title}, &existing)
	if err == nil {
		return false, nil
	}
	if !isNoDocuments(err) {
		return false, err
	}

	_, err = s.books.InsertOne(ctx, bookDocument{
		ID:            uuid.NewString(),
		Title:         b.Title,
		Author:        b.Author,
		PublishedDate: b.PublishedDate,
		Genre:         b.Genre,
		Price:         b.Price,
	})
	return err == nil, err
}
