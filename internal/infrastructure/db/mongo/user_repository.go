package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bookshelf/books-api/internal/core/domain"
)

// UserRepository implements ports.UserRepository on the users collection.
type UserRepository struct {
	store documentStore
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{store: newCollectionStore(db.Collection(collectionUsers))}
}

type roleDocument struct {
	Name        string   `bson:"name"`
	Permissions []string `bson:"permissions"`
}

type userDocument struct {
	ID           string         `bson:"_id"`
	Email        string         `bson:"email"`
	PasswordHash string         `bson:"password_hash"`
	IsActive     bool           `bson:"is_active"`
	Roles        []roleDocument `bson:"roles"`
}

func (d userDocument) toDomain() *domain.User {
	roles := make([]domain.Role, 0, len(d.Roles))
	for _, r := range d.Roles {
		roles = append(roles, domain.Role{Name: r.Name, Permissions: r.Permissions})
	}
	return &domain.User{
		ID:           d.ID,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		IsActive:     d.IsActive,
		Roles:        roles,
	}
}

func toUserDocument(u *domain.User) userDocument {
	roles := make([]roleDocument, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, roleDocument{Name: r.Name, Permissions: r.Permissions})
	}
	return userDocument{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
		Roles:        roles,
	}
}

// GetByEmail looks a user up by exact email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDocument
	if err := r.store.FindOne(ctx, filter, &doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

// InsertIfAbsent stores u unless a user with the same email exists. It
// reports whether an insert happened. A missing ID is generated.
func (r *UserRepository) InsertIfAbsent(ctx context.Context, u *domain.User) (bool, error) {
	_, err := r.GetByEmail(ctx, u.Email)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return false, err
	}

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if _, err := r.store.InsertOne(ctx, toUserDocument(u)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert user: %w", err)
	}
	return true, nil
}

// EnsureIndexes creates the unique email index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	return r.store.CreateIndexes(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
}
