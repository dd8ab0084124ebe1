package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ReawEiEi/hotel-booking-server/pkg/config"
	mongotx "github.com/ReawEiEi/hotel-booking-server/pkg/db/mongo"
	"github.com/ReawEiEi/hotel-booking-server/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Users"
)

var (
	ErrNotFound = errors.New("user not found")

	ErrInvalidID = errors.New("invalid user ID format")
)

// UserRepository reads accounts written by the identity provider.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

type mongoUserRepository struct {
	collection  *mongo.Collection
	readTimeout time.Duration
}

func NewMongoUserRepository(cfg *config.Config) UserRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return NewUserRepositoryWithDatabase(db, cfg.ReadTimeout)
}

func NewUserRepositoryWithDatabase(db *mongo.Database, readTimeout time.Duration) UserRepository {
	return &mongoUserRepository{
		collection:  db.Collection(CollectionName),
		readTimeout: readTimeout,
	}
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.readTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	opts := options.FindOne().SetProjection(bson.M{"name": 1, "email": 1, "tel": 1, "role": 1})

	var user model.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}, opts).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}
