package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	hotelserrors "github.com/ReawEiEi/hotel-booking-server/internal/hotels/errors"
	"github.com/ReawEiEi/hotel-booking-server/pkg/config"
	mongotx "github.com/ReawEiEi/hotel-booking-server/pkg/db/mongo"
	"github.com/ReawEiEi/hotel-booking-server/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Hotels"
)

type HotelRepository interface {
	Create(ctx context.Context, hotel *model.Hotel) error
	FindByID(ctx context.Context, id string) (*model.Hotel, error)
	FindPage(ctx context.Context, page, limit int) ([]*model.Hotel, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, hotel *model.Hotel) error
	Delete(ctx context.Context, id string) error
}

type mongoHotelRepository struct {
	collection   *mongo.Collection
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewMongoHotelRepository(cfg *config.Config) HotelRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return NewHotelRepositoryWithDatabase(db, cfg.ReadTimeout, cfg.WriteTimeout)
}

func NewHotelRepositoryWithDatabase(db *mongo.Database, readTimeout, writeTimeout time.Duration) HotelRepository {
	return &mongoHotelRepository{
		collection:   db.Collection(CollectionName),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

func (r *mongoHotelRepository) Create(ctx context.Context, hotel *model.Hotel) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	hotel.ID = ""
	hotel.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, hotel)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", hotelserrors.ErrDuplicateName, hotel.Name)
		}
		return fmt.Errorf("failed to create hotel: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		hotel.ID = oid.Hex()
	}
	return nil
}

func (r *mongoHotelRepository) FindByID(ctx context.Context, id string) (*model.Hotel, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.readTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", hotelserrors.ErrInvalidID, id)
	}

	var hotel model.Hotel
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&hotel)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, hotelserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find hotel: %w", err)
	}

	return &hotel, nil
}

// FindPage returns hotels newest first. page is 1-based.
func (r *mongoHotelRepository) FindPage(ctx context.Context, page, limit int) ([]*model.Hotel, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.readTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find hotels: %w", err)
	}
	defer cursor.Close(ctx)

	hotels := []*model.Hotel{}
	if err = cursor.All(ctx, &hotels); err != nil {
		return nil, fmt.Errorf("failed to decode hotels: %w", err)
	}

	return hotels, nil
}

func (r *mongoHotelRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.readTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count hotels: %w", err)
	}
	return count, nil
}

func (r *mongoHotelRepository) Update(ctx context.Context, id string, hotel *model.Hotel) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", hotelserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":       hotel.Name,
			"address":    hotel.Address,
			"district":   hotel.District,
			"province":   hotel.Province,
			"postalcode": hotel.PostalCode,
			"tel":        hotel.Tel,
			"picture":    hotel.Picture,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", hotelserrors.ErrDuplicateName, hotel.Name)
		}
		return fmt.Errorf("failed to update hotel: %w", err)
	}
	if result.MatchedCount == 0 {
		return hotelserrors.ErrNotFound
	}
	return nil
}

func (r *mongoHotelRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", hotelserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete hotel: %w", err)
	}
	if result.DeletedCount == 0 {
		return hotelserrors.ErrNotFound
	}
	return nil
}
