package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "github.com/ReawEiEi/hotel-booking-server/internal/bookings/errors"
	hotelsrepo "github.com/ReawEiEi/hotel-booking-server/internal/hotels/repository"
	usersrepo "github.com/ReawEiEi/hotel-booking-server/internal/users/repository"
	"github.com/ReawEiEi/hotel-booking-server/pkg/config"
	mongotx "github.com/ReawEiEi/hotel-booking-server/pkg/db/mongo"
	"github.com/ReawEiEi/hotel-booking-server/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindView(ctx context.Context, id string, includeUser bool) (*model.BookingView, error)
	FindViews(ctx context.Context, filter model.BookingFilter) ([]*model.BookingView, error)
	UpdateDates(ctx context.Context, id string, bookingDate, checkoutDate time.Time) (*model.Booking, error)
	Delete(ctx context.Context, id string) error
	DeleteByHotel(ctx context.Context, hotelID string) (int64, error)
}

type mongoBookingRepository struct {
	collection   *mongo.Collection
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return NewBookingRepositoryWithDatabase(db, cfg.ReadTimeout, cfg.WriteTimeout)
}

func NewBookingRepositoryWithDatabase(db *mongo.Database, readTimeout, writeTimeout time.Duration) BookingRepository {
	return &mongoBookingRepository{
		collection:   db.Collection(CollectionName),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	booking.ID = ""
	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.readTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindView(ctx context.Context, id string, includeUser bool) (*model.BookingView, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.readTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	views, err := r.aggregate(ctx, bson.D{{Key: "_id", Value: objectID}}, includeUser)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, bookingserrors.ErrNotFound
	}
	return views[0], nil
}

func (r *mongoBookingRepository) FindViews(ctx context.Context, filter model.BookingFilter) ([]*model.BookingView, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.readTimeout)
	defer cancel()

	return r.aggregate(ctx, buildListFilter(filter), filter.IncludeUser)
}

func (r *mongoBookingRepository) aggregate(ctx context.Context, match bson.D, includeUser bool) ([]*model.BookingView, error) {
	cursor, err := r.collection.Aggregate(ctx, buildViewPipeline(match, includeUser))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate bookings: %w", err)
	}
	defer cursor.Close(ctx)

	views := []*model.BookingView{}
	if err := cursor.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return views, nil
}

func (r *mongoBookingRepository) UpdateDates(ctx context.Context, id string, bookingDate, checkoutDate time.Time) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"booking_date":  bookingDate,
			"checkout_date": checkoutDate,
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking model.Booking
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, update, opts).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	return &booking, nil
}

func (r *mongoBookingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if result.DeletedCount == 0 {
		return bookingserrors.ErrNotFound
	}
	return nil
}

func (r *mongoBookingRepository) DeleteByHotel(ctx context.Context, hotelID string) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"hotel_id": hotelID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete bookings of hotel %s: %w", hotelID, err)
	}
	return result.DeletedCount, nil
}

func buildListFilter(filter model.BookingFilter) bson.D {
	match := bson.D{}
	if filter.UserID != "" {
		match = append(match, bson.E{Key: "user_id", Value: filter.UserID})
	}
	if filter.HotelID != "" {
		match = append(match, bson.E{Key: "hotel_id", Value: filter.HotelID})
	}
	return match
}

// buildViewPipeline joins the hotel summary, and the user summary when asked.
// References are stored as hex strings, so they are converted before matching.
func buildViewPipeline(match bson.D, includeUser bool) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "booking_date", Value: 1}, {Key: "_id", Value: 1}}}},
	}
	pipeline = append(pipeline, summaryLookup(hotelsrepo.CollectionName, "$hotel_id", "hotel", "name", "address", "tel")...)
	if includeUser {
		pipeline = append(pipeline, summaryLookup(usersrepo.CollectionName, "$user_id", "user", "name", "email", "tel")...)
	}
	return pipeline
}

func summaryLookup(from, localField, as string, fields ...string) mongo.Pipeline {
	projection := bson.D{}
	for _, field := range fields {
		projection = append(projection, bson.E{Key: field, Value: 1})
	}

	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: from},
			{Key: "let", Value: bson.D{{Key: "refId", Value: bson.D{{Key: "$toObjectId", Value: localField}}}}},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{{Key: "$eq", Value: bson.A{"$_id", "$$refId"}}}}}}},
				bson.D{{Key: "$project", Value: projection}},
			}},
			{Key: "as", Value: as},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$" + as},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
}
