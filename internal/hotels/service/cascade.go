package service

import (
	"context"
	"errors"
	"fmt"

	hotelserrors "github.com/ReawEiEi/hotel-booking-server/internal/hotels/errors"
	"github.com/ReawEiEi/hotel-booking-server/internal/hotels/repository"
	mongotx "github.com/ReawEiEi/hotel-booking-server/pkg/db/mongo"
	apperrors "github.com/ReawEiEi/hotel-booking-server/pkg/errors"
	"github.com/ReawEiEi/hotel-booking-server/pkg/logger"
	"github.com/ReawEiEi/hotel-booking-server/pkg/metrics"
)

// BookingDeleter removes every booking that references a hotel.
type BookingDeleter interface {
	DeleteByHotel(ctx context.Context, hotelID string) (int64, error)
}

// CascadeDeletionPolicy deletes a hotel together with its bookings. Bookings go
// first so a failed run never leaves bookings pointing at a missing hotel.
type CascadeDeletionPolicy struct {
	bookings BookingDeleter
	hotels   repository.HotelRepository
	tx       mongotx.TransactionManager
	metrics  *metrics.Metrics
	log      *logger.Logger
}

func NewCascadeDeletionPolicy(
	bookings BookingDeleter,
	hotels repository.HotelRepository,
	tx mongotx.TransactionManager,
	m *metrics.Metrics,
	log *logger.Logger,
) *CascadeDeletionPolicy {
	return &CascadeDeletionPolicy{
		bookings: bookings,
		hotels:   hotels,
		tx:       tx,
		metrics:  m,
		log:      log,
	}
}

func (p *CascadeDeletionPolicy) Apply(ctx context.Context, hotelID string) (int64, error) {
	var deleted int64

	err := p.tx.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		n, err := p.bookings.DeleteByHotel(txCtx, hotelID)
		if err != nil {
			return fmt.Errorf("failed to delete bookings: %w", err)
		}

		if err := p.hotels.Delete(txCtx, hotelID); err != nil {
			if errors.Is(err, hotelserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("hotel", hotelID)
			}
			return fmt.Errorf("failed to delete hotel: %w", err)
		}

		deleted = n
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return 0, err
		}
		p.log.Error("Cascade deletion failed",
			"hotel_id", hotelID,
			"error", err,
		)
		return 0, apperrors.Persistence("Cannot delete Hotel", err)
	}

	p.metrics.HotelCascadeDeleted(deleted)
	p.log.Info("Hotel deleted with its bookings",
		"hotel_id", hotelID,
		"bookings_deleted", deleted,
	)
	return deleted, nil
}
