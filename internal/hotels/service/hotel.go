package service

import (
	"context"
	"errors"
	"fmt"

	hotelserrors "github.com/ReawEiEi/hotel-booking-server/internal/hotels/errors"
	"github.com/ReawEiEi/hotel-booking-server/internal/hotels/repository"
	"github.com/ReawEiEi/hotel-booking-server/internal/hotels/validator"
	"github.com/ReawEiEi/hotel-booking-server/pkg/access"
	"github.com/ReawEiEi/hotel-booking-server/pkg/config"
	apperrors "github.com/ReawEiEi/hotel-booking-server/pkg/errors"
	httputil "github.com/ReawEiEi/hotel-booking-server/pkg/http"
	"github.com/ReawEiEi/hotel-booking-server/pkg/model"
	"github.com/ReawEiEi/hotel-booking-server/pkg/sanitizer"

	"golang.org/x/sync/errgroup"
)

type HotelService interface {
	List(ctx context.Context, page, limit int) ([]*model.Hotel, *model.Pagination, error)
	GetByID(ctx context.Context, id string) (*model.Hotel, error)
	Create(ctx context.Context, actor access.Actor, hotel *model.Hotel) error
	Update(ctx context.Context, actor access.Actor, id string, updates *model.HotelUpdate) (*model.Hotel, error)
	Delete(ctx context.Context, actor access.Actor, id string) error
}

type hotelService struct {
	repo      repository.HotelRepository
	validator *validator.HotelValidator
	cascade   *CascadeDeletionPolicy
	cfg       *config.Config
}

func NewHotelService(
	repo repository.HotelRepository,
	validator *validator.HotelValidator,
	cascade *CascadeDeletionPolicy,
	cfg *config.Config,
) HotelService {
	return &hotelService{
		repo:      repo,
		validator: validator,
		cascade:   cascade,
		cfg:       cfg,
	}
}

func (s *hotelService) List(ctx context.Context, page, limit int) ([]*model.Hotel, *model.Pagination, error) {
	page = config.NormalizePage(page)
	limit = s.cfg.NormalizePaginationLimit(limit)

	var (
		total  int64
		hotels []*model.Hotel
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count hotels", "error", err)
			return apperrors.Persistence("Cannot count Hotels", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		hotels, err = s.repo.FindPage(gctx, page, limit)
		if err != nil {
			s.cfg.Log.Error("Failed to list hotels",
				"page", page,
				"limit", limit,
				"error", err,
			)
			return apperrors.Persistence("Cannot find Hotels", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return hotels, httputil.BuildPagination(page, limit, total), nil
}

func (s *hotelService) GetByID(ctx context.Context, id string) (*model.Hotel, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Hotel ID cannot be empty")
	}

	hotel, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id, "Cannot find Hotel")
	}
	return hotel, nil
}

func (s *hotelService) Create(ctx context.Context, actor access.Actor, hotel *model.Hotel) error {
	if err := requireManager(actor); err != nil {
		return err
	}

	s.sanitize(hotel)
	if err := s.validate(hotel); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, hotel); err != nil {
		if errors.Is(err, hotelserrors.ErrDuplicateName) {
			return duplicateName(hotel.Name)
		}
		s.cfg.Log.Error("Failed to create hotel",
			"name", hotel.Name,
			"error", err,
		)
		return apperrors.Persistence("Cannot create Hotel", err)
	}

	s.cfg.Log.Info("Hotel created successfully",
		"id", hotel.ID,
		"name", hotel.Name,
		"actor_id", actor.ID,
	)
	return nil
}

func (s *hotelService) Update(ctx context.Context, actor access.Actor, id string, updates *model.HotelUpdate) (*model.Hotel, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := mergeHotelUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, hotelserrors.ErrDuplicateName) {
			return nil, duplicateName(merged.Name)
		}
		return nil, s.translate(err, id, "Cannot update Hotel")
	}

	s.cfg.Log.Info("Hotel updated successfully",
		"id", id,
		"actor_id", actor.ID,
	)
	return merged, nil
}

func (s *hotelService) Delete(ctx context.Context, actor access.Actor, id string) error {
	if err := requireManager(actor); err != nil {
		return err
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	_, err := s.cascade.Apply(ctx, id)
	return err
}

func (s *hotelService) validate(hotel *model.Hotel) error {
	err := s.validator.Validate(hotel)
	if err == nil {
		return nil
	}

	s.cfg.Log.Warn("Hotel validation failed",
		"name", hotel.Name,
		"error", err,
	)

	details := map[string]any{"reason": apperrors.ReasonFields}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details["fields"] = fieldErrs
	}
	return apperrors.Validation(err.Error(), details)
}

func (s *hotelService) sanitize(hotel *model.Hotel) {
	hotel.Name = sanitizer.NormalizeName(hotel.Name)
	hotel.Address = sanitizer.NormalizeAddress(hotel.Address)
	hotel.District = sanitizer.TrimAndNormalize(hotel.District)
	hotel.Province = sanitizer.TrimAndNormalize(hotel.Province)
	hotel.PostalCode = sanitizer.NormalizePostalCode(hotel.PostalCode)
	hotel.Tel = sanitizer.NormalizePhone(hotel.Tel, s.cfg.DefaultPhoneRegion)
	hotel.Picture = sanitizer.NormalizeURL(hotel.Picture)
}

func (s *hotelService) translate(err error, id, message string) error {
	switch {
	case errors.Is(err, hotelserrors.ErrNotFound):
		return apperrors.NotFoundWithID("hotel", id)
	case errors.Is(err, hotelserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid hotel ID format")
	default:
		s.cfg.Log.Error(message, "id", id, "error", err)
		return apperrors.Persistence(message, err)
	}
}

func requireManager(actor access.Actor) error {
	if !access.CanManageHotels(actor) {
		return apperrors.Forbidden(fmt.Sprintf("User role %s is not authorized to access this route", actor.Role))
	}
	return nil
}

func duplicateName(name string) error {
	return apperrors.Conflict(fmt.Sprintf("Hotel with name %q already exists", name))
}

func mergeHotelUpdates(existing *model.Hotel, updates *model.HotelUpdate) *model.Hotel {
	merged := *existing
	if updates == nil {
		return &merged
	}

	if updates.Name != nil {
		merged.Name = *updates.Name
	}
	if updates.Address != nil {
		merged.Address = *updates.Address
	}
	if updates.District != nil {
		merged.District = *updates.District
	}
	if updates.Province != nil {
		merged.Province = *updates.Province
	}
	if updates.PostalCode != nil {
		merged.PostalCode = *updates.PostalCode
	}
	if updates.Tel != nil {
		merged.Tel = *updates.Tel
	}
	if updates.Picture != nil {
		merged.Picture = *updates.Picture
	}
	return &merged
}
