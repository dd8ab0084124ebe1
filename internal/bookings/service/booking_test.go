package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	bookingserrors "github.com/ReawEiEi/hotel-booking-server/internal/bookings/errors"
	"github.com/ReawEiEi/hotel-booking-server/internal/bookings/validator"
	hotelserrors "github.com/ReawEiEi/hotel-booking-server/internal/hotels/errors"
	"github.com/ReawEiEi/hotel-booking-server/pkg/access"
	"github.com/ReawEiEi/hotel-booking-server/pkg/config"
	"github.com/ReawEiEi/hotel-booking-server/pkg/dispatch"
	apperrors "github.com/ReawEiEi/hotel-booking-server/pkg/errors"
	"github.com/ReawEiEi/hotel-booking-server/pkg/logger"
	"github.com/ReawEiEi/hotel-booking-server/pkg/metrics"
	"github.com/ReawEiEi/hotel-booking-server/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	hotelID  = primitive.NewObjectID().Hex()
	ownerID  = primitive.NewObjectID().Hex()
	otherID  = primitive.NewObjectID().Hex()
	admin    = access.Actor{ID: primitive.NewObjectID().Hex(), Role: access.RoleAdmin}
	owner    = access.Actor{ID: ownerID, Role: access.RoleUser}
	stranger = access.Actor{ID: otherID, Role: access.RoleUser}
	day0     = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
)

func days(n int) time.Time {
	return day0.AddDate(0, 0, n)
}

type memoryBookingRepository struct {
	mu       sync.Mutex
	bookings map[string]*model.Booking
	order    []string
	hotels   map[string]*model.Hotel
	users    map[string]*model.User
	err      error
}

func (m *memoryBookingRepository) Create(_ context.Context, booking *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	booking.ID = primitive.NewObjectID().Hex()
	booking.CreatedAt = time.Now().UTC()
	stored := *booking
	m.bookings[booking.ID] = &stored
	m.order = append(m.order, booking.ID)
	return nil
}

func (m *memoryBookingRepository) FindByID(_ context.Context, id string) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (m *memoryBookingRepository) view(b *model.Booking, includeUser bool) *model.BookingView {
	v := &model.BookingView{
		ID:           b.ID,
		UserID:       b.UserID,
		BookingDate:  b.BookingDate,
		CheckoutDate: b.CheckoutDate,
		CreatedAt:    b.CreatedAt,
	}
	if h, ok := m.hotels[b.HotelID]; ok {
		v.Hotel = &model.HotelSummary{ID: h.ID, Name: h.Name, Address: h.Address, Tel: h.Tel}
	}
	if u, ok := m.users[b.UserID]; ok && includeUser {
		v.User = &model.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Tel: u.Tel}
	}
	return v
}

func (m *memoryBookingRepository) FindView(_ context.Context, id string, includeUser bool) (*model.BookingView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	return m.view(b, includeUser), nil
}

func (m *memoryBookingRepository) FindViews(_ context.Context, filter model.BookingFilter) ([]*model.BookingView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	views := []*model.BookingView{}
	for _, id := range m.order {
		b, ok := m.bookings[id]
		if !ok {
			continue
		}
		if filter.UserID != "" && b.UserID != filter.UserID {
			continue
		}
		if filter.HotelID != "" && b.HotelID != filter.HotelID {
			continue
		}
		views = append(views, m.view(b, filter.IncludeUser))
	}
	return views, nil
}

func (m *memoryBookingRepository) UpdateDates(_ context.Context, id string, bookingDate, checkoutDate time.Time) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	b.BookingDate, b.CheckoutDate = bookingDate, checkoutDate
	copied := *b
	return &copied, nil
}

func (m *memoryBookingRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[id]; !ok {
		return bookingserrors.ErrNotFound
	}
	delete(m.bookings, id)
	return nil
}

func (m *memoryBookingRepository) DeleteByHotel(_ context.Context, hotelID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, b := range m.bookings {
		if b.HotelID == hotelID {
			delete(m.bookings, id)
			n++
		}
	}
	return n, nil
}

type hotelMap map[string]*model.Hotel

func (h hotelMap) FindByID(_ context.Context, id string) (*model.Hotel, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, hotelserrors.ErrInvalidID
	}
	if hotel, ok := h[id]; ok {
		return hotel, nil
	}
	return nil, hotelserrors.ErrNotFound
}

type userMap map[string]*model.User

func (u userMap) FindByID(_ context.Context, id string) (*model.User, error) {
	if user, ok := u[id]; ok {
		return user, nil
	}
	return nil, errors.New("user not found")
}

// inlineDispatcher runs tasks synchronously so tests can observe them.
type inlineDispatcher struct {
	reject bool
	names  []string
	errs   []error
}

func (d *inlineDispatcher) Submit(parent context.Context, name string, task dispatch.Task) bool {
	if d.reject {
		return false
	}
	d.names = append(d.names, name)
	d.errs = append(d.errs, task(context.WithoutCancel(parent)))
	return true
}

type recordingNotifier struct {
	users    []*model.User
	bookings []*model.Booking
	err      error
}

func (n *recordingNotifier) NotifyBookingCreated(_ context.Context, user *model.User, booking *model.Booking) error {
	n.users = append(n.users, user)
	n.bookings = append(n.bookings, booking)
	return n.err
}

type fixture struct {
	repo       *memoryBookingRepository
	notifier   *recordingNotifier
	dispatcher *inlineDispatcher
	service    BookingService
}

func newFixture() *fixture {
	log := logger.Discard()
	hotels := hotelMap{hotelID: {ID: hotelID, Name: "Riverside", Address: "99 Sukhumvit Rd"}}
	users := userMap{
		ownerID: {ID: ownerID, Name: "Owner", Email: "owner@example.com"},
		otherID: {ID: otherID, Name: "Other", Email: "other@example.com"},
	}
	repo := &memoryBookingRepository{
		bookings: map[string]*model.Booking{},
		hotels:   hotels,
		users:    users,
	}
	n := &recordingNotifier{}
	d := &inlineDispatcher{}
	cfg := &config.Config{Log: log}

	return &fixture{
		repo:       repo,
		notifier:   n,
		dispatcher: d,
		service:    NewBookingService(repo, hotels, users, validator.NewBookingValidator(log), n, d, metrics.New(), cfg),
	}
}

func (f *fixture) seed(t *testing.T, actor access.Actor, from, to int) *model.Booking {
	t.Helper()
	b := &model.Booking{BookingDate: days(from), CheckoutDate: days(to)}
	require.NoError(t, f.service.Create(context.Background(), actor, hotelID, b))
	return b
}

func requireValidation(t *testing.T, err error, message, reason string) {
	t.Helper()
	require.True(t, apperrors.HasCode(err, apperrors.CodeValidation), "got %v", err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, message, appErr.Message)
	assert.Equal(t, reason, appErr.Reason())
}

func TestCreate_ForcesOwnerAndNotifies(t *testing.T) {
	f := newFixture()
	b := &model.Booking{UserID: otherID, BookingDate: days(0), CheckoutDate: days(2)}

	require.NoError(t, f.service.Create(context.Background(), owner, hotelID, b))

	assert.NotEmpty(t, b.ID)
	assert.Equal(t, ownerID, b.UserID)
	assert.Equal(t, hotelID, b.HotelID)
	require.Len(t, f.notifier.users, 1)
	assert.Equal(t, "owner@example.com", f.notifier.users[0].Email)
	assert.Equal(t, b.ID, f.notifier.bookings[0].ID)
	assert.Equal(t, []string{"booking.created"}, f.dispatcher.names)
}

func TestCreate_MissingHotel(t *testing.T) {
	f := newFixture()
	missing := primitive.NewObjectID().Hex()

	err := f.service.Create(context.Background(), owner, missing, &model.Booking{BookingDate: days(0), CheckoutDate: days(1)})

	require.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	assert.Equal(t, "No hotel with the id of "+missing, apperrors.AsAppError(err).Message)
	assert.Empty(t, f.repo.bookings)
}

func TestCreate_StayRules(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		message  string
		reason   string
	}{
		{"same day", 0, 0, MsgCheckoutAfterBooking, apperrors.ReasonOrdering},
		{"reversed", 3, 1, MsgCheckoutAfterBooking, apperrors.ReasonOrdering},
		{"four nights", 0, 4, MsgTooManyNights, apperrors.ReasonDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			err := f.service.Create(context.Background(), owner, hotelID, &model.Booking{BookingDate: days(tt.from), CheckoutDate: days(tt.to)})

			requireValidation(t, err, tt.message, tt.reason)
			assert.Empty(t, f.repo.bookings)
			assert.Empty(t, f.notifier.bookings)
		})
	}
}

func TestCreate_ThreeNightsAllowed(t *testing.T) {
	f := newFixture()
	f.seed(t, owner, 0, 3)
	assert.Len(t, f.repo.bookings, 1)
}

func TestCreate_MissingDates(t *testing.T) {
	f := newFixture()

	err := f.service.Create(context.Background(), owner, hotelID, &model.Booking{})

	require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	assert.Equal(t, apperrors.ReasonFields, apperrors.AsAppError(err).Reason())
}

func TestCreate_NotificationFailureIsIgnored(t *testing.T) {
	f := newFixture()
	f.notifier.err = errors.New("broker down")

	f.seed(t, owner, 0, 1)

	assert.Len(t, f.repo.bookings, 1)
	require.Len(t, f.dispatcher.errs, 1)
	assert.Error(t, f.dispatcher.errs[0])
}

func TestCreate_DroppedNotificationKeepsBooking(t *testing.T) {
	f := newFixture()
	f.dispatcher.reject = true

	f.seed(t, owner, 0, 1)

	assert.Len(t, f.repo.bookings, 1)
	assert.Empty(t, f.notifier.bookings)
}

func TestCreate_PersistenceFailure(t *testing.T) {
	f := newFixture()
	f.repo.err = errors.New("write concern")

	err := f.service.Create(context.Background(), owner, hotelID, &model.Booking{BookingDate: days(0), CheckoutDate: days(1)})

	require.True(t, apperrors.HasCode(err, apperrors.CodePersistence))
	assert.Equal(t, "Cannot create Booking", apperrors.AsAppError(err).Message)
	assert.Empty(t, f.notifier.bookings)
}

func ptr(t time.Time) *time.Time {
	return &t
}

func TestUpdate_DatePhrasing(t *testing.T) {
	tests := []struct {
		name    string
		update  model.BookingUpdate
		message string
		reason  string
	}{
		{"booking date past checkout", model.BookingUpdate{BookingDate: ptr(days(2))}, MsgBookingDateNotBefore, apperrors.ReasonOrdering},
		{"checkout before booking", model.BookingUpdate{CheckoutDate: ptr(days(0))}, MsgCheckoutDateNotAfter, apperrors.ReasonOrdering},
		{"both reversed", model.BookingUpdate{BookingDate: ptr(days(5)), CheckoutDate: ptr(days(4))}, MsgCheckoutAfterBooking, apperrors.ReasonOrdering},
		{"booking date too early", model.BookingUpdate{BookingDate: ptr(days(-3))}, MsgTooManyNights, apperrors.ReasonDuration},
		{"checkout too late", model.BookingUpdate{CheckoutDate: ptr(days(5))}, MsgTooManyNights, apperrors.ReasonDuration},
		{"both too long", model.BookingUpdate{BookingDate: ptr(days(1)), CheckoutDate: ptr(days(9))}, MsgTooManyNights, apperrors.ReasonDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			b := f.seed(t, owner, 0, 2)

			_, err := f.service.Update(context.Background(), owner, b.ID, &tt.update)

			requireValidation(t, err, tt.message, tt.reason)
			stored := f.repo.bookings[b.ID]
			assert.True(t, stored.BookingDate.Equal(days(0)))
			assert.True(t, stored.CheckoutDate.Equal(days(2)))
		})
	}
}

func TestUpdate_AppliesSingleSide(t *testing.T) {
	f := newFixture()
	b := f.seed(t, owner, 0, 2)

	updated, err := f.service.Update(context.Background(), owner, b.ID, &model.BookingUpdate{CheckoutDate: ptr(days(3))})

	require.NoError(t, err)
	assert.True(t, updated.BookingDate.Equal(days(0)))
	assert.True(t, updated.CheckoutDate.Equal(days(3)))
}

func TestUpdate_EmptyIsNoop(t *testing.T) {
	f := newFixture()
	b := f.seed(t, owner, 0, 2)

	updated, err := f.service.Update(context.Background(), owner, b.ID, &model.BookingUpdate{})

	require.NoError(t, err)
	assert.Equal(t, b.ID, updated.ID)
	assert.True(t, updated.CheckoutDate.Equal(days(2)))
}

func TestUpdate_AdminMayUpdateAnyBooking(t *testing.T) {
	f := newFixture()
	b := f.seed(t, owner, 0, 2)

	_, err := f.service.Update(context.Background(), admin, b.ID, &model.BookingUpdate{BookingDate: ptr(days(1))})

	require.NoError(t, err)
	assert.True(t, f.repo.bookings[b.ID].BookingDate.Equal(days(1)))
}

func TestOwnership(t *testing.T) {
	f := newFixture()
	b := f.seed(t, owner, 0, 2)
	ctx := context.Background()

	_, err := f.service.GetByID(ctx, stranger, b.ID)
	require.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
	assert.Equal(t, "User "+otherID+" is not authorized to view this booking", apperrors.AsAppError(err).Message)

	_, err = f.service.Update(ctx, stranger, b.ID, &model.BookingUpdate{CheckoutDate: ptr(days(1))})
	require.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
	assert.Equal(t, "User "+otherID+" is not authorized to update this booking", apperrors.AsAppError(err).Message)

	err = f.service.Delete(ctx, stranger, b.ID)
	require.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
	assert.Equal(t, "User "+otherID+" is not authorized to delete this booking", apperrors.AsAppError(err).Message)

	assert.Contains(t, f.repo.bookings, b.ID)
	assert.True(t, f.repo.bookings[b.ID].CheckoutDate.Equal(days(2)))
}

func TestNotFoundBeforeOwnership(t *testing.T) {
	f := newFixture()
	missing := primitive.NewObjectID().Hex()
	ctx := context.Background()

	_, err := f.service.GetByID(ctx, stranger, missing)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	_, err = f.service.Update(ctx, stranger, missing, &model.BookingUpdate{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	err = f.service.Delete(ctx, stranger, missing)
	require.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	assert.Equal(t, "No booking with the id of "+missing, apperrors.AsAppError(err).Message)
}

func TestDelete_Owner(t *testing.T) {
	f := newFixture()
	b := f.seed(t, owner, 0, 2)

	require.NoError(t, f.service.Delete(context.Background(), owner, b.ID))

	assert.NotContains(t, f.repo.bookings, b.ID)
	_, err := f.service.GetByID(context.Background(), owner, b.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestGetByID_AttachesSummaries(t *testing.T) {
	f := newFixture()
	b := f.seed(t, owner, 0, 2)

	asOwner, err := f.service.GetByID(context.Background(), owner, b.ID)
	require.NoError(t, err)
	require.NotNil(t, asOwner.Hotel)
	assert.Equal(t, "Riverside", asOwner.Hotel.Name)
	require.NotNil(t, asOwner.User)
	assert.Equal(t, "owner@example.com", asOwner.User.Email)

	asAdmin, err := f.service.GetByID(context.Background(), admin, b.ID)
	require.NoError(t, err)
	require.NotNil(t, asAdmin.User)
	assert.Equal(t, "owner@example.com", asAdmin.User.Email)
}

func TestGetByID_RepeatedReadsMatch(t *testing.T) {
	f := newFixture()
	b := f.seed(t, owner, 1, 3)

	first, err := f.service.GetByID(context.Background(), owner, b.ID)
	require.NoError(t, err)
	second, err := f.service.GetByID(context.Background(), owner, b.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestList_ScopedByRole(t *testing.T) {
	f := newFixture()
	f.seed(t, owner, 0, 1)
	f.seed(t, owner, 2, 3)
	f.seed(t, stranger, 0, 1)

	mine, err := f.service.List(context.Background(), owner, "")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, v := range mine {
		assert.Equal(t, ownerID, v.UserID)
		assert.Nil(t, v.User)
	}

	all, err := f.service.List(context.Background(), admin, hotelID)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	for _, v := range all {
		assert.NotNil(t, v.User)
	}
}

func TestList_PersistenceFailure(t *testing.T) {
	f := newFixture()
	f.repo.err = errors.New("timeout")

	_, err := f.service.List(context.Background(), owner, "")

	assert.True(t, apperrors.HasCode(err, apperrors.CodePersistence))
}
