package validator

import (
	"math/rand"
	"testing"
	"time"

	"github.com/ReawEiEi/hotel-booking-server/pkg/logger"
	"github.com/ReawEiEi/hotel-booking-server/pkg/model"
)

var base = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func TestValidateStay(t *testing.T) {
	tests := []struct {
		name      string
		checkout  time.Time
		ordered   bool
		withinMax bool
	}{
		{"one night", base.Add(24 * time.Hour), true, true},
		{"exactly three nights", base.Add(72 * time.Hour), true, true},
		{"three nights and a minute", base.Add(72*time.Hour + time.Minute), true, false},
		{"four nights", base.Add(96 * time.Hour), true, false},
		{"an hour", base.Add(time.Hour), true, true},
		{"same instant", base, false, true},
		{"checkout before booking", base.Add(-48 * time.Hour), false, true},
		{"checkout long before booking", base.Add(-240 * time.Hour), false, true},
		{"checkout thousands of years later", time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateStay(base, tt.checkout)
			if got.BookBeforeCheckout != tt.ordered {
				t.Errorf("BookBeforeCheckout = %v, want %v", got.BookBeforeCheckout, tt.ordered)
			}
			if got.NotMoreThanThreeNights != tt.withinMax {
				t.Errorf("NotMoreThanThreeNights = %v, want %v", got.NotMoreThanThreeNights, tt.withinMax)
			}
			if got.OK() != (tt.ordered && tt.withinMax) {
				t.Errorf("OK() = %v", got.OK())
			}
		})
	}
}

func TestValidateStay_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		offset := time.Duration(rng.Int63n(int64(10*24*time.Hour))) - 5*24*time.Hour
		checkout := base.Add(offset)
		got := ValidateStay(base, checkout)

		if got.BookBeforeCheckout != checkout.After(base) {
			t.Fatalf("offset %s: ordering = %v", offset, got.BookBeforeCheckout)
		}
		if !got.BookBeforeCheckout && !got.NotMoreThanThreeNights {
			t.Fatalf("offset %s: duration must keep its default when unordered", offset)
		}
		if got.BookBeforeCheckout {
			want := offset <= MaxNights*24*time.Hour
			if got.NotMoreThanThreeNights != want {
				t.Fatalf("offset %s: NotMoreThanThreeNights = %v, want %v", offset, got.NotMoreThanThreeNights, want)
			}
		}
	}
}

func TestNights_SaturatedSpan(t *testing.T) {
	far := time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)
	booked := time.Date(2023, 8, 20, 0, 0, 0, 0, time.UTC)

	if n := Nights(booked, far); n <= MaxNights {
		t.Errorf("Nights(2023-08-20, 9999-01-01) = %d, want more than %d", n, MaxNights)
	}
	if n := Nights(far, booked); n <= MaxNights {
		t.Errorf("Nights(9999-01-01, 2023-08-20) = %d, want more than %d", n, MaxNights)
	}
}

func TestNights(t *testing.T) {
	if n := Nights(base, base.Add(25*time.Hour)); n != 2 {
		t.Errorf("Nights(25h) = %d, want 2", n)
	}
	if n := Nights(base, base.Add(48*time.Hour)); n != 2 {
		t.Errorf("Nights(48h) = %d, want 2", n)
	}
}

func TestBookingValidator_Validate(t *testing.T) {
	v := NewBookingValidator(logger.Discard())

	valid := &model.Booking{
		HotelID:      "64e1f0c2a1b2c3d4e5f60718",
		UserID:       "64e1f0c2a1b2c3d4e5f60719",
		BookingDate:  base,
		CheckoutDate: base.Add(24 * time.Hour),
	}
	if err := v.Validate(valid); err != nil {
		t.Fatalf("expected valid booking, got %v", err)
	}

	missing := &model.Booking{HotelID: "nope", UserID: valid.UserID}
	err := v.Validate(missing)
	errs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}

	got := map[string]string{}
	for _, e := range errs {
		got[e.Field] = e.Message
	}
	want := map[string]string{
		"HotelID":      "Please add a valid hotel id",
		"BookingDate":  "Please add a booking date",
		"CheckoutDate": "Please add a checkout date",
	}
	for field, message := range want {
		if got[field] != message {
			t.Errorf("%s: got %q, want %q", field, got[field], message)
		}
	}
}
