package model

import (
	"time"
)

// Booking is the stored reservation. HotelID and UserID are fixed at creation;
// only the two dates change afterwards.
type Booking struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	HotelID      string    `json:"hotel" bson:"hotel_id" validate:"required,mongodb"`
	UserID       string    `json:"user" bson:"user_id" validate:"required,mongodb"`
	BookingDate  time.Time `json:"bookingDate" bson:"booking_date" validate:"required"`
	CheckoutDate time.Time `json:"checkoutDate" bson:"checkout_date" validate:"required"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
}

type BookingUpdate struct {
	BookingDate  *time.Time `json:"bookingDate,omitempty"`
	CheckoutDate *time.Time `json:"checkoutDate,omitempty"`
}

func (u *BookingUpdate) IsEmpty() bool {
	return u == nil || (u.BookingDate == nil && u.CheckoutDate == nil)
}

// BookingView is a booking with the related hotel and user summaries attached.
// User is only populated for admin reads.
type BookingView struct {
	ID           string        `json:"id" bson:"_id"`
	UserID       string        `json:"userId" bson:"user_id"`
	Hotel        *HotelSummary `json:"hotel" bson:"hotel,omitempty"`
	User         *UserSummary  `json:"user,omitempty" bson:"user,omitempty"`
	BookingDate  time.Time     `json:"bookingDate" bson:"booking_date"`
	CheckoutDate time.Time     `json:"checkoutDate" bson:"checkout_date"`
	CreatedAt    time.Time     `json:"createdAt" bson:"created_at"`
}

type HotelSummary struct {
	ID      string `json:"id" bson:"_id"`
	Name    string `json:"name" bson:"name"`
	Address string `json:"address" bson:"address"`
	Tel     string `json:"tel,omitempty" bson:"tel,omitempty"`
}

type UserSummary struct {
	ID    string `json:"id" bson:"_id"`
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
	Tel   string `json:"tel,omitempty" bson:"tel,omitempty"`
}

// BookingFilter narrows a booking listing. Empty fields match everything.
type BookingFilter struct {
	UserID      string
	HotelID     string
	IncludeUser bool
}
