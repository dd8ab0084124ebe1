package model

import "time"

type Hotel struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name       string    `json:"name" bson:"name" validate:"required,max=50"`
	Address    string    `json:"address" bson:"address" validate:"required"`
	District   string    `json:"district" bson:"district" validate:"required"`
	Province   string    `json:"province" bson:"province" validate:"required"`
	PostalCode string    `json:"postalcode" bson:"postalcode" validate:"required,max=5"`
	Tel        string    `json:"tel,omitempty" bson:"tel,omitempty"`
	Picture    string    `json:"picture" bson:"picture" validate:"required,url"`
	CreatedAt  time.Time `json:"createdAt" bson:"created_at"`
}

type HotelUpdate struct {
	Name       *string `json:"name,omitempty"`
	Address    *string `json:"address,omitempty"`
	District   *string `json:"district,omitempty"`
	Province   *string `json:"province,omitempty"`
	PostalCode *string `json:"postalcode,omitempty"`
	Tel        *string `json:"tel,omitempty"`
	Picture    *string `json:"picture,omitempty"`
}

type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination carries the neighbouring pages of a hotel listing, when they exist.
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}
