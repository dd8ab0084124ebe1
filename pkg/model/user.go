package model

// User is owned by the identity provider; this service only reads it.
type User struct {
	ID    string `json:"id" bson:"_id"`
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
	Tel   string `json:"tel,omitempty" bson:"tel,omitempty"`
	Role  string `json:"role" bson:"role"`
}
