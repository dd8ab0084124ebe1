package validators

import "go.mongodb.org/mongo-driver/bson"

// UserValidator only pins the fields this service reads. The identity provider
// owns the rest of the document.
var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name", "email", "role"},
		"additionalProperties": true,

		"properties": bson.M{
			"name": bson.M{
				"bsonType": "string",
			},

			"email": bson.M{
				"bsonType": "string",
			},

			"tel": bson.M{
				"bsonType": "string",
			},

			"role": bson.M{
				"bsonType": "string",
				"enum":     []string{"admin", "user"},
			},
		},
	},
}
