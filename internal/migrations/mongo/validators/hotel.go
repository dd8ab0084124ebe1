package validators

import "go.mongodb.org/mongo-driver/bson"

var HotelValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"address",
			"district",
			"province",
			"postalcode",
			"picture",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 50,
			},

			"address": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"district": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"province": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"postalcode": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 5,
			},

			"tel": bson.M{
				"bsonType": "string",
			},

			"picture": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
