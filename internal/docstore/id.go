package docstore

import "go.mongodb.org/mongo-driver/bson/primitive"

// IDField is the key holding a document's id.
const IDField = "_id"

// NewID returns a fresh ObjectID in hex form. Both backends use the same
// id format so ids stay valid when switching stores.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidateID reports ErrMalformedID for anything that is not a 24 character
// hex ObjectID.
func ValidateID(id string) error {
	if !primitive.IsValidObjectID(id) {
		return ErrMalformedID
	}
	return nil
}

// IDOf returns the id stored in doc, or "" when missing.
func IDOf(doc Document) string {
	id, _ := doc[IDField].(string)
	return id
}
