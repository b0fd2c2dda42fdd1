package models

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Domain errors surfaced by aggregate mutations. Handlers translate these
// into HTTP status codes.
var (
	ErrAlreadyLiked = errors.New("post already liked")
	ErrNotLiked     = errors.New("post has not yet been liked")
	ErrNotFound     = errors.New("not found")
	ErrNotOwner     = errors.New("not authorized")
)

// AssertOwner is the single authorization primitive: the acting user must
// be the recorded owner of the aggregate or embedded item.
func AssertOwner(actor, owner primitive.ObjectID) error {
	if actor != owner {
		return ErrNotOwner
	}
	return nil
}
