package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Like struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	User primitive.ObjectID `bson:"user" json:"user"`
}

type Comment struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	User   primitive.ObjectID `bson:"user" json:"user"`
	Text   string             `bson:"text" json:"text"`
	Name   string             `bson:"name" json:"name"`
	Avatar string             `bson:"avatar" json:"avatar"`
	Date   time.Time          `bson:"date" json:"date"`
}

// Post embeds its likes and comments; they have no storage identity of
// their own and are always persisted with the whole document.
type Post struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	User     primitive.ObjectID `bson:"user" json:"user"`
	Text     string             `bson:"text" json:"text"`
	Name     string             `bson:"name" json:"name"`
	Avatar   string             `bson:"avatar" json:"avatar"`
	Likes    []Like             `bson:"likes" json:"likes"`
	Comments []Comment          `bson:"comments" json:"comments"`
	Date     time.Time          `bson:"date" json:"date"`
}

// LikedBy reports whether the given user already has a like on the post.
func (p *Post) LikedBy(userID primitive.ObjectID) bool {
	for _, l := range p.Likes {
		if l.User == userID {
			return true
		}
	}
	return false
}

// AddLike records a like for the user. At most one like per user per post;
// liking an already-liked post returns ErrAlreadyLiked with no change.
func (p *Post) AddLike(userID primitive.ObjectID) error {
	if p.LikedBy(userID) {
		return ErrAlreadyLiked
	}
	p.Likes = append([]Like{{ID: primitive.NewObjectID(), User: userID}}, p.Likes...)
	return nil
}

// RemoveLike removes the user's like, preserving the order of the rest.
// Unliking a post that was never liked returns ErrNotLiked.
func (p *Post) RemoveLike(userID primitive.ObjectID) error {
	for i, l := range p.Likes {
		if l.User == userID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			return nil
		}
	}
	return ErrNotLiked
}

// AddComment assigns the comment a fresh identity and timestamp and
// inserts it at the head of the sequence.
func (p *Post) AddComment(c Comment) Comment {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.Date.IsZero() {
		c.Date = time.Now().UTC()
	}
	p.Comments = append([]Comment{c}, p.Comments...)
	return c
}

// RemoveComment deletes the comment with the given id. Only the comment's
// author may remove it; the post author gets no special power here.
func (p *Post) RemoveComment(commentID, actor primitive.ObjectID) error {
	for i, c := range p.Comments {
		if c.ID == commentID {
			if err := AssertOwner(actor, c.User); err != nil {
				return err
			}
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
