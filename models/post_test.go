package models

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAddLikeThenRemoveLike(t *testing.T) {
	post := &Post{}
	user := primitive.NewObjectID()

	if err := post.AddLike(user); err != nil {
		t.Fatalf("AddLike: %v", err)
	}
	if len(post.Likes) != 1 || post.Likes[0].User != user {
		t.Fatalf("unexpected likes: %+v", post.Likes)
	}
	if post.Likes[0].ID.IsZero() {
		t.Fatalf("like should get its own identity")
	}

	if err := post.RemoveLike(user); err != nil {
		t.Fatalf("RemoveLike: %v", err)
	}
	if len(post.Likes) != 0 {
		t.Fatalf("expected empty likes, got %d", len(post.Likes))
	}
}

func TestAddLikeTwiceFails(t *testing.T) {
	post := &Post{}
	user := primitive.NewObjectID()

	if err := post.AddLike(user); err != nil {
		t.Fatalf("first AddLike: %v", err)
	}
	err := post.AddLike(user)
	if !errors.Is(err, ErrAlreadyLiked) {
		t.Fatalf("expected ErrAlreadyLiked, got %v", err)
	}
	if len(post.Likes) != 1 {
		t.Fatalf("like sequence length changed: %d", len(post.Likes))
	}
}

func TestRemoveLikeNeverLiked(t *testing.T) {
	post := &Post{}
	if err := post.RemoveLike(primitive.NewObjectID()); !errors.Is(err, ErrNotLiked) {
		t.Fatalf("expected ErrNotLiked, got %v", err)
	}
}

func TestLikesInsertAtHead(t *testing.T) {
	post := &Post{}
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()

	_ = post.AddLike(first)
	_ = post.AddLike(second)

	if post.Likes[0].User != second || post.Likes[1].User != first {
		t.Fatalf("likes not most-recent-first: %+v", post.Likes)
	}
}

func TestRemoveLikePreservesOrder(t *testing.T) {
	post := &Post{}
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	c := primitive.NewObjectID()
	_ = post.AddLike(a)
	_ = post.AddLike(b)
	_ = post.AddLike(c)

	if err := post.RemoveLike(b); err != nil {
		t.Fatalf("RemoveLike: %v", err)
	}
	if post.Likes[0].User != c || post.Likes[1].User != a {
		t.Fatalf("remaining likes out of order: %+v", post.Likes)
	}
}

func TestAddCommentAssignsIdentityAndUnshifts(t *testing.T) {
	post := &Post{}
	author := primitive.NewObjectID()

	older := post.AddComment(Comment{User: author, Text: "first"})
	newer := post.AddComment(Comment{User: author, Text: "second"})

	if older.ID.IsZero() || newer.ID.IsZero() {
		t.Fatalf("comments must get identities")
	}
	if older.ID == newer.ID {
		t.Fatalf("comment identities must be distinct")
	}
	if post.Comments[0].Text != "second" || post.Comments[1].Text != "first" {
		t.Fatalf("comments not most-recent-first: %+v", post.Comments)
	}
	if post.Comments[0].Date.IsZero() {
		t.Fatalf("comment date should be set")
	}
}

func TestRemoveCommentByNonAuthorRejected(t *testing.T) {
	post := &Post{User: primitive.NewObjectID()}
	commenter := primitive.NewObjectID()

	comment := post.AddComment(Comment{User: commenter, Text: "hi"})

	// Not even the post author may remove someone else's comment.
	err := post.RemoveComment(comment.ID, post.User)
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if len(post.Comments) != 1 {
		t.Fatalf("comment should remain, got %d", len(post.Comments))
	}

	if err := post.RemoveComment(comment.ID, commenter); err != nil {
		t.Fatalf("author removal: %v", err)
	}
	if len(post.Comments) != 0 {
		t.Fatalf("comment should be gone, got %d", len(post.Comments))
	}
}

func TestRemoveCommentMissing(t *testing.T) {
	post := &Post{}
	err := post.RemoveComment(primitive.NewObjectID(), primitive.NewObjectID())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAssertOwner(t *testing.T) {
	owner := primitive.NewObjectID()
	if err := AssertOwner(owner, owner); err != nil {
		t.Fatalf("owner rejected: %v", err)
	}
	if err := AssertOwner(primitive.NewObjectID(), owner); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}
