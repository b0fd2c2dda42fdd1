package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"devlink/middleware"
)

const dbTimeout = 10 * time.Second

func dbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

// fieldErrors shapes validation failures as the field-level message list
// the API contract uses for 400 responses.
func fieldErrors(msgs ...string) gin.H {
	errs := make([]gin.H, 0, len(msgs))
	for _, m := range msgs {
		errs = append(errs, gin.H{"msg": m})
	}
	return gin.H{"errors": errs}
}

// actor resolves the authenticated user id the auth middleware stored in
// the request context.
func actor(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString(middleware.UserIDKey))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "User not authorized"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// postID applies the aggregate id rule: a path id that is not a 24-char
// hex string means "post not found", regardless of store state.
func postID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	raw := c.Param(param)
	if len(raw) != 24 {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Post not found"})
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Post not found"})
		return primitive.NilObjectID, false
	}
	return id, true
}
