package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"devlink/database"
	"devlink/models"
)

type Posts struct {
	Log *logrus.Logger
}

type postRequest struct {
	Text string `json:"text"`
}

// Create stores a post with the author's name and avatar snapshotted at
// creation time. Later profile edits do not touch existing posts.
func (h *Posts) Create(c *gin.Context) {
	var req postRequest
	_ = c.ShouldBindJSON(&req)
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, fieldErrors("Text is required"))
		return
	}

	userID, ok := actor(c)
	if !ok {
		return
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		c.JSON(http.StatusNotFound, gin.H{"msg": "User not found"})
		return
	}
	if err != nil {
		h.Log.WithError(err).Error("create post: user lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return
	}

	post := models.Post{
		ID:       primitive.NewObjectID(),
		User:     user.ID,
		Text:     req.Text,
		Name:     user.Name,
		Avatar:   user.Avatar,
		Likes:    []models.Like{},
		Comments: []models.Comment{},
		Date:     time.Now().UTC(),
	}
	if _, err := database.Posts.InsertOne(ctx, post); err != nil {
		h.Log.WithError(err).Error("create post: insert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// List returns all posts, newest first.
func (h *Posts) List(c *gin.Context) {
	ctx, cancel := dbCtx()
	defer cancel()

	cursor, err := database.Posts.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		h.Log.WithError(err).Error("list posts: query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		h.Log.WithError(err).Error("list posts: decode failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return
	}

	c.JSON(http.StatusOK, posts)
}

// Get fetches one post. Only the author may view it through this
// endpoint.
func (h *Posts) Get(c *gin.Context) {
	id, ok := postID(c, "id")
	if !ok {
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}

	post, ok := h.loadPost(c, id)
	if !ok {
		return
	}

	if models.AssertOwner(userID, post.User) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "User not authorized"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// Delete removes a post, author only. Embedded likes and comments go with
// it.
func (h *Posts) Delete(c *gin.Context) {
	id, ok := postID(c, "id")
	if !ok {
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}

	post, ok := h.loadPost(c, id)
	if !ok {
		return
	}

	if models.AssertOwner(userID, post.User) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "User not authorized"})
		return
	}

	ctx, cancel := dbCtx()
	defer cancel()
	if _, err := database.Posts.DeleteOne(ctx, bson.M{"_id": post.ID}); err != nil {
		h.Log.WithError(err).Error("delete post: delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Post removed"})
}

// Like transitions (post, user) from unliked to liked.
func (h *Posts) Like(c *gin.Context) {
	id, ok := postID(c, "id")
	if !ok {
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}

	post, ok := h.loadPost(c, id)
	if !ok {
		return
	}

	if err := post.AddLike(userID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Post already liked"})
		return
	}
	if !h.savePost(c, post) {
		return
	}

	c.JSON(http.StatusOK, post.Likes)
}

// Unlike transitions (post, user) from liked to unliked.
func (h *Posts) Unlike(c *gin.Context) {
	id, ok := postID(c, "id")
	if !ok {
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}

	post, ok := h.loadPost(c, id)
	if !ok {
		return
	}

	if err := post.RemoveLike(userID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Post has not yet been liked"})
		return
	}
	if !h.savePost(c, post) {
		return
	}

	c.JSON(http.StatusOK, post.Likes)
}

// AddComment appends a comment (at the head) from any authenticated user.
func (h *Posts) AddComment(c *gin.Context) {
	var req postRequest
	_ = c.ShouldBindJSON(&req)
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, fieldErrors("Text is required"))
		return
	}

	id, ok := postID(c, "id")
	if !ok {
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		c.JSON(http.StatusNotFound, gin.H{"msg": "User not found"})
		return
	}
	if err != nil {
		h.Log.WithError(err).Error("comment: user lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return
	}

	post, ok := h.loadPost(c, id)
	if !ok {
		return
	}

	post.AddComment(models.Comment{
		User:   user.ID,
		Text:   req.Text,
		Name:   user.Name,
		Avatar: user.Avatar,
	})
	if !h.savePost(c, post) {
		return
	}

	c.JSON(http.StatusOK, post.Comments)
}

// DeleteComment removes a comment; only its author may do so.
func (h *Posts) DeleteComment(c *gin.Context) {
	id, ok := postID(c, "id")
	if !ok {
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}

	commentID, err := primitive.ObjectIDFromHex(c.Param("comment_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Comment not found"})
		return
	}

	post, ok := h.loadPost(c, id)
	if !ok {
		return
	}

	switch err := post.RemoveComment(commentID, userID); {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": "Comment not found"})
		return
	case errors.Is(err, models.ErrNotOwner):
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "User not authorized"})
		return
	}

	if !h.savePost(c, post) {
		return
	}

	c.JSON(http.StatusOK, post.Comments)
}

func (h *Posts) loadPost(c *gin.Context, id primitive.ObjectID) (*models.Post, bool) {
	ctx, cancel := dbCtx()
	defer cancel()

	var post models.Post
	err := database.Posts.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Post not found"})
		return nil, false
	}
	if err != nil {
		h.Log.WithError(err).Error("post lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return nil, false
	}
	return &post, true
}

// savePost persists the whole aggregate after an in-memory mutation.
func (h *Posts) savePost(c *gin.Context, post *models.Post) bool {
	ctx, cancel := dbCtx()
	defer cancel()

	if _, err := database.Posts.ReplaceOne(ctx, bson.M{"_id": post.ID}, post); err != nil {
		h.Log.WithError(err).Error("post save failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return false
	}
	return true
}
