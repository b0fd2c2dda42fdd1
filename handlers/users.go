package handlers

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"devlink/auth"
	"devlink/database"
	"devlink/models"
)

type Users struct {
	Tokens *auth.TokenService
	Log    *logrus.Logger
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a credential entry and returns a token for it. Email
// uniqueness is a lookup-before-insert check.
func (h *Users) Register(c *gin.Context) {
	var req registerRequest
	_ = c.ShouldBindJSON(&req)

	var msgs []string
	if strings.TrimSpace(req.Name) == "" {
		msgs = append(msgs, "Name is required")
	}
	if !validEmail(req.Email) {
		msgs = append(msgs, "Please include a valid email")
	}
	if len(req.Password) < 6 {
		msgs = append(msgs, "Please enter a password with 6 or more characters")
	}
	if len(msgs) > 0 {
		c.JSON(http.StatusBadRequest, fieldErrors(msgs...))
		return
	}

	ctx, cancel := dbCtx()
	defer cancel()

	err := database.Users.FindOne(ctx, bson.M{"email": req.Email}).Err()
	if err == nil {
		c.JSON(http.StatusBadRequest, fieldErrors("User already exists"))
		return
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		h.Log.WithError(err).Error("register: email lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Log.WithError(err).Error("register: password hash failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return
	}

	user := models.User{
		ID:       primitive.NewObjectID(),
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
		Avatar:   models.GravatarURL(req.Email),
		Date:     time.Now().UTC(),
	}
	if _, err := database.Users.InsertOne(ctx, user); err != nil {
		h.Log.WithError(err).Error("register: insert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return
	}

	token, err := h.Tokens.Issue(user.ID.Hex())
	if err != nil {
		h.Log.WithError(err).Error("register: token issue failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func validEmail(s string) bool {
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
