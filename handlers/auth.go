package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"devlink/auth"
	"devlink/database"
	"devlink/models"
)

type Auth struct {
	Tokens *auth.TokenService
	Log    *logrus.Logger
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks credentials and returns a fresh token. Wrong email and
// wrong password answer identically.
func (h *Auth) Login(c *gin.Context) {
	var req loginRequest
	_ = c.ShouldBindJSON(&req)

	var msgs []string
	if !validEmail(req.Email) {
		msgs = append(msgs, "Please include a valid email")
	}
	if req.Password == "" {
		msgs = append(msgs, "Password is required")
	}
	if len(msgs) > 0 {
		c.JSON(http.StatusBadRequest, fieldErrors(msgs...))
		return
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		c.JSON(http.StatusBadRequest, fieldErrors("Invalid credentials"))
		return
	}
	if err != nil {
		h.Log.WithError(err).Error("login: user lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		c.JSON(http.StatusBadRequest, fieldErrors("Invalid credentials"))
		return
	}

	token, err := h.Tokens.Issue(user.ID.Hex())
	if err != nil {
		h.Log.WithError(err).Error("login: token issue failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Current returns the authenticated user, password hash excluded.
func (h *Auth) Current(c *gin.Context) {
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
		h.Log.WithError(err).Error("current: user lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return
	}

	c.JSON(http.StatusOK, user)
}
