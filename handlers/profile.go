package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"devlink/database"
	"devlink/github"
	"devlink/models"
)

type Profiles struct {
	Github *github.Client
	Log    *logrus.Logger
}

// profileOwner is the populated slice of the owning user embedded in
// profile responses.
type profileOwner struct {
	ID     primitive.ObjectID `json:"_id"`
	Name   string             `json:"name"`
	Avatar string             `json:"avatar"`
}

type profileResponse struct {
	models.Profile
	User profileOwner `json:"user"`
}

type profileRequest struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status"`
	GithubUsername string `json:"githubusername"`
	Skills         string `json:"skills"`
	Youtube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	Linkedin       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

// Me returns the caller's profile with the owner's name/avatar populated.
func (h *Profiles) Me(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}

	profile, ok := h.loadProfile(c, userID, http.StatusBadRequest, "There is no profile for this user")
	if !ok {
		return
	}

	h.respondPopulated(c, profile)
}

// Upsert creates the caller's profile or patches the provided fields of an
// existing one. Each branch returns on its own; there is no fall-through.
func (h *Profiles) Upsert(c *gin.Context) {
	var req profileRequest
	_ = c.ShouldBindJSON(&req)

	var msgs []string
	if strings.TrimSpace(req.Status) == "" {
		msgs = append(msgs, "Status is required")
	}
	if strings.TrimSpace(req.Skills) == "" {
		msgs = append(msgs, "Skills is required")
	}
	if len(msgs) > 0 {
		c.JSON(http.StatusBadRequest, fieldErrors(msgs...))
		return
	}

	userID, ok := actor(c)
	if !ok {
		return
	}

	patch := models.ProfilePatch{
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Status:         req.Status,
		Bio:            req.Bio,
		GithubUsername: req.GithubUsername,
		Skills:         models.SplitSkills(req.Skills),
		Social: models.Social{
			Youtube:   req.Youtube,
			Twitter:   req.Twitter,
			Facebook:  req.Facebook,
			Linkedin:  req.Linkedin,
			Instagram: req.Instagram,
		},
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var profile models.Profile
	err := database.Profiles.FindOne(ctx, bson.M{"user": userID}).Decode(&profile)
	switch {
	case err == nil:
		profile.Apply(patch)
		if _, err := database.Profiles.ReplaceOne(ctx, bson.M{"_id": profile.ID}, profile); err != nil {
			h.Log.WithError(err).Error("profile upsert: update failed")
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
			return
		}
		c.JSON(http.StatusOK, profile)
		return

	case errors.Is(err, mongo.ErrNoDocuments):
		profile = models.Profile{
			ID:         primitive.NewObjectID(),
			User:       userID,
			Experience: []models.Experience{},
			Education:  []models.Education{},
			Date:       time.Now().UTC(),
		}
		profile.Apply(patch)
		if _, err := database.Profiles.InsertOne(ctx, profile); err != nil {
			h.Log.WithError(err).Error("profile upsert: insert failed")
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
			return
		}
		c.JSON(http.StatusOK, profile)
		return

	default:
		h.Log.WithError(err).Error("profile upsert: lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return
	}
}

// List is public and returns every profile with owners populated.
func (h *Profiles) List(c *gin.Context) {
	ctx, cancel := dbCtx()
	defer cancel()

	cursor, err := database.Profiles.Find(ctx, bson.M{})
	if err != nil {
		h.Log.WithError(err).Error("profile list: query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return
	}
	defer cursor.Close(ctx)

	profiles := []models.Profile{}
	if err := cursor.All(ctx, &profiles); err != nil {
		h.Log.WithError(err).Error("profile list: decode failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return
	}

	out := make([]profileResponse, 0, len(profiles))
	for _, p := range profiles {
		owner, err := h.owner(p.User)
		if err != nil {
			continue
		}
		out = append(out, profileResponse{Profile: p, User: owner})
	}

	c.JSON(http.StatusOK, out)
}

// ByUser is public; a malformed id reads the same as a missing profile.
func (h *Profiles) ByUser(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Profile not found"})
		return
	}

	profile, ok := h.loadProfile(c, userID, http.StatusBadRequest, "Profile not found")
	if !ok {
		return
	}

	h.respondPopulated(c, profile)
}

// Delete removes the caller's profile and then the user itself. The two
// deletes are independent operations; a crash in between is accepted.
func (h *Profiles) Delete(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}

	ctx, cancel := dbCtx()
	defer cancel()

	if _, err := database.Profiles.DeleteOne(ctx, bson.M{"user": userID}); err != nil {
		h.Log.WithError(err).Error("profile delete: profile delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return
	}
	if _, err := database.Users.DeleteOne(ctx, bson.M{"_id": userID}); err != nil {
		h.Log.WithError(err).Error("profile delete: user delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Profile deleted"})
}

type experienceRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

func (h *Profiles) AddExperience(c *gin.Context) {
	var req experienceRequest
	_ = c.ShouldBindJSON(&req)

	var msgs []string
	if strings.TrimSpace(req.Title) == "" {
		msgs = append(msgs, "Title is required")
	}
	if strings.TrimSpace(req.Company) == "" {
		msgs = append(msgs, "Company is required")
	}
	if strings.TrimSpace(req.From) == "" {
		msgs = append(msgs, "From date is required")
	}
	if len(msgs) > 0 {
		c.JSON(http.StatusBadRequest, fieldErrors(msgs...))
		return
	}

	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, fieldErrors(err.Error()))
		return
	}

	userID, ok := actor(c)
	if !ok {
		return
	}

	profile, ok := h.loadProfile(c, userID, http.StatusNotFound, "Profile not found")
	if !ok {
		return
	}

	profile.AddExperience(models.Experience{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        from,
		To:          to,
		Current:     req.Current,
		Description: req.Description,
	})
	if !h.saveProfile(c, profile) {
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *Profiles) DeleteExperience(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}

	expID, err := primitive.ObjectIDFromHex(c.Param("exp_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Not found"})
		return
	}

	profile, ok := h.loadProfile(c, userID, http.StatusNotFound, "Not found")
	if !ok {
		return
	}

	if errors.Is(profile.RemoveExperience(expID), models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Not found"})
		return
	}
	if !h.saveProfile(c, profile) {
		return
	}

	c.JSON(http.StatusOK, profile)
}

type educationRequest struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

func (h *Profiles) AddEducation(c *gin.Context) {
	var req educationRequest
	_ = c.ShouldBindJSON(&req)

	var msgs []string
	if strings.TrimSpace(req.School) == "" {
		msgs = append(msgs, "School is required")
	}
	if strings.TrimSpace(req.Degree) == "" {
		msgs = append(msgs, "Degree is required")
	}
	if strings.TrimSpace(req.FieldOfStudy) == "" {
		msgs = append(msgs, "Field of study is required")
	}
	if strings.TrimSpace(req.From) == "" {
		msgs = append(msgs, "From date is required")
	}
	if len(msgs) > 0 {
		c.JSON(http.StatusBadRequest, fieldErrors(msgs...))
		return
	}

	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, fieldErrors(err.Error()))
		return
	}

	userID, ok := actor(c)
	if !ok {
		return
	}

	profile, ok := h.loadProfile(c, userID, http.StatusNotFound, "Profile not found")
	if !ok {
		return
	}

	profile.AddEducation(models.Education{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      req.Current,
		Description:  req.Description,
	})
	if !h.saveProfile(c, profile) {
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *Profiles) DeleteEducation(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}

	eduID, err := primitive.ObjectIDFromHex(c.Param("edu_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Not found"})
		return
	}

	profile, ok := h.loadProfile(c, userID, http.StatusNotFound, "Not found")
	if !ok {
		return
	}

	if errors.Is(profile.RemoveEducation(eduID), models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Not found"})
		return
	}
	if !h.saveProfile(c, profile) {
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GithubRepos proxies the user's public repository listing.
func (h *Profiles) GithubRepos(c *gin.Context) {
	ctx, cancel := dbCtx()
	defer cancel()

	repos, err := h.Github.Repos(ctx, c.Param("username"))
	if errors.Is(err, github.ErrNoProfile) {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "No Github profile found"})
		return
	}
	if err != nil {
		h.Log.WithError(err).Error("github proxy failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", repos)
}

func (h *Profiles) loadProfile(c *gin.Context, userID primitive.ObjectID, missingStatus int, missingMsg string) (*models.Profile, bool) {
	ctx, cancel := dbCtx()
	defer cancel()

	var profile models.Profile
	err := database.Profiles.FindOne(ctx, bson.M{"user": userID}).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		c.JSON(missingStatus, gin.H{"msg": missingMsg})
		return nil, false
	}
	if err != nil {
		h.Log.WithError(err).Error("profile lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return nil, false
	}
	return &profile, true
}

func (h *Profiles) saveProfile(c *gin.Context, profile *models.Profile) bool {
	ctx, cancel := dbCtx()
	defer cancel()

	if _, err := database.Profiles.ReplaceOne(ctx, bson.M{"_id": profile.ID}, profile); err != nil {
		h.Log.WithError(err).Error("profile save failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return false
	}
	return true
}

func (h *Profiles) owner(userID primitive.ObjectID) (profileOwner, error) {
	ctx, cancel := dbCtx()
	defer cancel()

	var user models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return profileOwner{}, err
	}
	return profileOwner{ID: user.ID, Name: user.Name, Avatar: user.Avatar}, nil
}

func (h *Profiles) respondPopulated(c *gin.Context, profile *models.Profile) {
	owner, err := h.owner(profile.User)
	if err != nil {
		h.Log.WithError(err).Error("profile owner lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return
	}
	c.JSON(http.StatusOK, profileResponse{Profile: *profile, User: owner})
}

func parseDateRange(fromRaw, toRaw string) (time.Time, *time.Time, error) {
	from, err := parseDate(fromRaw)
	if err != nil {
		return time.Time{}, nil, errors.New("From date is not valid")
	}
	if toRaw == "" {
		return from, nil, nil
	}
	to, err := parseDate(toRaw)
	if err != nil {
		return time.Time{}, nil, errors.New("To date is not valid")
	}
	return from, &to, nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}
