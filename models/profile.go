package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Social struct {
	Youtube   string `bson:"youtube,omitempty" json:"youtube,omitempty"`
	Twitter   string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	Facebook  string `bson:"facebook,omitempty" json:"facebook,omitempty"`
	Linkedin  string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
}

type Experience struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Company     string             `bson:"company" json:"company"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	From        time.Time          `bson:"from" json:"from"`
	To          *time.Time         `bson:"to,omitempty" json:"to,omitempty"`
	Current     bool               `bson:"current" json:"current"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
}

type Education struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	School       string             `bson:"school" json:"school"`
	Degree       string             `bson:"degree" json:"degree"`
	FieldOfStudy string             `bson:"fieldofstudy" json:"fieldofstudy"`
	From         time.Time          `bson:"from" json:"from"`
	To           *time.Time         `bson:"to,omitempty" json:"to,omitempty"`
	Current      bool               `bson:"current" json:"current"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
}

// Profile is one-to-one with a user via the owning User field.
type Profile struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	User           primitive.ObjectID `bson:"user" json:"user"`
	Company        string             `bson:"company,omitempty" json:"company,omitempty"`
	Website        string             `bson:"website,omitempty" json:"website,omitempty"`
	Location       string             `bson:"location,omitempty" json:"location,omitempty"`
	Status         string             `bson:"status" json:"status"`
	Skills         []string           `bson:"skills" json:"skills"`
	Bio            string             `bson:"bio,omitempty" json:"bio,omitempty"`
	GithubUsername string             `bson:"githubusername,omitempty" json:"githubusername,omitempty"`
	Social         Social             `bson:"social" json:"social"`
	Experience     []Experience       `bson:"experience" json:"experience"`
	Education      []Education        `bson:"education" json:"education"`
	Date           time.Time          `bson:"date" json:"date"`
}

// ProfilePatch names exactly the fields an upsert may touch. Empty scalars
// mean "not provided" and leave the stored value alone; a nil Skills slice
// likewise. Social is rebuilt wholesale from the provided links.
type ProfilePatch struct {
	Company        string
	Website        string
	Location       string
	Status         string
	Bio            string
	GithubUsername string
	Skills         []string
	Social         Social
}

// Apply performs the partial update half of the upsert.
func (p *Profile) Apply(patch ProfilePatch) {
	if patch.Company != "" {
		p.Company = patch.Company
	}
	if patch.Website != "" {
		p.Website = patch.Website
	}
	if patch.Location != "" {
		p.Location = patch.Location
	}
	if patch.Status != "" {
		p.Status = patch.Status
	}
	if patch.Bio != "" {
		p.Bio = patch.Bio
	}
	if patch.GithubUsername != "" {
		p.GithubUsername = patch.GithubUsername
	}
	if patch.Skills != nil {
		p.Skills = patch.Skills
	}
	p.Social = patch.Social
}

// AddExperience gives the entry a fresh identity and inserts it at the
// head: sequences are most-recent-first by insertion, not by date.
func (p *Profile) AddExperience(e Experience) Experience {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	p.Experience = append([]Experience{e}, p.Experience...)
	return e
}

// RemoveExperience splices out the entry with the given id, keeping the
// relative order of the rest.
func (p *Profile) RemoveExperience(id primitive.ObjectID) error {
	for i, e := range p.Experience {
		if e.ID == id {
			p.Experience = append(p.Experience[:i], p.Experience[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (p *Profile) AddEducation(e Education) Education {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	p.Education = append([]Education{e}, p.Education...)
	return e
}

func (p *Profile) RemoveEducation(id primitive.ObjectID) error {
	for i, e := range p.Education {
		if e.ID == id {
			p.Education = append(p.Education[:i], p.Education[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// SplitSkills turns the comma-separated input into the stored ordered
// list, trimming whitespace and dropping empty entries.
func SplitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, part := range parts {
		if s := strings.TrimSpace(part); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}
