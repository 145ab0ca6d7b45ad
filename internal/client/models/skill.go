package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// ExperienceLevel grades the offerer's proficiency.
type ExperienceLevel string

const (
	LevelBeginner     ExperienceLevel = "Beginner"
	LevelIntermediate ExperienceLevel = "Intermediate"
	LevelExpert       ExperienceLevel = "Expert"
)

// ExperienceLevels lists the accepted levels in display order.
var ExperienceLevels = []ExperienceLevel{LevelBeginner, LevelIntermediate, LevelExpert}

// Valid reports whether l is one of the known levels.
func (l ExperienceLevel) Valid() bool {
	return slices.Contains(ExperienceLevels, l)
}

// Weekdays are the day names accepted in Availability.Days.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Availability describes when the offerer can teach. TimeSlots keep their order.
type Availability struct {
	Days      []string `json:"days"`
	TimeSlots []string `json:"timeSlots"`
}

// Skill is an offering published by a user.
type Skill struct {
	ID              string
	OwnerUserID     string
	Owner           *User // populated by the server on some endpoints
	Category        string
	Title           string
	Description     string
	ExperienceLevel ExperienceLevel
	Availability    Availability
	CreatedAt       time.Time
}

const (
	minTitleLen       = 3
	minDescriptionLen = 10
)

var ErrInvalidSkill = errors.New("invalid skill")

// SkillInput is the payload for creating a skill.
type SkillInput struct {
	Category        string          `json:"category"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	ExperienceLevel ExperienceLevel `json:"experienceLevel"`
	Availability    Availability    `json:"availability"`
}

// Validate checks the input the way the offer form does. The catalog store
// does not call it; the server remains the authority.
func (in SkillInput) Validate() error {
	var errs []error
	if strings.TrimSpace(in.Category) == "" {
		errs = append(errs, fmt.Errorf("%w: category is required", ErrInvalidSkill))
	}
	if len([]rune(strings.TrimSpace(in.Title))) < minTitleLen {
		errs = append(errs, fmt.Errorf("%w: title must be at least %d characters", ErrInvalidSkill, minTitleLen))
	}
	if len([]rune(strings.TrimSpace(in.Description))) < minDescriptionLen {
		errs = append(errs, fmt.Errorf("%w: description must be at least %d characters", ErrInvalidSkill, minDescriptionLen))
	}
	if !in.ExperienceLevel.Valid() {
		errs = append(errs, fmt.Errorf("%w: unknown experience level %q", ErrInvalidSkill, in.ExperienceLevel))
	}
	for _, d := range in.Availability.Days {
		if !slices.Contains(Weekdays, d) {
			errs = append(errs, fmt.Errorf("%w: unknown weekday %q", ErrInvalidSkill, d))
		}
	}
	return errors.Join(errs...)
}

// SkillPatch is a partial update; nil fields are left untouched.
type SkillPatch struct {
	Category        *string          `json:"category,omitempty"`
	Title           *string          `json:"title,omitempty"`
	Description     *string          `json:"description,omitempty"`
	ExperienceLevel *ExperienceLevel `json:"experienceLevel,omitempty"`
	Availability    *Availability    `json:"availability,omitempty"`
}

// SkillFilter narrows ListSkills. Empty fields are not sent.
type SkillFilter struct {
	Category        string
	ExperienceLevel ExperienceLevel
}

// Query renders the filter as query parameters, omitting empty keys.
func (f SkillFilter) Query() map[string]string {
	q := map[string]string{}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.ExperienceLevel != "" {
		q["experienceLevel"] = string(f.ExperienceLevel)
	}
	return q
}
