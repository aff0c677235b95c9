package model

import (
	"errors"
	"strings"
)

// Difficulty is the requested interview difficulty
type Difficulty string

const (
	DifficultyEasy     Difficulty = "EASY"
	DifficultyModerate Difficulty = "MODERATE"
	DifficultyHard     Difficulty = "HARD"
)

// Valid reports whether d is one of the known levels
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyModerate, DifficultyHard:
		return true
	}
	return false
}

var (
	ErrRoleRequired      = errors.New("current role is required")
	ErrInvalidExperience = errors.New("experience years cannot be negative")
	ErrInvalidDifficulty = errors.New("difficulty level must be EASY, MODERATE or HARD")
	ErrTechStackRequired = errors.New("tech stack is required")
)

// ProfileRequest is the body of POST /api/interviews/profile
type ProfileRequest struct {
	ResumeID        int64      `json:"resumeId"`
	CurrentRole     string     `json:"currentRole"`
	ExperienceYears float64    `json:"experienceYears"`
	DifficultyLevel Difficulty `json:"difficultyLevel"`
	TechStack       []string   `json:"techStack"`
	RecentProjects  string     `json:"recentProjects,omitempty"`
}

// Normalize trims free-text fields and drops blank tech stack entries,
// then validates the result.
func (p *ProfileRequest) Normalize() error {
	p.CurrentRole = strings.TrimSpace(p.CurrentRole)
	p.RecentProjects = strings.TrimSpace(p.RecentProjects)
	p.DifficultyLevel = Difficulty(strings.ToUpper(strings.TrimSpace(string(p.DifficultyLevel))))

	stack := make([]string, 0, len(p.TechStack))
	for _, s := range p.TechStack {
		if s = strings.TrimSpace(s); s != "" {
			stack = append(stack, s)
		}
	}
	p.TechStack = stack

	switch {
	case p.CurrentRole == "":
		return ErrRoleRequired
	case p.ExperienceYears < 0:
		return ErrInvalidExperience
	case !p.DifficultyLevel.Valid():
		return ErrInvalidDifficulty
	case len(p.TechStack) == 0:
		return ErrTechStackRequired
	}
	return nil
}

// SplitTechStack parses a comma separated stack as typed in a form
func SplitTechStack(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ProfileResponse is returned by the profile endpoint
type ProfileResponse struct {
	ID int64 `json:"id"`
}

// InterviewProfile is the profile a session was started with.
// It is never modified after creation.
type InterviewProfile struct {
	ID              int64      `json:"id" bson:"id"`
	CurrentRole     string     `json:"currentRole" bson:"currentRole"`
	ExperienceYears float64    `json:"experienceYears" bson:"experienceYears"`
	DifficultyLevel Difficulty `json:"difficultyLevel" bson:"difficultyLevel"`
	TechStack       []string   `json:"techStack" bson:"techStack"`
	RecentProjects  string     `json:"recentProjects,omitempty" bson:"recentProjects,omitempty"`
}

// NewInterviewProfile binds a created profile id to its request fields
func NewInterviewProfile(id int64, req *ProfileRequest) *InterviewProfile {
	stack := make([]string, len(req.TechStack))
	copy(stack, req.TechStack)
	return &InterviewProfile{
		ID:              id,
		CurrentRole:     req.CurrentRole,
		ExperienceYears: req.ExperienceYears,
		DifficultyLevel: req.DifficultyLevel,
		TechStack:       stack,
		RecentProjects:  req.RecentProjects,
	}
}
