package problem

import (
	"time"

	"github.com/forgelabs/anvil/core"
)

// Difficulties
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
	DifficultyExpert = "expert"
)

// Statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

var (
	Difficulties = []string{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert}
	Statuses     = []string{StatusDraft, StatusPublished, StatusArchived}
)

type Problem struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Slug             string    `json:"slug"`
	Description      string    `json:"description"`
	Difficulty       string    `json:"difficulty"`
	Category         string    `json:"category"`
	Tags             []string  `json:"tags"`
	Companies        []string  `json:"companies"`
	Constraints      []string  `json:"constraints"`
	Hints            []string  `json:"hints"`
	EstimatedMinutes int       `json:"estimated_minutes"`
	ImageURL         string    `json:"image_url"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"` // UTC
	UpdatedAt        time.Time `json:"updated_at"` // UTC
}

func (p *Problem) Published() bool { return p.Status == StatusPublished }

// NewProblem contains information needed to create a new Problem.
type NewProblem struct {
	Title            string   `json:"title" validate:"required"`
	Description      string   `json:"description" validate:"required"`
	Difficulty       string   `json:"difficulty" validate:"required,difficulty"`
	Category         string   `json:"category" validate:"required"`
	Tags             []string `json:"tags"`
	Companies        []string `json:"companies"`
	Constraints      []string `json:"constraints"`
	Hints            []string `json:"hints"`
	EstimatedMinutes int      `json:"estimated_minutes" validate:"omitempty,gte=1"`
	ImageURL         string   `json:"image_url" validate:"omitempty,url"`
}

func (np *NewProblem) Validate() error {
	np.Title = core.CleanString(np.Title)
	np.Description = core.CleanString(np.Description)
	np.Difficulty = core.CleanString(np.Difficulty, true /* lower */)
	np.Category = core.CleanString(np.Category, true /* lower */)
	return core.Validate.Struct(np)
}

// UpdateProblem defines what information may be provided to modify an existing Problem.
type UpdateProblem struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Difficulty       string   `json:"difficulty" validate:"omitempty,difficulty"`
	Category         string   `json:"category"`
	Tags             []string `json:"tags"`
	Companies        []string `json:"companies"`
	Constraints      []string `json:"constraints"`
	Hints            []string `json:"hints"`
	EstimatedMinutes *int     `json:"estimated_minutes" validate:"omitempty,gte=1"`
	ImageURL         *string  `json:"image_url"`
}

func (up *UpdateProblem) Validate(orig Problem) error {
	if title := core.CleanString(up.Title); title != "" {
		up.Title = title
	} else {
		up.Title = orig.Title
	}
	if desc := core.CleanString(up.Description); desc != "" {
		up.Description = desc
	} else {
		up.Description = orig.Description
	}
	if diff := core.CleanString(up.Difficulty, true /* lower */); diff != "" {
		up.Difficulty = diff
	} else {
		up.Difficulty = orig.Difficulty
	}
	if cat := core.CleanString(up.Category, true /* lower */); cat != "" {
		up.Category = cat
	} else {
		up.Category = orig.Category
	}
	return core.Validate.Struct(up)
}

type QueryFilter struct {
	Search     string `query:"search"`
	Difficulty string `query:"difficulty"`
	Category   string `query:"category"`
	Tag        string `query:"tag"`
	Status     string `query:"status"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Difficulty == "" && qf.Category == "" && qf.Tag == "" && qf.Status == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Difficulty = core.CleanString(qf.Difficulty, true /* lower */)
	qf.Category = core.CleanString(qf.Category, true /* lower */)
	qf.Tag = core.CleanString(qf.Tag, true /* lower */)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
}
