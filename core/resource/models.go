package resource

import (
	"time"

	"github.com/forgelabs/anvil/core"
)

// Types
const (
	TypeArticle = "article"
	TypeVideo   = "video"
	TypeCourse  = "course"
	TypeBook    = "book"
	TypeTool    = "tool"
)

// Statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

var (
	Types    = []string{TypeArticle, TypeVideo, TypeCourse, TypeBook, TypeTool}
	Statuses = []string{StatusDraft, StatusPublished, StatusArchived}
)

type Resource struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	URL         string    `json:"url"`
	Tags        []string  `json:"tags"`
	Difficulty  string    `json:"difficulty"`
	ImageURL    string    `json:"image_url"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// NewResource contains information needed to create a new Resource.
type NewResource struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Type        string   `json:"type" validate:"required,resourcetype"`
	URL         string   `json:"url" validate:"required,url"`
	Tags        []string `json:"tags"`
	Difficulty  string   `json:"difficulty" validate:"omitempty,difficulty"`
	ImageURL    string   `json:"image_url" validate:"omitempty,url"`
}

func (nr *NewResource) Validate() error {
	nr.Title = core.CleanString(nr.Title)
	nr.Description = core.CleanString(nr.Description)
	nr.Type = core.CleanString(nr.Type, true /* lower */)
	nr.Difficulty = core.CleanString(nr.Difficulty, true /* lower */)
	return core.Validate.Struct(nr)
}

// UpdateResource defines what information may be provided to modify an existing Resource.
type UpdateResource struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	Type        string   `json:"type" validate:"omitempty,resourcetype"`
	URL         string   `json:"url" validate:"omitempty,url"`
	Tags        []string `json:"tags"`
	Difficulty  string   `json:"difficulty" validate:"omitempty,difficulty"`
	ImageURL    *string  `json:"image_url"`
}

func (ur *UpdateResource) Validate(orig Resource) error {
	if title := core.CleanString(ur.Title); title != "" {
		ur.Title = title
	} else {
		ur.Title = orig.Title
	}
	if typ := core.CleanString(ur.Type, true /* lower */); typ != "" {
		ur.Type = typ
	} else {
		ur.Type = orig.Type
	}
	if ur.URL == "" {
		ur.URL = orig.URL
	}
	if diff := core.CleanString(ur.Difficulty, true /* lower */); diff != "" {
		ur.Difficulty = diff
	} else {
		ur.Difficulty = orig.Difficulty
	}
	return core.Validate.Struct(ur)
}

type QueryFilter struct {
	Search     string `query:"search"`
	Type       string `query:"type"`
	Difficulty string `query:"difficulty"`
	Tag        string `query:"tag"`
	Status     string `query:"status"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Type == "" && qf.Difficulty == "" && qf.Tag == "" && qf.Status == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Type = core.CleanString(qf.Type, true /* lower */)
	qf.Difficulty = core.CleanString(qf.Difficulty, true /* lower */)
	qf.Tag = core.CleanString(qf.Tag, true /* lower */)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
}
