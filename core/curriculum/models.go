package curriculum

import (
	"time"

	"github.com/forgelabs/anvil/core"
)

type Phase struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

type Week struct {
	ID         string    `json:"id"`
	PhaseID    string    `json:"phase_id"`
	Title      string    `json:"title"`
	Position   int       `json:"position"`
	Objectives []string  `json:"objectives"`
	CreatedAt  time.Time `json:"created_at"` // UTC
	UpdatedAt  time.Time `json:"updated_at"` // UTC
}

type Lesson struct {
	ID          string    `json:"id"`
	WeekID      string    `json:"week_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Duration    int       `json:"duration"` // minutes
	Position    int       `json:"position"`
	ResourceIDs []string  `json:"resource_ids"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

type NewPhase struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

func (np *NewPhase) Validate() error {
	np.Title = core.CleanString(np.Title)
	np.Description = core.CleanString(np.Description)
	return core.Validate.Struct(np)
}

type UpdatePhase struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

func (up *UpdatePhase) Validate(orig Phase) error {
	if title := core.CleanString(up.Title); title != "" {
		up.Title = title
	} else {
		up.Title = orig.Title
	}
	return core.Validate.Struct(up)
}

type NewWeek struct {
	PhaseID    string   `json:"phase_id" validate:"required"`
	Title      string   `json:"title" validate:"required"`
	Objectives []string `json:"objectives"`
}

func (nw *NewWeek) Validate() error {
	nw.Title = core.CleanString(nw.Title)
	return core.Validate.Struct(nw)
}

type UpdateWeek struct {
	Title      string   `json:"title"`
	Objectives []string `json:"objectives"`
}

func (uw *UpdateWeek) Validate(orig Week) error {
	if title := core.CleanString(uw.Title); title != "" {
		uw.Title = title
	} else {
		uw.Title = orig.Title
	}
	return core.Validate.Struct(uw)
}

type NewLesson struct {
	WeekID      string   `json:"week_id" validate:"required"`
	Title       string   `json:"title" validate:"required"`
	Content     string   `json:"content"`
	Duration    int      `json:"duration" validate:"omitempty,gte=1"`
	ResourceIDs []string `json:"resource_ids"`
}

func (nl *NewLesson) Validate() error {
	nl.Title = core.CleanString(nl.Title)
	return core.Validate.Struct(nl)
}

type UpdateLesson struct {
	Title       string   `json:"title"`
	Content     *string  `json:"content"`
	Duration    *int     `json:"duration" validate:"omitempty,gte=1"`
	ResourceIDs []string `json:"resource_ids"`
}

func (ul *UpdateLesson) Validate(orig Lesson) error {
	if title := core.CleanString(ul.Title); title != "" {
		ul.Title = title
	} else {
		ul.Title = orig.Title
	}
	return core.Validate.Struct(ul)
}
