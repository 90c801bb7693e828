package channel

import (
	"time"

	"github.com/forgelabs/anvil/core"
)

// Types
const (
	TypeChat         = "chat"
	TypeForum        = "forum"
	TypeAnnouncement = "announcement"
)

// Statuses
const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

var (
	Types    = []string{TypeChat, TypeForum, TypeAnnouncement}
	Statuses = []string{StatusActive, StatusArchived}
)

type Channel struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

func (ch *Channel) Active() bool { return ch.Status == StatusActive }

// NewChannel contains information needed to create a new Channel.
type NewChannel struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Type        string `json:"type" validate:"required,channeltype"`
}

func (nc *NewChannel) Validate(svc Service) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Description = core.CleanString(nc.Description)
	nc.Type = core.CleanString(nc.Type, true /* lower */)

	if err := core.Validate.Struct(nc); err != nil {
		return err
	}
	return svc.CheckUniqueness(nc.Name)
}

// UpdateChannel defines what information may be provided to modify an existing Channel.
type UpdateChannel struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Type        string  `json:"type" validate:"omitempty,channeltype"`
	Status      string  `json:"status" validate:"omitempty,channelstatus"`
}

func (uc *UpdateChannel) Validate(orig Channel, svc Service) error {
	if name := core.CleanString(uc.Name); name != "" {
		uc.Name = name
	} else {
		uc.Name = orig.Name
	}
	if typ := core.CleanString(uc.Type, true /* lower */); typ != "" {
		uc.Type = typ
	} else {
		uc.Type = orig.Type
	}
	if status := core.CleanString(uc.Status, true /* lower */); status != "" {
		uc.Status = status
	} else {
		uc.Status = orig.Status
	}

	if err := core.Validate.Struct(uc); err != nil {
		return err
	}
	return svc.CheckUniqueness(uc.Name, orig)
}

type QueryFilter struct {
	Search string `query:"search"`
	Type   string `query:"type"`
	Status string `query:"status"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Type == "" && qf.Status == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Type = core.CleanString(qf.Type, true /* lower */)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
}
