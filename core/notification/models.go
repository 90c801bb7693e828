package notification

import (
	"time"

	"github.com/forgelabs/anvil/core"
	"github.com/forgelabs/anvil/core/user"
)

// Types
const (
	TypeAnnouncement = "announcement"
	TypeProblem      = "problem"
	TypeResource     = "resource"
	TypeSystem       = "system"
)

var Types = []string{TypeAnnouncement, TypeProblem, TypeResource, TypeSystem}

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Link      string    `json:"link,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// NewBroadcast contains information needed to fan a notification out to an
// audience. An empty Roles list targets all active users; otherwise only
// users holding a role with one of the given prefixes.
type NewBroadcast struct {
	Type      string   `json:"type" validate:"required,notiftype"`
	Title     string   `json:"title" validate:"required"`
	Body      string   `json:"body" validate:"required"`
	Link      string   `json:"link" validate:"omitempty,url"`
	Roles     []string `json:"roles" validate:"omitempty,allroles"`
	SendEmail bool     `json:"send_email"`
}

func (nb *NewBroadcast) Validate() error {
	nb.Type = core.CleanString(nb.Type, true /* lower */)
	nb.Title = core.CleanString(nb.Title)
	nb.Body = core.CleanString(nb.Body)
	return core.Validate.Struct(nb)
}

// Targets reports whether the broadcast audience includes usr.
func (nb *NewBroadcast) Targets(usr user.User) bool {
	if !usr.Active() {
		return false
	}
	if len(nb.Roles) == 0 {
		return true
	}
	for _, prefix := range nb.Roles {
		if usr.RoleStartsWith(prefix) {
			return true
		}
	}
	return false
}
