package schedule

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"

	"github.com/listora/postqueue/recurrence"
)

// Platform identifies a social network a post publishes to.
type Platform string

const (
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTwitter   Platform = "twitter"
)

// Post is one scheduled content item: a caption plus media, routed to one or
// more platforms, publishing first at PublishAt and repeating per its
// recurrence rule if one is attached.
type Post struct {
	ID         uuid.UUID
	ProjectID  uuid.UUID
	Caption    string
	Platforms  []Platform
	MediaURLs  []string
	PublishAt  time.Time
	Recurrence mo.Option[recurrence.Rule]
}

// Rule returns the post's recurrence rule, or a disabled rule when none is
// attached. Either way the post's anchor instant is always published.
func (p Post) Rule() recurrence.Rule {
	return p.Recurrence.OrElse(recurrence.Rule{})
}

// Occurrences expands the post's concrete publish instants, anchor first.
func (p Post) Occurrences(limit int) ([]time.Time, error) {
	return recurrence.Expand(p.PublishAt, p.Rule(), limit)
}

// Duplicate derives an editable copy of the post scheduled at publishAt,
// with a fresh identity and a caption marking the derivation. The source
// post is left untouched.
func (p Post) Duplicate(publishAt time.Time) Post {
	dup := p
	dup.ID = uuid.New()
	dup.Caption = copyCaption(p.Caption)
	dup.PublishAt = publishAt
	dup.Platforms = append([]Platform(nil), p.Platforms...)
	dup.MediaURLs = append([]string(nil), p.MediaURLs...)
	return dup
}

func copyCaption(caption string) string {
	if caption == "" {
		return "(Copy)"
	}
	return caption + " (Copy)"
}
