package booking

import (
	"time"

	"github.com/google/uuid"
)

// MaxCommentLength bounds a comment body, in runes.
const MaxCommentLength = 4000

// Comment is one immutable message in a booking's thread.
type Comment struct {
	id         uuid.UUID
	seq        int
	authorID   string
	authorName string
	isAgent    bool
	body       string
	createdAt  time.Time
}

// ReconstructComment rebuilds a Comment from persistence data (no validation).
func ReconstructComment(id uuid.UUID, seq int, authorID, authorName string, isAgent bool, body string, createdAt time.Time) Comment {
	return Comment{
		id:         id,
		seq:        seq,
		authorID:   authorID,
		authorName: authorName,
		isAgent:    isAgent,
		body:       body,
		createdAt:  createdAt,
	}
}

func (c Comment) ID() uuid.UUID        { return c.id }
func (c Comment) Seq() int             { return c.seq }
func (c Comment) AuthorID() string     { return c.authorID }
func (c Comment) AuthorName() string   { return c.authorName }
func (c Comment) IsAgent() bool        { return c.isAgent }
func (c Comment) Body() string         { return c.body }
func (c Comment) CreatedAt() time.Time { return c.createdAt }
