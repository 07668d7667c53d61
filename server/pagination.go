package server

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	postsPageSize         = 10
	commentsPageSize      = 5
	notificationsPageSize = 10
)

// pageCursor is the decoded form of the opaque cursor: the sort key of the
// last item the client has seen. The cursor carries the full (createdAt, id)
// key instead of just the id, so a page request keeps working even when the
// cursor row has been deleted in the meantime: the window query only
// compares against the key, it never looks the row up.
type pageCursor struct {
	CreatedAt time.Time
	Id        string
}

func encodeCursor(createdAt time.Time, id string) string {
	raw := createdAt.UTC().Format(time.RFC3339Nano) + "|" + id
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(raw string) (*pageCursor, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil, errors.Wrap(err, "malformed cursor")
	}
	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 {
		return nil, errors.New("malformed cursor")
	}
	createdAt, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, errors.Wrap(err, "malformed cursor")
	}
	return &pageCursor{CreatedAt: createdAt, Id: parts[1]}, nil
}

// cursorFromRequest reads the optional "cursor" query parameter.
func cursorFromRequest(c *gin.Context) (*pageCursor, error) {
	raw := c.Query("cursor")
	if raw == "" {
		return nil, nil
	}
	return decodeCursor(raw)
}

// scopeNewestFirst orders rows by (created_at, id) descending and, when a
// cursor is present, restricts to rows strictly after it in that order. The
// row-wise comparison is a single index-friendly predicate on the composite
// sort key.
func scopeNewestFirst(cursor *pageCursor, table string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Order(table + ".created_at DESC, " + table + ".id DESC")
		if cursor != nil {
			db = db.Where("("+table+".created_at, "+table+".id) < (?, ?)", cursor.CreatedAt, cursor.Id)
		}
		return db
	}
}
