package id

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// GetULID generates a lexicographically sortable unique id.
func GetULID() string {
	ms := ulid.Timestamp(time.Now())
	v, err := ulid.New(ms, rand.Reader)
	if err != nil {
		return ""
	}
	return v.String()
}
