package editor

import "github.com/google/uuid"

// Resource handles (uploaded media) are owned by the entry that acquired them
// and handed back through a Releaser exactly once.
type Releaser interface {
	Release(handle string) error
}

type nopReleaser struct{}

func (nopReleaser) Release(string) error { return nil }

func newID(prefix string) string {
	return prefix + "-" + uuid.New().String()
}
