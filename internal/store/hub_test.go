package store

import (
	"testing"

	"github.com/alexanderramin/spanplan/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestHub_PublishedKeepsHighestRevision(t *testing.T) {
	h := NewHub()
	assert.Zero(t, h.Published("t1"))

	h.Publish(domain.Timeline{ID: "t1", Revision: 4})
	assert.Equal(t, int64(4), h.Published("t1"))

	// A late, older snapshot does not move the mark back.
	h.Publish(domain.Timeline{ID: "t1", Revision: 2})
	assert.Equal(t, int64(4), h.Published("t1"))
	assert.Zero(t, h.Published("t2"))
}
