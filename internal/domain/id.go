package domain

import gonanoid "github.com/matoous/go-nanoid/v2"

// IDLength is the length of timeline, row and item identifiers.
const IDLength = 21

// NewID returns a random URL-safe identifier of IDLength characters.
func NewID() string {
	return gonanoid.Must(IDLength)
}
