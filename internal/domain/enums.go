package domain

import "fmt"

type ViewMode string

const (
	ViewDay   ViewMode = "day"
	ViewWeek  ViewMode = "week"
	ViewMonth ViewMode = "month"
)

// ViewModes lists the zoom levels in cycling order.
var ViewModes = []ViewMode{ViewDay, ViewWeek, ViewMonth}

// ParseViewMode accepts "day", "week" or "month".
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case ViewDay, ViewWeek, ViewMonth:
		return ViewMode(s), nil
	}
	return "", fmt.Errorf("invalid view mode %q (want day, week or month)", s)
}

// CommitMode controls when gesture ticks are written to the store.
type CommitMode string

const (
	CommitLive      CommitMode = "live"
	CommitOnRelease CommitMode = "release"
)

func ParseCommitMode(s string) (CommitMode, error) {
	switch CommitMode(s) {
	case CommitLive, CommitOnRelease:
		return CommitMode(s), nil
	}
	return "", fmt.Errorf("invalid commit mode %q (want live or release)", s)
}
