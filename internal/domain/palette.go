package domain

import "math/rand/v2"

// DefaultColors is the swatch palette offered for items. Any color string
// is accepted on write.
var DefaultColors = []string{
	"#3B82F6", // blue
	"#10B981", // green
	"#F59E0B", // amber
	"#EF4444", // red
	"#8B5CF6", // purple
	"#EC4899", // pink
	"#06B6D4", // cyan
	"#F97316", // orange
}

// RandomColor picks a palette swatch uniformly at random.
func RandomColor() string {
	return DefaultColors[rand.IntN(len(DefaultColors))]
}
