package theme

import "github.com/charmbracelet/lipgloss"

// Color is an alias for lipgloss.Color for convenience
type Color = lipgloss.Color

// Brand colors
const (
	ColorPrimary   Color = "99" // Purple - app name, titles
	ColorSecondary Color = "86" // Cyan - section headers
)

// Flag status colors
const (
	ColorCompleted  Color = "2" // Green - goal reached
	ColorInProgress Color = "3" // Yellow - underway
	ColorNotStarted Color = "8" // Gray - nothing recorded yet
)

// Deadline urgency colors
const (
	ColorOnTrack  Color = "46"  // Bright green
	ColorPressing Color = "214" // Orange
	ColorUrgent   Color = "196" // Bright red
)

// UI semantic colors
const (
	ColorError     Color = "196" // Bright red
	ColorHighlight Color = "255" // White - emphasis
	ColorMuted     Color = "241" // Gray - secondary text
	ColorNormal    Color = "250" // Default text
	ColorSubtle    Color = "245" // Light gray - labels
)

// Progress bar colors
const (
	ColorBarEmpty Color = "238" // Dark gray
	ColorBarFull  Color = "141" // Purple
)
