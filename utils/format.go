package utils

import (
	"fmt"
	"math"
	"time"
)

// MessageType selects the color of a CLI message.
type MessageType int

// Message types.
const (
	DefaultMessage MessageType = iota
	SuccessMessage
	ErrorMessage
	StatusMessage
)

// ANSI color sequences of the message types.
const (
	DefaultColor = "\x1b[0m"
	StatusColor  = "\x1b[36m"
	SuccessColor = "\x1b[32m"
	ErrorColor   = "\x1b[31m"
)

// AppName is the prefix of every status line printed by the CLI.
const AppName = "✂ CARVE"

var messageColors = map[MessageType]string{
	DefaultMessage: DefaultColor,
	StatusMessage:  StatusColor,
	SuccessMessage: SuccessColor,
	ErrorMessage:   ErrorColor,
}

// DecorateText wraps the text in the color of the message type
// and resets the terminal color afterwards. Unknown types are left as is.
func DecorateText(s string, msgType MessageType) string {
	c, ok := messageColors[msgType]
	if !ok {
		return s
	}
	return c + s + DefaultColor
}

// StatusLine prefixes the message with the decorated application name.
func StatusLine(msg string, msgType MessageType) string {
	return fmt.Sprintf("%s %s %s",
		DecorateText(AppName, StatusMessage),
		DecorateText("⇢", DefaultMessage),
		DecorateText(msg, msgType),
	)
}

// FormatTime renders a duration as days, hours, minutes and seconds,
// omitting the leading units that are zero.
func FormatTime(d time.Duration) string {
	secs := math.Mod(d.Seconds(), 60)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%dm %.2fs", int64(d.Minutes()), secs)
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh %dm %.2fs", int64(d.Hours()), int64(math.Mod(d.Minutes(), 60)), secs)
	}
	return fmt.Sprintf("%dd %dh %dm %.2fs",
		int64(d.Hours()/24), int64(math.Mod(d.Hours(), 24)),
		int64(math.Mod(d.Minutes(), 60)), secs)
}
