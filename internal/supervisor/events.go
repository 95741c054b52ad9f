package supervisor

import "github.com/handiism/flags-downloader/internal/model"

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a human-readable progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// levelFor maps an outcome status to the level its line is shown at.
func levelFor(s model.Status) ProgressLevel {
	switch s {
	case model.StatusSuccess:
		return LevelSuccess
	case model.StatusNotFound:
		return LevelWarning
	case model.StatusFailure:
		return LevelError
	default:
		return LevelVerbose
	}
}
