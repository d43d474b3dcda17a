package services

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Sentinel errors for the competition engine. Endpoints map these to HTTP
// status codes; callers wrap them with fmt.Errorf("...: %w", err) so
// errors.Is still matches.
var (
	// ErrInvalidTeamCount: wrong cardinality for a fixture format.
	ErrInvalidTeamCount = errors.New("invalid team count for fixture format")
	// ErrInvalidResult: malformed or out-of-range scores/penalties.
	ErrInvalidResult = errors.New("invalid match result")
	// ErrInvalidEvent: unknown event type/side or dangling player reference.
	ErrInvalidEvent = errors.New("invalid match event")
	// ErrDuplicateSeasonNumber: archival collision on the season number.
	ErrDuplicateSeasonNumber = errors.New("duplicate season number")
	// ErrPrerequisiteNotMet: operation requested before its preconditions hold
	// (e.g. a cup final before both semi-finals are played).
	ErrPrerequisiteNotMet = errors.New("prerequisite not met")
)

// statusForError maps engine errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrInvalidTeamCount),
		errors.Is(err, ErrInvalidResult),
		errors.Is(err, ErrInvalidEvent):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrDuplicateSeasonNumber),
		errors.Is(err, ErrPrerequisiteNotMet):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// errorJSON writes the standard error payload for an engine error.
func errorJSON(c *fiber.Ctx, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
}
