package planner

import "errors"

var (
	// ErrInvalidStep is returned for step numbers outside 1..6.
	ErrInvalidStep = errors.New("planner: invalid step")

	// ErrStepLocked is returned when jumping to a step that has not been reached yet.
	ErrStepLocked = errors.New("planner: step not reached yet")

	// ErrWrongStep is returned when an action is not available on the current step.
	ErrWrongStep = errors.New("planner: action not available on this step")

	// ErrValidation is returned when the basics form has failing fields.
	ErrValidation = errors.New("planner: validation failed")

	// ErrNoPoints is returned when leaving the points step with an empty list.
	ErrNoPoints = errors.New("planner: add at least one route point")

	// ErrPointNotFound is returned when a waypoint id is unknown.
	ErrPointNotFound = errors.New("planner: route point not found")

	// ErrIndexOutOfRange is returned by reorder operations.
	ErrIndexOutOfRange = errors.New("planner: index out of range")

	// ErrUnknownField is returned by the form for fields it does not hold.
	ErrUnknownField = errors.New("planner: unknown form field")

	// ErrMalformedDraft is returned when a stored session cannot be decoded.
	ErrMalformedDraft = errors.New("planner: stored draft is malformed")

	// ErrDraftUnavailable is returned while the stored draft cannot be read.
	ErrDraftUnavailable = errors.New("planner: stored draft is unavailable")

	// ErrSlotEmpty is returned by a Store when a key holds no value.
	ErrSlotEmpty = errors.New("planner: slot is empty")

	// ErrNotSaved is returned when export or sharing is requested before the route was saved.
	ErrNotSaved = errors.New("planner: route has not been saved yet")

	// ErrDragInactive is returned when a drag session was already ended.
	ErrDragInactive = errors.New("planner: drag is not active")
)
