package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Session is the persisted draft envelope.
type Session struct {
	State     TripDraft `json:"state"`
	Step      Step      `json:"step"`
	Timestamp time.Time `json:"timestamp"`
}

// EncodeSession normalizes the draft and serializes the envelope.
func EncodeSession(s Session) ([]byte, error) {
	if !s.Step.Valid() {
		return nil, fmt.Errorf("planner.EncodeSession: %w: %d", ErrInvalidStep, int(s.Step))
	}
	s.State = Normalize(s.State)
	return json.Marshal(s)
}

// DecodeSession parses an envelope written by EncodeSession.
func DecodeSession(b []byte) (Session, error) {
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return Session{}, fmt.Errorf("planner.DecodeSession: %w: %w", ErrMalformedDraft, err)
	}
	if !s.Step.Valid() {
		return Session{}, fmt.Errorf("planner.DecodeSession: %w: %w: %d", ErrMalformedDraft, ErrInvalidStep, int(s.Step))
	}
	s.State = Normalize(s.State)
	return s, nil
}

// LoadSession reads and decodes the session in key. The boolean is false when
// the slot is empty. Payloads that do not decode yield ErrMalformedDraft; any
// other error comes from the store.
func LoadSession(ctx context.Context, store Store, key string) (Session, bool, error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, ErrSlotEmpty) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("planner.LoadSession: %w", err)
	}
	s, err := DecodeSession(raw)
	if err != nil {
		return Session{}, false, err
	}
	return s, true, nil
}

// SaveSession stamps and writes s to key, overwriting any previous value.
func SaveSession(ctx context.Context, store Store, key string, s Session, now time.Time) error {
	s.Timestamp = now.UTC()
	raw, err := EncodeSession(s)
	if err != nil {
		return err
	}
	if err := store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("planner.SaveSession: %w", err)
	}
	return nil
}

// PatchSessionAccommodation sets the accommodation of an already persisted
// session and moves it to the accommodation step. Nothing is written when no
// session exists.
func PatchSessionAccommodation(ctx context.Context, store Store, key string, sel AccommodationSelection, now time.Time) (bool, error) {
	s, ok, err := LoadSession(ctx, store, key)
	if err != nil || !ok {
		return false, err
	}
	s.State.Accommodation = &sel
	s.Step = StepStay
	if err := SaveSession(ctx, store, key, s, now); err != nil {
		return false, err
	}
	return true, nil
}
