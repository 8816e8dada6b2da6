package models

import (
	"time"

	"route-planner/internal/planner"
)

// SavedRoute is a finished wizard draft persisted under its owner.
type SavedRoute struct {
	ID         string            `json:"id"`
	OwnerID    string            `json:"owner_id"`
	Title      string            `json:"title"`
	Draft      planner.TripDraft `json:"draft"`
	ShareToken string            `json:"-"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// SharedRoute is the public view of a shared route.
type SharedRoute struct {
	Title     string             `json:"title"`
	Draft     planner.TripDraft  `json:"draft"`
	Schedule  []planner.DayGroup `json:"schedule"`
	TotalCost float64            `json:"total_cost"`
}

type SaveRouteRequest struct {
	Title string `json:"title" validate:"omitempty,max=200"`
}

// RouteUpdateData is a partial update of a saved route.
type RouteUpdateData struct {
	Title *string             `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Draft *planner.DraftPatch `json:"draft,omitempty"`
}

type ShareResponse struct {
	URL   string `json:"url"`
	Token string `json:"token"`
}

type EmailShareRequest struct {
	To string `json:"to" validate:"required,email"`
}

// PDFOptions selects the optional sections of an exported route document.
type PDFOptions struct {
	CoverPhoto bool `json:"cover_photo" query:"cover_photo"`
	Map        bool `json:"map" query:"map"`
	Notes      bool `json:"notes" query:"notes"`
	Budget     bool `json:"budget" query:"budget"`
	QRCode     bool `json:"qr_code" query:"qr_code"`
}

// DefaultPDFOptions enables every section.
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{CoverPhoto: true, Map: true, Notes: true, Budget: true, QRCode: true}
}
