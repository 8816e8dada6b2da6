// Package planner implements the trip-planning wizard: the step machine, the
// trip draft and its reducers, the waypoint list, field validation, draft
// autosave/restore and the pending-import inbox.
package planner

import "strings"

// DefaultBudget is the budget slider position of a fresh draft.
const DefaultBudget = 40

// TransportType is the kind of a transport offering.
type TransportType string

const (
	TransportTrain TransportType = "train"
	TransportBus   TransportType = "bus"
	TransportPlane TransportType = "plane"
)

// Valid reports whether t is one of the known transport kinds.
func (t TransportType) Valid() bool {
	switch t {
	case TransportTrain, TransportBus, TransportPlane:
		return true
	}
	return false
}

// Waypoint is a single place/time entry in the itinerary.
// TimeEnd is not checked against TimeStart.
type Waypoint struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Date      string `json:"date"`
	TimeStart string `json:"time_start"`
	TimeEnd   string `json:"time_end"`
	Notes     string `json:"notes"`
}

// TransportSelection is a snapshot of a chosen transport offering.
type TransportSelection struct {
	ID       string        `json:"id"`
	Type     TransportType `json:"type"`
	Name     string        `json:"name"`
	Route    string        `json:"route"`
	Price    float64       `json:"price"`
	Currency string        `json:"currency"`
}

// AccommodationSelection is a snapshot of a chosen hotel.
type AccommodationSelection struct {
	ID        string  `json:"id"`
	HotelName string  `json:"hotel_name"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	CheckIn   string  `json:"check_in"`
	CheckOut  string  `json:"check_out"`
}

// TripDraft is the aggregate wizard state.
type TripDraft struct {
	Destination   string                  `json:"destination"`
	DateRange     string                  `json:"date_range"`
	Budget        int                     `json:"budget"`
	Points        []Waypoint              `json:"points"`
	Transport     *TransportSelection     `json:"transport"`
	Accommodation *AccommodationSelection `json:"accommodation"`
}

// DefaultDraft returns the state of a wizard that has never been edited.
func DefaultDraft() TripDraft {
	return TripDraft{
		Budget: DefaultBudget,
		Points: []Waypoint{},
	}
}

// Clone returns a deep copy of d.
func (d TripDraft) Clone() TripDraft {
	out := d
	out.Points = make([]Waypoint, len(d.Points))
	copy(out.Points, d.Points)
	if d.Transport != nil {
		t := *d.Transport
		out.Transport = &t
	}
	if d.Accommodation != nil {
		a := *d.Accommodation
		out.Accommodation = &a
	}
	return out
}

// TotalCost sums the transport and accommodation prices. Currencies are not
// converted.
func (d TripDraft) TotalCost() float64 {
	var total float64
	if d.Transport != nil {
		total += d.Transport.Price
	}
	if d.Accommodation != nil {
		total += d.Accommodation.Price
	}
	return total
}

// StartDate returns the first segment of the free-text date range.
func (d TripDraft) StartDate() string {
	first, _, _ := strings.Cut(d.DateRange, " - ")
	return strings.TrimSpace(first)
}

// DraftPatch is a partial TripDraft. Nil fields are left untouched; the Clear
// flags reset an optional selection to nil.
type DraftPatch struct {
	Destination        *string                 `json:"destination,omitempty"`
	DateRange          *string                 `json:"date_range,omitempty"`
	Budget             *int                    `json:"budget,omitempty" validate:"omitempty,min=0,max=100"`
	Points             *[]Waypoint             `json:"points,omitempty"`
	Transport          *TransportSelection     `json:"transport,omitempty"`
	Accommodation      *AccommodationSelection `json:"accommodation,omitempty"`
	ClearTransport     bool                    `json:"clear_transport,omitempty"`
	ClearAccommodation bool                    `json:"clear_accommodation,omitempty"`
}

// Merge shallow-merges p into d and returns the result. Neither argument is
// modified and the result shares no memory with p.
func Merge(d TripDraft, p DraftPatch) TripDraft {
	out := d.Clone()
	if p.Destination != nil {
		out.Destination = *p.Destination
	}
	if p.DateRange != nil {
		out.DateRange = *p.DateRange
	}
	if p.Budget != nil {
		out.Budget = clampBudget(*p.Budget)
	}
	if p.Points != nil {
		out.Points = make([]Waypoint, len(*p.Points))
		copy(out.Points, *p.Points)
	}
	if p.ClearTransport {
		out.Transport = nil
	} else if p.Transport != nil {
		t := *p.Transport
		out.Transport = &t
	}
	if p.ClearAccommodation {
		out.Accommodation = nil
	} else if p.Accommodation != nil {
		a := *p.Accommodation
		out.Accommodation = &a
	}
	return out
}

// Normalize fills every optional field with its default so that the persisted
// shape is always complete.
func Normalize(d TripDraft) TripDraft {
	out := d.Clone()
	if d.Points == nil {
		out.Points = []Waypoint{}
	}
	out.Budget = clampBudget(d.Budget)
	return out
}

func clampBudget(b int) int {
	switch {
	case b < 0:
		return 0
	case b > 100:
		return 100
	}
	return b
}

// DayGroup holds the waypoints planned for one date.
type DayGroup struct {
	Date   string     `json:"date"`
	Points []Waypoint `json:"points"`
}

// GroupByDate groups points by date for read views. Dates appear in order of
// first appearance; inside a date the storage order is kept.
func GroupByDate(points []Waypoint) []DayGroup {
	var groups []DayGroup
	index := make(map[string]int)
	for _, p := range points {
		i, ok := index[p.Date]
		if !ok {
			i = len(groups)
			index[p.Date] = i
			groups = append(groups, DayGroup{Date: p.Date})
		}
		groups[i].Points = append(groups[i].Points, p)
	}
	return groups
}
