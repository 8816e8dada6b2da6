package planner

import "github.com/google/uuid"

// PointList is the ordered waypoint collection. Its order is the visit order.
// Every method returns a new list and leaves the receiver untouched.
type PointList []Waypoint

// WaypointPatch carries the fields of a waypoint edit; nil means unchanged.
type WaypointPatch struct {
	Name      *string `json:"name,omitempty"`
	Date      *string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	TimeStart *string `json:"time_start,omitempty" validate:"omitempty,datetime=15:04"`
	TimeEnd   *string `json:"time_end,omitempty" validate:"omitempty,datetime=15:04"`
	Notes     *string `json:"notes,omitempty"`
}

// NewPointID returns a fresh waypoint identifier.
func NewPointID() string {
	return uuid.NewString()
}

func (l PointList) clone() PointList {
	out := make(PointList, len(l))
	copy(out, l)
	return out
}

// IndexOf returns the position of id, or -1.
func (l PointList) IndexOf(id string) int {
	for i, p := range l {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// IDs returns the waypoint ids in list order.
func (l PointList) IDs() []string {
	ids := make([]string, len(l))
	for i, p := range l {
		ids[i] = p.ID
	}
	return ids
}

// Add appends p, assigning an id from newID when p has none.
func (l PointList) Add(p Waypoint, newID func() string) (PointList, Waypoint) {
	if p.ID == "" {
		if newID == nil {
			newID = NewPointID
		}
		p.ID = newID()
	}
	out := make(PointList, len(l), len(l)+1)
	copy(out, l)
	return append(out, p), p
}

// Update merges patch into the waypoint with the given id.
func (l PointList) Update(id string, patch WaypointPatch) (PointList, error) {
	i := l.IndexOf(id)
	if i < 0 {
		return l, ErrPointNotFound
	}
	out := l.clone()
	p := &out[i]
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Date != nil {
		p.Date = *patch.Date
	}
	if patch.TimeStart != nil {
		p.TimeStart = *patch.TimeStart
	}
	if patch.TimeEnd != nil {
		p.TimeEnd = *patch.TimeEnd
	}
	if patch.Notes != nil {
		p.Notes = *patch.Notes
	}
	return out, nil
}

// Remove drops the waypoint with the given id. Unknown ids are ignored.
func (l PointList) Remove(id string) PointList {
	out := make(PointList, 0, len(l))
	for _, p := range l {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

// Reorder takes the item at from out of the list and reinserts it at to,
// shifting the items in between by one position.
func (l PointList) Reorder(from, to int) (PointList, error) {
	if from < 0 || from >= len(l) || to < 0 || to >= len(l) {
		return l, ErrIndexOutOfRange
	}
	out := l.clone()
	if from == to {
		return out, nil
	}
	item := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append(PointList{item}, out[to:]...)...)
	return out, nil
}

// Move places the waypoint with the given id at index to.
func (l PointList) Move(id string, to int) (PointList, error) {
	from := l.IndexOf(id)
	if from < 0 {
		return l, ErrPointNotFound
	}
	return l.Reorder(from, to)
}
