package models

import "time"

// Coordinates is a WGS84 point used to place a report on the map.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Report is a citizen-submitted issue.
type Report struct {
	ID          string       `json:"id" yaml:"id"` // R-YYYY-NNN
	Category    string       `json:"category" yaml:"category"`
	Location    string       `json:"location" yaml:"location"`
	Status      ReportStatus `json:"status" yaml:"status"`
	Priority    Priority     `json:"priority" yaml:"priority"`
	Reporter    string       `json:"reporter" yaml:"reporter"`
	AssignedTo  string       `json:"assigned_to,omitempty" yaml:"assigned_to,omitempty"`
	Department  string       `json:"department" yaml:"department"`
	CreatedAt   time.Time    `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" yaml:"updated_at"`
	Description string       `json:"description" yaml:"description"`
	Coordinates *Coordinates `json:"coordinates,omitempty" yaml:"coordinates,omitempty"`
}

// IsAssigned reports whether someone has picked the report up.
func (r Report) IsAssigned() bool {
	return r.AssignedTo != ""
}

// IsOpen reports whether the report still needs work.
func (r Report) IsOpen() bool {
	return r.Status != StatusResolved
}

// Clone returns a copy that shares no pointers with r.
func (r Report) Clone() Report {
	if r.Coordinates != nil {
		c := *r.Coordinates
		r.Coordinates = &c
	}
	return r
}
