package models

import (
	"time"

	"route-planner/internal/planner"
)

type Hotel struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Rating       float64  `json:"rating"`
	Location     string   `json:"location"`
	Distance     string   `json:"distance"`
	Price        float64  `json:"price"`
	Currency     string   `json:"currency"`
	Amenities    []string `json:"amenities"`
	Description  string   `json:"description"`
	Image        string   `json:"image"`
	Photos       []string `json:"photos,omitempty"`
	Address      string   `json:"address,omitempty"`
	CheckInTime  string   `json:"check_in_time,omitempty"`
	CheckOutTime string   `json:"check_out_time,omitempty"`
	Rooms        int      `json:"rooms,omitempty"`
}

// HotelQuery filters the hotel catalog. Zero values disable a filter.
type HotelQuery struct {
	Location  string   `query:"location"`
	CheckIn   string   `query:"check_in" validate:"omitempty,datetime=2006-01-02"`
	CheckOut  string   `query:"check_out" validate:"omitempty,datetime=2006-01-02"`
	Guests    int      `query:"guests" validate:"omitempty,min=1,max=20"`
	MinPrice  float64  `query:"min_price" validate:"min=0"`
	MaxPrice  float64  `query:"max_price" validate:"min=0"`
	MinRating float64  `query:"min_rating" validate:"min=0,max=5"`
	Amenities []string `query:"amenity"`
}

type Transport struct {
	ID        string                `json:"id"`
	Type      planner.TransportType `json:"type"`
	Name      string                `json:"name"`
	Route     string                `json:"route"`
	Departure string                `json:"departure"`
	Arrival   string                `json:"arrival"`
	Duration  string                `json:"duration"`
	Transfers int                   `json:"transfers"`
	Amenities []string              `json:"amenities"`
	Price     float64               `json:"price"`
	Currency  string                `json:"currency"`
	Carrier   string                `json:"carrier,omitempty"`
	Class     string                `json:"class,omitempty"`
}

type TransportQuery struct {
	From       string                `query:"from"`
	To         string                `query:"to"`
	Date       string                `query:"date" validate:"omitempty,datetime=2006-01-02"`
	Passengers int                   `query:"passengers" validate:"omitempty,min=1,max=20"`
	Type       planner.TransportType `query:"type" validate:"omitempty,oneof=train bus plane"`
}

// TransportTypeInfo pairs a transport type with its display label.
type TransportTypeInfo struct {
	Value planner.TransportType `json:"value"`
	Label string                `json:"label"`
}

type POI struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Location     string   `json:"location"`
	Rating       float64  `json:"rating"`
	Photos       []string `json:"photos"`
	OpeningHours string   `json:"opening_hours,omitempty"`
	TicketPrice  float64  `json:"ticket_price"`
	Currency     string   `json:"currency,omitempty"`
	Duration     string   `json:"duration,omitempty"`
	Website      string   `json:"website,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	Address      string   `json:"address,omitempty"`
}

type Category struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type BookingKind string

const (
	BookingHotel     BookingKind = "hotel"
	BookingTransport BookingKind = "transport"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking is a hotel stay or a transport ticket reserved by a user.
// Quantity is the number of guests or passengers.
type Booking struct {
	ID         string        `json:"id"`
	UserID     string        `json:"user_id"`
	Kind       BookingKind   `json:"kind"`
	ItemID     string        `json:"item_id"`
	ItemName   string        `json:"item_name"`
	Route      string        `json:"route,omitempty"`
	CheckIn    string        `json:"check_in,omitempty"`
	CheckOut   string        `json:"check_out,omitempty"`
	Date       string        `json:"date,omitempty"`
	Quantity   int           `json:"quantity"`
	TotalPrice float64       `json:"total_price"`
	Currency   string        `json:"currency"`
	Status     BookingStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
}

type HotelBookingRequest struct {
	CheckIn  string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut string `json:"check_out" validate:"required,datetime=2006-01-02"`
	Guests   int    `json:"guests" validate:"required,min=1,max=20"`
}

type TransportBookingRequest struct {
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	Passengers int    `json:"passengers" validate:"required,min=1,max=20"`
}
