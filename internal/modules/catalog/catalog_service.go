package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
	"time"

	"route-planner/internal/models"
	"route-planner/internal/planner"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const recommendationLimit = 6

// ServiceInterface is the read side of the hotel, transport and POI catalogs
// plus the bookings made against them.
type ServiceInterface interface {
	SearchHotels(ctx context.Context, q models.HotelQuery) ([]models.Hotel, error)
	GetHotel(ctx context.Context, hotelID string) (*models.Hotel, error)
	Amenities() []string

	SearchTransport(ctx context.Context, q models.TransportQuery) ([]models.Transport, error)
	GetTransport(ctx context.Context, transportID string) (*models.Transport, error)
	TransportTypes() []models.TransportTypeInfo

	SearchPOIs(ctx context.Context, location, category string) ([]models.POI, error)
	GetPOI(ctx context.Context, poiID string) (*models.POI, error)
	Recommendations(ctx context.Context, destination string) ([]models.POI, error)
	Categories() []models.Category
	LookupPOI(ctx context.Context, poiID string) (*planner.POIDetail, error)

	BookHotel(ctx context.Context, userID, hotelID string, req models.HotelBookingRequest) (*models.Booking, error)
	BookTransport(ctx context.Context, userID, transportID string, req models.TransportBookingRequest) (*models.Booking, error)
	ListBookings(ctx context.Context, userID string) ([]models.Booking, error)
	CancelBooking(ctx context.Context, userID, bookingID string) error
}

type Service struct {
	bookings BookingRepository
	latency  time.Duration
	log      *zap.Logger
	now      func() time.Time
}

// NewService returns the catalog service. Every lookup waits latency before
// answering, which lets the client exercise its loading states.
func NewService(bookings BookingRepository, latency time.Duration, logger *zap.Logger) ServiceInterface {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{bookings: bookings, latency: latency, log: logger, now: time.Now}
}

func (s *Service) delay(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func (s *Service) SearchHotels(ctx context.Context, q models.HotelQuery) ([]models.Hotel, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	out := []models.Hotel{}
	for _, h := range hotels {
		if q.Location != "" && !containsFold(h.Location, q.Location) && !containsFold(h.Name, q.Location) {
			continue
		}
		if q.MinPrice > 0 && h.Price < q.MinPrice {
			continue
		}
		if q.MaxPrice > 0 && h.Price > q.MaxPrice {
			continue
		}
		if q.MinRating > 0 && h.Rating < q.MinRating {
			continue
		}
		if !hasAll(h.Amenities, q.Amenities) {
			continue
		}
		out = append(out, cloneHotel(h))
	}
	return out, nil
}

func hasAll(have, want []string) bool {
	for _, a := range want {
		if !slices.Contains(have, a) {
			return false
		}
	}
	return true
}

func cloneHotel(h models.Hotel) models.Hotel {
	h.Amenities = slices.Clone(h.Amenities)
	h.Photos = slices.Clone(h.Photos)
	return h
}

func (s *Service) GetHotel(ctx context.Context, hotelID string) (*models.Hotel, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	for _, h := range hotels {
		if h.ID == hotelID {
			c := cloneHotel(h)
			return &c, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *Service) Amenities() []string {
	return slices.Clone(amenities)
}

func (s *Service) SearchTransport(ctx context.Context, q models.TransportQuery) ([]models.Transport, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	out := []models.Transport{}
	for _, t := range transports {
		if q.From != "" && !containsFold(t.Route, q.From) {
			continue
		}
		if q.To != "" && !containsFold(t.Route, q.To) {
			continue
		}
		if q.Type != "" && t.Type != q.Type {
			continue
		}
		t.Amenities = slices.Clone(t.Amenities)
		out = append(out, t)
	}
	return out, nil
}

func (s *Service) GetTransport(ctx context.Context, transportID string) (*models.Transport, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	for _, t := range transports {
		if t.ID == transportID {
			t.Amenities = slices.Clone(t.Amenities)
			return &t, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *Service) TransportTypes() []models.TransportTypeInfo {
	return slices.Clone(transportTypes)
}

func (s *Service) SearchPOIs(ctx context.Context, location, category string) ([]models.POI, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	return filterPOIs(location, category), nil
}

func filterPOIs(location, category string) []models.POI {
	out := []models.POI{}
	for _, p := range pois {
		if location != "" && !containsFold(p.Location, location) {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		p.Photos = slices.Clone(p.Photos)
		out = append(out, p)
	}
	return out
}

func (s *Service) GetPOI(ctx context.Context, poiID string) (*models.POI, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	for _, p := range pois {
		if p.ID == poiID {
			p.Photos = slices.Clone(p.Photos)
			return &p, nil
		}
	}
	return nil, models.ErrNotFound
}

// Recommendations returns the best rated places of a destination.
func (s *Service) Recommendations(ctx context.Context, destination string) ([]models.POI, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	out := filterPOIs(destination, "")
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	if len(out) > recommendationLimit {
		out = out[:recommendationLimit]
	}
	return out, nil
}

func (s *Service) Categories() []models.Category {
	return slices.Clone(categories)
}

// LookupPOI serves wizard imports. Unknown ids yield nil, nil.
func (s *Service) LookupPOI(ctx context.Context, poiID string) (*planner.POIDetail, error) {
	p, err := s.GetPOI(ctx, poiID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &planner.POIDetail{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		OpeningHours: p.OpeningHours,
		Duration:     p.Duration,
	}, nil
}

// AccommodationFor builds the selection snapshot the wizard stores for h.
func AccommodationFor(h models.Hotel, checkIn, checkOut string) planner.AccommodationSelection {
	return planner.AccommodationSelection{
		ID:        h.ID,
		HotelName: h.Name,
		Price:     h.Price,
		Currency:  h.Currency,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
	}
}

// TransportFor builds the selection snapshot the wizard stores for t.
func TransportFor(t models.Transport) planner.TransportSelection {
	return planner.TransportSelection{
		ID:       t.ID,
		Type:     t.Type,
		Name:     t.Name,
		Route:    t.Route,
		Price:    t.Price,
		Currency: t.Currency,
	}
}

// Nights counts the nights between two ISO dates, rounding partial days up.
func Nights(checkIn, checkOut string) (int, error) {
	in, err := time.Parse(time.DateOnly, checkIn)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", models.ErrInvalidDates, err)
	}
	out, err := time.Parse(time.DateOnly, checkOut)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", models.ErrInvalidDates, err)
	}
	n := int(math.Ceil(out.Sub(in).Hours() / 24))
	if n <= 0 {
		return 0, models.ErrInvalidDates
	}
	return n, nil
}

func (s *Service) BookHotel(ctx context.Context, userID, hotelID string, req models.HotelBookingRequest) (*models.Booking, error) {
	h, err := s.GetHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	nights, err := Nights(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}
	b := &models.Booking{
		ID:         uuid.NewString(),
		UserID:     userID,
		Kind:       models.BookingHotel,
		ItemID:     h.ID,
		ItemName:   h.Name,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		Quantity:   req.Guests,
		TotalPrice: h.Price * float64(nights),
		Currency:   h.Currency,
		Status:     models.BookingConfirmed,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("service.BookHotel: %w", err)
	}
	s.log.Info("hotel booked", zap.String("user", userID), zap.String("hotel", h.ID), zap.Int("nights", nights))
	return b, nil
}

func (s *Service) BookTransport(ctx context.Context, userID, transportID string, req models.TransportBookingRequest) (*models.Booking, error) {
	t, err := s.GetTransport(ctx, transportID)
	if err != nil {
		return nil, err
	}
	b := &models.Booking{
		ID:         uuid.NewString(),
		UserID:     userID,
		Kind:       models.BookingTransport,
		ItemID:     t.ID,
		ItemName:   t.Name,
		Route:      t.Route,
		Date:       req.Date,
		Quantity:   req.Passengers,
		TotalPrice: t.Price * float64(req.Passengers),
		Currency:   t.Currency,
		Status:     models.BookingConfirmed,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("service.BookTransport: %w", err)
	}
	s.log.Info("transport booked", zap.String("user", userID), zap.String("transport", t.ID), zap.Int("passengers", req.Passengers))
	return b, nil
}

func (s *Service) ListBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	list, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.ListBookings: %w", err)
	}
	return list, nil
}

// CancelBooking marks a booking as cancelled. Unknown ids are ignored.
func (s *Service) CancelBooking(ctx context.Context, userID, bookingID string) error {
	if err := s.bookings.Cancel(ctx, userID, bookingID); err != nil {
		return fmt.Errorf("service.CancelBooking: %w", err)
	}
	return nil
}
