package catalog

import (
	"context"
	"fmt"
	"sync"

	"route-planner/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingRepository stores the bookings made through the catalog.
type BookingRepository interface {
	Create(ctx context.Context, b *models.Booking) error
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
	// Cancel marks a booking of userID as cancelled. Unknown ids are ignored.
	Cancel(ctx context.Context, userID, bookingID string) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) BookingRepository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, b *models.Booking) error {
	query := `
	INSERT INTO bookings (id, owner_id, kind, item_id, item_name, route, check_in, check_out, travel_date,
		quantity, total_price, currency, status, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.db.Exec(ctx, query,
		b.ID, b.UserID, b.Kind, b.ItemID, b.ItemName, b.Route, b.CheckIn, b.CheckOut, b.Date,
		b.Quantity, b.TotalPrice, b.Currency, b.Status, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("repository.CreateBooking: %w", err)
	}
	return nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	query := `
	SELECT id, owner_id, kind, item_id, item_name, route, check_in, check_out, travel_date,
		quantity, total_price, currency, status, created_at
	FROM bookings
	WHERE owner_id = $1
	ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("repository.ListBookings: %w", err)
	}
	defer rows.Close()

	list := []models.Booking{}
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.Kind, &b.ItemID, &b.ItemName, &b.Route, &b.CheckIn, &b.CheckOut, &b.Date,
			&b.Quantity, &b.TotalPrice, &b.Currency, &b.Status, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("repository.ListBookings: scan: %w", err)
		}
		list = append(list, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository.ListBookings: %w", err)
	}
	return list, nil
}

func (r *Repository) Cancel(ctx context.Context, userID, bookingID string) error {
	query := `UPDATE bookings SET status = 'cancelled' WHERE id = $1 AND owner_id = $2`
	if _, err := r.db.Exec(ctx, query, bookingID, userID); err != nil {
		return fmt.Errorf("repository.CancelBooking: %w", err)
	}
	return nil
}

// MemoryRepository keeps bookings in process memory.
type MemoryRepository struct {
	mu   sync.Mutex
	list []models.Booking
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) Create(_ context.Context, b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list = append(m.list, *b)
	return nil
}

func (m *MemoryRepository) ListByUser(_ context.Context, userID string) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Booking{}
	for i := len(m.list) - 1; i >= 0; i-- {
		if m.list[i].UserID == userID {
			out = append(out, m.list[i])
		}
	}
	return out, nil
}

func (m *MemoryRepository) Cancel(_ context.Context, userID, bookingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.list {
		if m.list[i].ID == bookingID && m.list[i].UserID == userID {
			m.list[i].Status = models.BookingCancelled
		}
	}
	return nil
}
