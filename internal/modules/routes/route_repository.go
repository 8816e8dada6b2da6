package routes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"route-planner/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines methods for interacting with saved route storage.
type RepositoryInterface interface {
	Create(ctx context.Context, route *models.SavedRoute) error
	FindByID(ctx context.Context, routeID string) (*models.SavedRoute, error)
	FindByShareToken(ctx context.Context, token string) (*models.SavedRoute, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.SavedRoute, error)
	Update(ctx context.Context, route *models.SavedRoute) error
	SetShareToken(ctx context.Context, routeID, token string) error
	Delete(ctx context.Context, routeID string) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const routeColumns = `id, owner_id, title, draft, COALESCE(share_token, ''), created_at, updated_at`

func scanRoute(row pgx.Row) (*models.SavedRoute, error) {
	var (
		r     models.SavedRoute
		draft []byte
	)
	if err := row.Scan(&r.ID, &r.OwnerID, &r.Title, &draft, &r.ShareToken, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(draft, &r.Draft); err != nil {
		return nil, fmt.Errorf("decoding draft: %w", err)
	}
	return &r, nil
}

func (r *Repository) Create(ctx context.Context, route *models.SavedRoute) error {
	draft, err := json.Marshal(route.Draft)
	if err != nil {
		return fmt.Errorf("repository.CreateRoute: %w", err)
	}
	query := `
	INSERT INTO routes (id, owner_id, title, draft, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.db.Exec(ctx, query, route.ID, route.OwnerID, route.Title, draft, route.CreatedAt, route.UpdatedAt); err != nil {
		return fmt.Errorf("repository.CreateRoute: %w", err)
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, routeID string) (*models.SavedRoute, error) {
	route, err := scanRoute(r.db.QueryRow(ctx, `SELECT `+routeColumns+` FROM routes WHERE id = $1`, routeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindRouteByID: %w", err)
	}
	return route, nil
}

func (r *Repository) FindByShareToken(ctx context.Context, token string) (*models.SavedRoute, error) {
	route, err := scanRoute(r.db.QueryRow(ctx, `SELECT `+routeColumns+` FROM routes WHERE share_token = $1`, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindRouteByShareToken: %w", err)
	}
	return route, nil
}

func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]models.SavedRoute, error) {
	rows, err := r.db.Query(ctx, `SELECT `+routeColumns+` FROM routes WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("repository.ListRoutes: %w", err)
	}
	defer rows.Close()

	list := []models.SavedRoute{}
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.ListRoutes: %w", err)
		}
		list = append(list, *route)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository.ListRoutes: %w", err)
	}
	return list, nil
}

func (r *Repository) Update(ctx context.Context, route *models.SavedRoute) error {
	draft, err := json.Marshal(route.Draft)
	if err != nil {
		return fmt.Errorf("repository.UpdateRoute: %w", err)
	}
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE routes SET title = $1, draft = $2, updated_at = $3 WHERE id = $4`,
		route.Title, draft, route.UpdatedAt, route.ID,
	)
	if err != nil {
		return fmt.Errorf("repository.UpdateRoute: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *Repository) SetShareToken(ctx context.Context, routeID, token string) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE routes SET share_token = $1, updated_at = NOW() WHERE id = $2`, token, routeID)
	if err != nil {
		return fmt.Errorf("repository.SetShareToken: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, routeID string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM routes WHERE id = $1`, routeID)
	if err != nil {
		return fmt.Errorf("repository.DeleteRoute: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// MemoryRepository keeps saved routes in process memory.
type MemoryRepository struct {
	mu     sync.RWMutex
	routes map[string]models.SavedRoute
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{routes: make(map[string]models.SavedRoute)}
}

func cloneRoute(r models.SavedRoute) *models.SavedRoute {
	r.Draft = r.Draft.Clone()
	return &r
}

func (m *MemoryRepository) Create(_ context.Context, route *models.SavedRoute) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[route.ID] = *cloneRoute(*route)
	return nil
}

func (m *MemoryRepository) FindByID(_ context.Context, routeID string) (*models.SavedRoute, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.routes[routeID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return cloneRoute(r), nil
}

func (m *MemoryRepository) FindByShareToken(_ context.Context, token string) (*models.SavedRoute, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.routes {
		if token != "" && r.ShareToken == token {
			return cloneRoute(r), nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *MemoryRepository) ListByOwner(_ context.Context, ownerID string) ([]models.SavedRoute, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := []models.SavedRoute{}
	for _, r := range m.routes {
		if r.OwnerID == ownerID {
			list = append(list, *cloneRoute(r))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (m *MemoryRepository) Update(_ context.Context, route *models.SavedRoute) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.routes[route.ID]
	if !ok {
		return models.ErrNotFound
	}
	cur.Title = route.Title
	cur.Draft = route.Draft.Clone()
	cur.UpdatedAt = route.UpdatedAt
	m.routes[route.ID] = cur
	return nil
}

func (m *MemoryRepository) SetShareToken(_ context.Context, routeID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.routes[routeID]
	if !ok {
		return models.ErrNotFound
	}
	cur.ShareToken = token
	m.routes[routeID] = cur
	return nil
}

func (m *MemoryRepository) Delete(_ context.Context, routeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.routes[routeID]; !ok {
		return models.ErrNotFound
	}
	delete(m.routes, routeID)
	return nil
}
