package routes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"route-planner/internal/models"
	"route-planner/internal/planner"
	"route-planner/pkg/email"
	"route-planner/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const shareTokenBytes = 16

// ServiceInterface manages routes saved from the planning wizard.
type ServiceInterface interface {
	SaveRoute(ctx context.Context, ownerID string, draft planner.TripDraft, title string) (*models.SavedRoute, error)
	SaveDraft(ctx context.Context, ownerID string, draft planner.TripDraft, title string) (string, error)
	ListRoutes(ctx context.Context, ownerID string) ([]models.SavedRoute, error)
	GetRoute(ctx context.Context, ownerID, routeID string) (*models.SavedRoute, error)
	UpdateRoute(ctx context.Context, ownerID, routeID string, data models.RouteUpdateData) (*models.SavedRoute, error)
	DeleteRoute(ctx context.Context, ownerID, routeID string) error
	ShareRoute(ctx context.Context, ownerID, routeID string) (*models.ShareResponse, error)
	GetSharedRoute(ctx context.Context, token string) (*models.SharedRoute, error)
	ExportPDF(ctx context.Context, ownerID, routeID string, opts models.PDFOptions) (string, []byte, error)
	EmailShareLink(ctx context.Context, ownerID, routeID, senderName, to string) error
}

// Options configures the optional collaborators of the route service.
type Options struct {
	PublicBaseURL string
	PDFFontFile   string
	Mailer        email.ServiceInterface
	Templates     *email.TemplateManager
	Logger        *zap.Logger
}

type Service struct {
	repo      RepositoryInterface
	pdf       pdfRenderer
	mailer    email.ServiceInterface
	templates *email.TemplateManager
	baseURL   string
	log       *zap.Logger
	now       func() time.Time
}

func NewService(repo RepositoryInterface, opts Options) ServiceInterface {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Service{
		repo:      repo,
		pdf:       pdfRenderer{fontFile: opts.PDFFontFile},
		mailer:    opts.Mailer,
		templates: opts.Templates,
		baseURL:   strings.TrimRight(opts.PublicBaseURL, "/"),
		log:       opts.Logger,
		now:       time.Now,
	}
}

// DefaultTitle names a route after its destination.
func DefaultTitle(d planner.TripDraft) string {
	if strings.TrimSpace(d.Destination) == "" {
		return "Untitled route"
	}
	return "Route to " + strings.TrimSpace(d.Destination)
}

func (s *Service) SaveRoute(ctx context.Context, ownerID string, draft planner.TripDraft, title string) (*models.SavedRoute, error) {
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle(draft)
	}
	now := s.now().UTC()
	route := &models.SavedRoute{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     strings.TrimSpace(title),
		Draft:     planner.Normalize(draft),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, route); err != nil {
		return nil, fmt.Errorf("service.SaveRoute: %w", err)
	}
	s.log.Info("route saved", zap.String("owner", ownerID), zap.String("route", route.ID), zap.Int("points", len(route.Draft.Points)))
	return route, nil
}

// SaveDraft stores a finished wizard draft and returns the new route id.
func (s *Service) SaveDraft(ctx context.Context, ownerID string, draft planner.TripDraft, title string) (string, error) {
	route, err := s.SaveRoute(ctx, ownerID, draft, title)
	if err != nil {
		return "", err
	}
	return route.ID, nil
}

func (s *Service) ListRoutes(ctx context.Context, ownerID string) ([]models.SavedRoute, error) {
	list, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.ListRoutes: %w", err)
	}
	return list, nil
}

func (s *Service) owned(ctx context.Context, ownerID, routeID string) (*models.SavedRoute, error) {
	route, err := s.repo.FindByID(ctx, routeID)
	if err != nil {
		return nil, err
	}
	if route.OwnerID != ownerID {
		return nil, models.ErrForbidden
	}
	return route, nil
}

func (s *Service) GetRoute(ctx context.Context, ownerID, routeID string) (*models.SavedRoute, error) {
	return s.owned(ctx, ownerID, routeID)
}

func (s *Service) UpdateRoute(ctx context.Context, ownerID, routeID string, data models.RouteUpdateData) (*models.SavedRoute, error) {
	route, err := s.owned(ctx, ownerID, routeID)
	if err != nil {
		return nil, err
	}
	if data.Title != nil {
		route.Title = strings.TrimSpace(*data.Title)
	}
	if data.Draft != nil {
		route.Draft = planner.Merge(route.Draft, *data.Draft)
	}
	route.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, route); err != nil {
		return nil, fmt.Errorf("service.UpdateRoute: %w", err)
	}
	return route, nil
}

func (s *Service) DeleteRoute(ctx context.Context, ownerID, routeID string) error {
	if _, err := s.owned(ctx, ownerID, routeID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, routeID); err != nil {
		return fmt.Errorf("service.DeleteRoute: %w", err)
	}
	return nil
}

func (s *Service) shareURL(token string) string {
	return s.baseURL + "/shared/" + token
}

// ShareRoute mints a new share token for the route. Links handed out before
// stop working.
func (s *Service) ShareRoute(ctx context.Context, ownerID, routeID string) (*models.ShareResponse, error) {
	if _, err := s.owned(ctx, ownerID, routeID); err != nil {
		return nil, err
	}
	token, err := utils.GenerateSecureToken(shareTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("service.ShareRoute: %w", err)
	}
	if err := s.repo.SetShareToken(ctx, routeID, token); err != nil {
		return nil, fmt.Errorf("service.ShareRoute: %w", err)
	}
	return &models.ShareResponse{URL: s.shareURL(token), Token: token}, nil
}

func (s *Service) GetSharedRoute(ctx context.Context, token string) (*models.SharedRoute, error) {
	if token == "" {
		return nil, models.ErrNotFound
	}
	route, err := s.repo.FindByShareToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return &models.SharedRoute{
		Title:     route.Title,
		Draft:     route.Draft,
		Schedule:  planner.GroupByDate(route.Draft.Points),
		TotalCost: route.Draft.TotalCost(),
	}, nil
}

// ExportPDF renders the route and returns a file name and the document. The
// QR code section is only present once the route has been shared.
func (s *Service) ExportPDF(ctx context.Context, ownerID, routeID string, opts models.PDFOptions) (string, []byte, error) {
	route, err := s.owned(ctx, ownerID, routeID)
	if err != nil {
		return "", nil, err
	}
	link := ""
	if route.ShareToken != "" {
		link = s.shareURL(route.ShareToken)
	}
	data, err := s.pdf.Render(route, opts, link)
	if err != nil {
		return "", nil, fmt.Errorf("service.ExportPDF: %w", err)
	}
	return PDFFilename(route.Title), data, nil
}

// EmailShareLink mails the route's share link to a recipient, sharing the
// route first if needed.
func (s *Service) EmailShareLink(ctx context.Context, ownerID, routeID, senderName, to string) error {
	if s.mailer == nil || s.templates == nil {
		return models.ErrEmailDisabled
	}
	route, err := s.owned(ctx, ownerID, routeID)
	if err != nil {
		return err
	}
	link := ""
	if route.ShareToken != "" {
		link = s.shareURL(route.ShareToken)
	} else {
		share, err := s.ShareRoute(ctx, ownerID, routeID)
		if err != nil {
			return err
		}
		link = share.URL
	}

	html, err := s.templates.GenerateShareRouteEmailHTML(email.TemplateData{Name: senderName, Title: route.Title, Link: link})
	if err != nil {
		return fmt.Errorf("service.EmailShareLink: %w", err)
	}
	text := fmt.Sprintf("%s shared a trip with you: %s\n%s", senderName, route.Title, link)
	if err := s.mailer.SendEmail(ctx, to, route.Title, text, html); err != nil {
		return fmt.Errorf("service.EmailShareLink: %w", err)
	}
	return nil
}
