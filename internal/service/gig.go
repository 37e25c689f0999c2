package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/haitezaz/workedin-pakistan-connect/internal/apperror"
	"github.com/haitezaz/workedin-pakistan-connect/internal/model"
	"github.com/haitezaz/workedin-pakistan-connect/internal/repository"
)

// GigService is the short-term tasks side of the marketplace. It mirrors
// JobService with two differences: workers bid a price instead of writing a
// cover message, and accepting a bid moves the gig itself to in-progress.
type GigService struct {
	gigs   repository.GigRepository
	apps   repository.ApplicationRepository
	skills repository.SkillRepository
	logger *slog.Logger
}

func NewGigService(
	gigs repository.GigRepository,
	apps repository.ApplicationRepository,
	skills repository.SkillRepository,
	logger *slog.Logger,
) *GigService {
	return &GigService{gigs: gigs, apps: apps, skills: skills, logger: logger}
}

// PostGigInput is what the employer's gig form collects.
type PostGigInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Budget      int64    `json:"budget"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	Skills      []string `json:"skills,omitempty"`
}

// Post creates an open gig owned by the calling employer.
func (s *GigService) Post(ctx context.Context, employerID string, in PostGigInput) (*model.Gig, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.City = strings.TrimSpace(in.City)

	var missing []string
	if in.Title == "" {
		missing = append(missing, "title")
	}
	if in.City == "" {
		missing = append(missing, "city")
	}
	if len(missing) > 0 {
		return nil, apperror.MissingFields(missing...)
	}
	if in.Budget < 0 {
		return nil, apperror.ValidationFailed("budget cannot be negative", "budget")
	}

	gig := &model.Gig{
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		Budget:      in.Budget,
		Address:     strings.TrimSpace(in.Address),
		City:        in.City,
		EmployerID:  employerID,
	}
	if err := s.gigs.Create(ctx, gig); err != nil {
		return nil, apperror.Unavailable("posting gig", err)
	}

	if len(in.Skills) > 0 {
		names := normalizeSkills(in.Skills)
		if err := s.skills.ReplaceForGig(ctx, gig.ID, names); err != nil {
			s.logger.Warn("storing gig skills failed", "gigID", gig.ID, "error", err)
		} else {
			gig.Skills = names
		}
	}

	s.logger.Info("gig posted", "gigID", gig.ID, "employerID", employerID, "city", gig.City)
	return gig, nil
}

// BrowseGigsInput narrows the public gig listing.
type BrowseGigsInput struct {
	City   string
	Search string
}

// Browse lists open gigs for workers.
func (s *GigService) Browse(ctx context.Context, in BrowseGigsInput) ([]model.Gig, error) {
	gigs, err := s.gigs.List(ctx, repository.GigFilter{
		Status: model.GigStatusOpen,
		City:   strings.TrimSpace(in.City),
		Search: strings.TrimSpace(in.Search),
	})
	if err != nil {
		return nil, apperror.Unavailable("browsing gigs", err)
	}
	return gigs, nil
}

// Cities lists the distinct cities with open gigs.
func (s *GigService) Cities(ctx context.Context) ([]string, error) {
	cities, err := s.gigs.Cities(ctx)
	if err != nil {
		return nil, apperror.Unavailable("listing cities", err)
	}
	return cities, nil
}

// Get retrieves one gig with its skill tags.
func (s *GigService) Get(ctx context.Context, id string) (*model.Gig, error) {
	gig, err := s.gigs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, apperror.Unavailable("loading gig", err)
	}
	if skills, err := s.skills.ListForGig(ctx, id); err == nil {
		gig.Skills = skills
	}
	return gig, nil
}

// ListAll returns every gig in the store, any status (admin view).
func (s *GigService) ListAll(ctx context.Context) ([]model.Gig, error) {
	gigs, err := s.gigs.List(ctx, repository.GigFilter{})
	if err != nil {
		return nil, apperror.Unavailable("listing gigs", err)
	}
	return gigs, nil
}

// ListMine returns every gig the employer has posted, any status.
func (s *GigService) ListMine(ctx context.Context, employerID string) ([]model.Gig, error) {
	gigs, err := s.gigs.List(ctx, repository.GigFilter{EmployerID: employerID})
	if err != nil {
		return nil, apperror.Unavailable("listing gigs", err)
	}
	return gigs, nil
}

// ApplyInput is a worker's bid on a gig: their price, optionally with remarks.
type ApplyInput struct {
	ProposedPrice int64  `json:"proposedPrice"`
	Remarks       string `json:"remarks"`
}

// Apply files a worker's bid on an open gig. The proposed price is required
// and must be positive; remarks are optional.
func (s *GigService) Apply(ctx context.Context, workerID, gigID string, in ApplyInput) (*model.GigApplication, error) {
	if in.ProposedPrice <= 0 {
		return nil, apperror.ValidationFailed("proposed price must be greater than zero", "proposedPrice")
	}

	gig, err := s.gigs.GetByID(ctx, gigID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, apperror.Unavailable("loading gig", err)
	}
	if gig.Status != model.GigStatusOpen {
		return nil, apperror.Conflict("this gig is no longer accepting applications")
	}

	app := &model.GigApplication{
		GigID:         gigID,
		WorkerID:      workerID,
		ProposedPrice: in.ProposedPrice,
		Remarks:       strings.TrimSpace(in.Remarks),
	}
	if err := s.apps.CreateGigApplication(ctx, app); err != nil {
		if errors.Is(err, apperror.ErrConflict) || errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, apperror.Unavailable("filing application", err)
	}

	s.logger.Info("gig application filed", "gigID", gigID, "workerID", workerID)
	return app, nil
}

// Applications lists a gig's bids for its owning employer.
func (s *GigService) Applications(ctx context.Context, employerID, gigID string) ([]model.GigApplication, error) {
	gig, err := s.gigs.GetByID(ctx, gigID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, apperror.Unavailable("loading gig", err)
	}
	if gig.EmployerID != employerID {
		return nil, apperror.Forbidden("you can only view applications to your own gigs")
	}

	apps, err := s.apps.ListForGig(ctx, gigID)
	if err != nil {
		return nil, apperror.Unavailable("listing applications", err)
	}
	return apps, nil
}

// Decide records the employer's accept/reject on one bid. Accepting also
// moves the gig to in-progress, which closes it to further bids.
func (s *GigService) Decide(ctx context.Context, employerID, applicationID string, accept bool) (*model.GigApplication, error) {
	app, err := s.apps.GetGigApplication(ctx, applicationID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, apperror.Unavailable("loading application", err)
	}

	gig, err := s.gigs.GetByID(ctx, app.GigID)
	if err != nil {
		return nil, apperror.Unavailable("loading gig", err)
	}
	if gig.EmployerID != employerID {
		return nil, apperror.Forbidden("you can only decide applications to your own gigs")
	}
	if app.Status != model.ApplicationPending {
		return nil, apperror.Conflict("this application has already been decided")
	}

	status := model.ApplicationRejected
	if accept {
		status = model.ApplicationAccepted
	}
	if err := s.apps.SetGigApplicationStatus(ctx, applicationID, status); err != nil {
		return nil, apperror.Unavailable("updating application", err)
	}
	app.Status = status

	if accept {
		if err := s.gigs.SetStatus(ctx, gig.ID, model.GigStatusInProgress); err != nil {
			return nil, apperror.Unavailable("updating gig", err)
		}
	}

	s.logger.Info("gig application decided",
		"applicationID", applicationID, "gigID", gig.ID, "status", status)
	return app, nil
}

// Complete marks an in-progress gig as done.
func (s *GigService) Complete(ctx context.Context, employerID, gigID string) error {
	gig, err := s.gigs.GetByID(ctx, gigID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		return apperror.Unavailable("loading gig", err)
	}
	if gig.EmployerID != employerID {
		return apperror.Forbidden("you can only manage your own gigs")
	}
	if gig.Status != model.GigStatusInProgress {
		return apperror.Conflict("only an in-progress gig can be completed")
	}

	if err := s.gigs.SetStatus(ctx, gigID, model.GigStatusCompleted); err != nil {
		return apperror.Unavailable("updating gig", err)
	}
	s.logger.Info("gig completed", "gigID", gigID)
	return nil
}

// Close takes the employer's gig off the board.
func (s *GigService) Close(ctx context.Context, employerID, gigID string) error {
	gig, err := s.gigs.GetByID(ctx, gigID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		return apperror.Unavailable("loading gig", err)
	}
	if gig.EmployerID != employerID {
		return apperror.Forbidden("you can only manage your own gigs")
	}

	if err := s.gigs.SetStatus(ctx, gigID, model.GigStatusClosed); err != nil {
		return apperror.Unavailable("updating gig", err)
	}
	s.logger.Info("gig closed", "gigID", gigID)
	return nil
}
