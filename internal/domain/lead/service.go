package lead

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"leadmanager/internal/metrics"
)

// Service handles lead business logic
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates lead service
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// WithClock replaces the time source; used by tests and the seeder.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

// Create validates and stores a new lead.
//
// The email lookup only produces the friendly conflict early; concurrent
// creates are settled by the unique index, which the repository maps to the
// same ErrEmailExists.
func (s *Service) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	in := req.normalize()
	if err := validateCreate(&in); err != nil {
		metrics.RecordLeadOperation("create", "invalid")
		return nil, err
	}

	existing, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		metrics.RecordLeadOperation("create", "error")
		return nil, err
	}
	if existing != nil {
		metrics.RecordLeadOperation("create", "conflict")
		return nil, ErrEmailExists
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	now := s.clock()
	lead := &Lead{
		ID:           id,
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		Status:       in.Status,
		Source:       in.Source,
		Notes:        in.Notes,
		FollowUpDate: followUp(in.FollowUpDate),
		AssignedTo:   in.AssignedTo,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, lead); err != nil {
		metrics.RecordLeadOperation("create", resultOf(err))
		return nil, err
	}

	metrics.RecordLeadOperation("create", "ok")
	return lead, nil
}

// GetByID returns lead by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, ErrLeadNotFound
	}
	return lead, nil
}

// List returns one page of leads matching f.
func (s *Service) List(ctx context.Context, f Filter, p Page) (*ListResult, error) {
	leads, total, err := s.repo.List(ctx, f, p)
	if err != nil {
		return nil, err
	}
	return &ListResult{
		Leads: leads,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
		Pages: p.Pages(total),
	}, nil
}

// Update replaces the supplied fields and refreshes updatedAt.
// Email uniqueness is not pre-checked here; only the unique index applies.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateLeadRequest) (*Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		metrics.RecordLeadOperation("update", "not_found")
		return nil, ErrLeadNotFound
	}

	in, fields := req.normalize()
	if err := validateUpdate(&in, fields); err != nil {
		metrics.RecordLeadOperation("update", "invalid")
		return nil, err
	}

	now := s.clock()
	if now.Before(lead.CreatedAt) {
		now = lead.CreatedAt
	}

	changes := applyChanges(lead, &in, fields)
	changes["updated_at"] = now
	lead.UpdatedAt = now

	if err := s.repo.Update(ctx, id, changes); err != nil {
		metrics.RecordLeadOperation("update", resultOf(err))
		return nil, err
	}

	metrics.RecordLeadOperation("update", "ok")
	return lead, nil
}

// applyChanges copies the supplied fields onto lead and returns them keyed by column.
func applyChanges(lead *Lead, in *input, fields []string) map[string]interface{} {
	changes := make(map[string]interface{}, len(fields)+1)
	for _, f := range fields {
		switch f {
		case "Name":
			lead.Name = in.Name
			changes["name"] = in.Name
		case "Email":
			lead.Email = in.Email
			changes["email"] = in.Email
		case "Phone":
			lead.Phone = in.Phone
			changes["phone"] = in.Phone
		case "Status":
			lead.Status = in.Status
			changes["status"] = in.Status
		case "Source":
			lead.Source = in.Source
			changes["source"] = in.Source
		case "Notes":
			lead.Notes = in.Notes
			changes["notes"] = in.Notes
		case "FollowUpDate":
			lead.FollowUpDate = followUp(in.FollowUpDate)
			changes["follow_up_date"] = lead.FollowUpDate
		case "AssignedTo":
			lead.AssignedTo = in.AssignedTo
			changes["assigned_to"] = in.AssignedTo
		}
	}
	return changes
}

// Delete removes the lead permanently.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		metrics.RecordLeadOperation("delete", "error")
		return err
	}
	if !found {
		metrics.RecordLeadOperation("delete", "not_found")
		return ErrLeadNotFound
	}
	metrics.RecordLeadOperation("delete", "ok")
	return nil
}

// Stats returns lead statistics
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	stats := &Stats{ByStatus: counts}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}

func resultOf(err error) string {
	switch {
	case errors.Is(err, ErrEmailExists):
		return "conflict"
	case errors.Is(err, ErrLeadNotFound):
		return "not_found"
	default:
		return "error"
	}
}
