package lead

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Repository handles lead persistence
type Repository interface {
	Create(ctx context.Context, lead *Lead) error
	GetByID(ctx context.Context, id uuid.UUID) (*Lead, error)
	FindByEmail(ctx context.Context, email string) (*Lead, error)
	List(ctx context.Context, f Filter, p Page) ([]Lead, int64, error)
	Update(ctx context.Context, id uuid.UUID, changes map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	CountByStatus(ctx context.Context) (map[Status]int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates the gorm-backed lead repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Migrate creates or updates the leads table and its indexes.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Lead{}); err != nil {
		return err
	}
	if db.Dialector.Name() == "postgres" {
		return db.Exec(`CREATE INDEX IF NOT EXISTS idx_leads_search ON leads USING gin (
			to_tsvector('simple', name || ' ' || email || ' ' || phone || ' ' || coalesce(notes, ''))
		)`).Error
	}
	return nil
}

func (r *repository) Create(ctx context.Context, lead *Lead) error {
	err := r.db.WithContext(ctx).Create(lead).Error
	if isUniqueViolation(err) {
		return ErrEmailExists
	}
	return storageErr("create", err)
}

// GetByID returns nil, nil when no lead has that id.
func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Lead, error) {
	var lead Lead
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&lead).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get", err)
	}
	return &lead, nil
}

// FindByEmail matches the normalized email exactly; nil, nil when absent.
func (r *repository) FindByEmail(ctx context.Context, email string) (*Lead, error) {
	var lead Lead
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&lead).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("find by email", err)
	}
	return &lead, nil
}

// List returns one page of matching leads, newest first, and the total
// number of matches. Both queries share the filter scope.
func (r *repository) List(ctx context.Context, f Filter, p Page) ([]Lead, int64, error) {
	var (
		leads []Lead
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.WithContext(gctx).
			Model(&Lead{}).
			Select(listColumns).
			Scopes(f.Scope()).
			Order("created_at DESC").
			Order("id DESC").
			Offset(p.Offset()).
			Limit(p.Limit).
			Find(&leads).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).
			Model(&Lead{}).
			Scopes(f.Scope()).
			Count(&total).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, storageErr("list", err)
	}

	if leads == nil {
		leads = []Lead{}
	}
	return leads, total, nil
}

// Update returns ErrLeadNotFound when no row has that id, e.g. after a
// concurrent delete.
func (r *repository) Update(ctx context.Context, id uuid.UUID, changes map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&Lead{}).
		Where("id = ?", id).
		Updates(changes)
	if isUniqueViolation(result.Error) {
		return ErrEmailExists
	}
	if result.Error != nil {
		return storageErr("update", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// Delete hard-deletes the lead and reports whether it existed.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Lead{})
	if result.Error != nil {
		return false, storageErr("delete", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) CountByStatus(ctx context.Context) (map[Status]int64, error) {
	var rows []struct {
		Status Status
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&Lead{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, storageErr("count by status", err)
	}

	counts := make(map[Status]int64, len(Statuses))
	for _, s := range Statuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// isUniqueViolation covers the translated gorm error, postgres SQLSTATE 23505
// and the sqlite constraint message.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
