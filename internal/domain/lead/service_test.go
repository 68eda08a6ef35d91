package lead

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"leadmanager/internal/database"
)

var baseTime = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Connect(fmt.Sprintf("file:lead_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// stepClock returns baseTime and advances one minute per call.
func stepClock() func() time.Time {
	var (
		mu sync.Mutex
		n  int
	)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := baseTime.Add(time.Duration(n) * time.Minute)
		n++
		return t
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewRepository(openTestDB(t))).WithClock(stepClock())
}

func mustCreate(t *testing.T, svc *Service, name, email, phone string) *Lead {
	t.Helper()
	l, err := svc.Create(context.Background(), &CreateLeadRequest{Name: name, Email: email, Phone: phone})
	require.NoError(t, err)
	return l
}

func TestService_CreateAndGet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	followUp := "2026-02-01"

	created, err := svc.Create(ctx, &CreateLeadRequest{
		Name:         " Alice Johnson ",
		Email:        "Alice@Example.com",
		Phone:        "1234567890",
		Source:       SourceReferral,
		Notes:        "met at expo",
		FollowUpDate: &followUp,
		AssignedTo:   "sales-1",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "alice@example.com", created.Email)
	assert.Equal(t, StatusNew, created.Status)
	assert.Equal(t, baseTime, created.CreatedAt)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Alice Johnson", got.Name)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, SourceReferral, got.Source)
	assert.Equal(t, "met at expo", got.Notes)
	assert.Equal(t, "sales-1", got.AssignedTo)
	require.NotNil(t, got.FollowUpDate)
	assert.True(t, got.FollowUpDate.Equal(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, got.CreatedAt.Equal(baseTime))
}

func TestService_CreateDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	mustCreate(t, svc, "Alice", "alice@example.com", "1234567890")

	_, err := svc.Create(context.Background(), &CreateLeadRequest{
		Name: "Alice Again", Email: "ALICE@example.com", Phone: "0987654321",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
}

// blindRepo hides existing emails from the pre-check so the unique index is
// the only guard left.
type blindRepo struct {
	Repository
}

func (blindRepo) FindByEmail(context.Context, string) (*Lead, error) { return nil, nil }

func TestService_CreateDuplicateEmail_UniqueIndex(t *testing.T) {
	svc := NewService(blindRepo{NewRepository(openTestDB(t))})
	mustCreate(t, svc, "Alice", "alice@example.com", "1234567890")

	_, err := svc.Create(context.Background(), &CreateLeadRequest{
		Name: "Alice Again", Email: "alice@example.com", Phone: "0987654321",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestService_CreateInvalid(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Create(context.Background(), &CreateLeadRequest{Name: "Bob", Email: "bob@example.com", Phone: "123-456-7890"})
	assert.ErrorIs(t, err, ErrValidation)

	res, err := svc.List(context.Background(), Filter{}, ParsePage("", ""))
	require.NoError(t, err)
	assert.Zero(t, res.Total)
}

func TestService_GetByID_NotFound(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestService_ListPagination(t *testing.T) {
	svc := newTestService(t)
	var created []*Lead
	for i := 1; i <= 25; i++ {
		created = append(created, mustCreate(t, svc, fmt.Sprintf("Lead %02d", i), fmt.Sprintf("lead%02d@example.com", i), fmt.Sprintf("55500000%02d", i)))
	}

	res, err := svc.List(context.Background(), Filter{}, Page{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(25), res.Total)
	assert.Equal(t, 3, res.Pages)
	assert.Equal(t, 2, res.Page)
	require.Len(t, res.Leads, 10)

	// Newest first: the second page holds the 11th..20th newest.
	for i, l := range res.Leads {
		assert.Equal(t, created[24-10-i].ID, l.ID)
	}

	last, err := svc.List(context.Background(), Filter{}, Page{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, last.Leads, 5)

	beyond, err := svc.List(context.Background(), Filter{}, Page{Page: 9, Limit: 10})
	require.NoError(t, err)
	assert.NotNil(t, beyond.Leads)
	assert.Empty(t, beyond.Leads)
	assert.Equal(t, int64(25), beyond.Total)
}

func TestService_ListSearch(t *testing.T) {
	svc := newTestService(t)
	alice := mustCreate(t, svc, "Alice Johnson", "aj@example.com", "1111111111")
	mustCreate(t, svc, "Bob Smith", "bob@example.com", "2222222222")
	byEmail := mustCreate(t, svc, "Carol", "carol.alice@example.com", "3333333333")
	percent := mustCreate(t, svc, "100% Real", "real@example.com", "4444444444")

	res, err := svc.List(context.Background(), ParseFilter("ALICE", "", "", ""), ParsePage("", ""))
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)
	ids := []uuid.UUID{res.Leads[0].ID, res.Leads[1].ID}
	assert.ElementsMatch(t, []uuid.UUID{alice.ID, byEmail.ID}, ids)

	res, err = svc.List(context.Background(), ParseFilter("2222", "", "", ""), ParsePage("", ""))
	require.NoError(t, err)
	require.Len(t, res.Leads, 1)
	assert.Equal(t, "Bob Smith", res.Leads[0].Name)

	res, err = svc.List(context.Background(), ParseFilter("%", "", "", ""), ParsePage("", ""))
	require.NoError(t, err)
	require.Len(t, res.Leads, 1)
	assert.Equal(t, percent.ID, res.Leads[0].ID)
}

func TestService_ListStatusAndDateRange(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	mustCreate(t, svc, "First", "first@example.com", "1111111111")             // 09:00
	second := mustCreate(t, svc, "Second", "second@example.com", "2222222222") // 09:01
	third := mustCreate(t, svc, "Third", "third@example.com", "3333333333")    // 09:02

	qualified := StatusQualified
	_, err := svc.Update(ctx, second.ID, &UpdateLeadRequest{Status: &qualified})
	require.NoError(t, err)

	res, err := svc.List(ctx, ParseFilter("", "Qualified", "", ""), ParsePage("", ""))
	require.NoError(t, err)
	require.Len(t, res.Leads, 1)
	assert.Equal(t, second.ID, res.Leads[0].ID)

	res, err = svc.List(ctx, ParseFilter("", "", "2026-01-10T09:01:00Z", "2026-01-10T09:02:00Z"), ParsePage("", ""))
	require.NoError(t, err)
	require.Len(t, res.Leads, 2)
	assert.Equal(t, third.ID, res.Leads[0].ID)
	assert.Equal(t, second.ID, res.Leads[1].ID)

	// A single bound does not filter.
	res, err = svc.List(ctx, ParseFilter("", "", "2026-01-10T09:02:00Z", ""), ParsePage("", ""))
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Total)
}

func TestService_UpdateStatusOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	created := mustCreate(t, svc, "Alice", "alice@example.com", "1234567890")

	contacted := StatusContacted
	updated, err := svc.Update(ctx, created.ID, &UpdateLeadRequest{Status: &contacted})
	require.NoError(t, err)
	assert.Equal(t, StatusContacted, updated.Status)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusContacted, got.Status)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, "1234567890", got.Phone)
	assert.Equal(t, SourceWebsite, got.Source)
	assert.True(t, got.CreatedAt.Equal(created.CreatedAt))
	assert.True(t, got.UpdatedAt.Equal(updated.UpdatedAt))
}

func TestService_UpdateClearsFollowUpDate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	date := "2026-03-01"
	created, err := svc.Create(ctx, &CreateLeadRequest{Name: "Dan", Email: "dan@example.com", Phone: "1234567890", FollowUpDate: &date})
	require.NoError(t, err)
	require.NotNil(t, created.FollowUpDate)

	none := ""
	_, err = svc.Update(ctx, created.ID, &UpdateLeadRequest{FollowUpDate: &none})
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got.FollowUpDate)
}

func TestService_UpdateValidationAndConflict(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	mustCreate(t, svc, "Alice", "alice@example.com", "1111111111")
	bob := mustCreate(t, svc, "Bob", "bob@example.com", "2222222222")

	bad := "not-an-email"
	_, err := svc.Update(ctx, bob.ID, &UpdateLeadRequest{Email: &bad})
	assert.ErrorIs(t, err, ErrValidation)

	taken := "Alice@Example.com"
	_, err = svc.Update(ctx, bob.ID, &UpdateLeadRequest{Email: &taken})
	assert.ErrorIs(t, err, ErrEmailExists)

	got, err := svc.GetByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", got.Email)
}

func TestService_UpdateNotFound(t *testing.T) {
	svc := newTestService(t)
	name := "Nobody"
	_, err := svc.Update(context.Background(), uuid.New(), &UpdateLeadRequest{Name: &name})
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestService_Delete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	created := mustCreate(t, svc, "Alice", "alice@example.com", "1234567890")

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err := svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrLeadNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, created.ID), ErrLeadNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, uuid.New()), ErrLeadNotFound)
}

func TestService_Stats(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	mustCreate(t, svc, "A", "a1@example.com", "1111111111")
	mustCreate(t, svc, "B", "b1@example.com", "2222222222")
	c := mustCreate(t, svc, "C", "c1@example.com", "3333333333")

	lost := StatusLost
	_, err := svc.Update(ctx, c.ID, &UpdateLeadRequest{Status: &lost})
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.ByStatus[StatusNew])
	assert.Equal(t, int64(1), stats.ByStatus[StatusLost])
	assert.Equal(t, int64(0), stats.ByStatus[StatusConfirmed])
	assert.Len(t, stats.ByStatus, len(Statuses))
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, lead *Lead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Lead), args.Error(1)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*Lead, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Lead), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, f Filter, p Page) ([]Lead, int64, error) {
	args := m.Called(ctx, f, p)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]Lead), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) Update(ctx context.Context, id uuid.UUID, changes map[string]interface{}) error {
	return m.Called(ctx, id, changes).Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) CountByStatus(ctx context.Context) (map[Status]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[Status]int64), args.Error(1)
}

func TestService_StorageFailure(t *testing.T) {
	down := storageErr("find by email", errors.New("connection refused"))

	repo := new(MockRepository)
	repo.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, down)
	repo.On("List", mock.Anything, mock.Anything, mock.Anything).Return(nil, int64(0), down)

	svc := NewService(repo)
	_, err := svc.Create(context.Background(), &CreateLeadRequest{Name: "Alice", Email: "alice@example.com", Phone: "1234567890"})
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	_, err = svc.List(context.Background(), Filter{}, ParsePage("", ""))
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	repo.AssertExpectations(t)
}

func TestService_UpdateClampsToCreatedAt(t *testing.T) {
	id := uuid.New()
	createdAt := baseTime.Add(time.Hour)
	repo := new(MockRepository)
	repo.On("GetByID", mock.Anything, id).Return(&Lead{ID: id, Name: "Alice", Status: StatusNew, CreatedAt: createdAt, UpdatedAt: createdAt}, nil)
	repo.On("Update", mock.Anything, id, mock.MatchedBy(func(changes map[string]interface{}) bool {
		return changes["updated_at"] == createdAt && changes["notes"] == "called back"
	})).Return(nil)

	svc := NewService(repo).WithClock(func() time.Time { return baseTime })
	notes := "called back"
	updated, err := svc.Update(context.Background(), id, &UpdateLeadRequest{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, createdAt, updated.UpdatedAt)
	repo.AssertExpectations(t)
}

func TestService_ListSearchUnicodeCase(t *testing.T) {
	svc := newTestService(t)
	elodie := mustCreate(t, svc, "ÉLODIE Martin", "elodie@example.com", "1111111111")
	mustCreate(t, svc, "Elie Durand", "elie@example.com", "2222222222")

	for _, q := range []string{"élodie", "ÉLODIE", "Élodie"} {
		res, err := svc.List(context.Background(), ParseFilter(q, "", "", ""), ParsePage("", ""))
		require.NoError(t, err)
		require.Len(t, res.Leads, 1, q)
		assert.Equal(t, elodie.ID, res.Leads[0].ID, q)
		assert.Equal(t, int64(1), res.Total, q)
	}
}

// staleRepo serves a lead from GetByID that is no longer stored,
// as when a delete lands between the read and the write.
type staleRepo struct {
	Repository
	lead Lead
}

func (r staleRepo) GetByID(context.Context, uuid.UUID) (*Lead, error) {
	l := r.lead
	return &l, nil
}

func TestService_UpdateAfterConcurrentDelete(t *testing.T) {
	base := NewRepository(openTestDB(t))
	svc := NewService(base).WithClock(stepClock())
	created := mustCreate(t, svc, "Alice", "alice@example.com", "1234567890")
	require.NoError(t, svc.Delete(context.Background(), created.ID))

	stale := NewService(staleRepo{Repository: base, lead: *created}).WithClock(stepClock())
	status := StatusContacted
	_, err := stale.Update(context.Background(), created.ID, &UpdateLeadRequest{Status: &status})
	assert.ErrorIs(t, err, ErrLeadNotFound)
}
