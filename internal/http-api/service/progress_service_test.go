package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"bookhaven/internal/http-api/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockHistoryRepository mocks the HistoryRepository interface
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Upsert(ctx context.Context, rec *models.ProgressRecord) (string, error) {
	args := m.Called(ctx, rec)
	return args.String(0), args.Error(1)
}

func (m *MockHistoryRepository) Get(ctx context.Context, userID, bookID string) (*models.ProgressRecord, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProgressRecord), args.Error(1)
}

func (m *MockHistoryRepository) ListWithBooks(ctx context.Context, userID string, offset, limit int) ([]models.ProgressRecord, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProgressRecord), args.Error(1)
}

func (m *MockHistoryRepository) AllWithBooks(ctx context.Context, userID string) ([]models.ProgressRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProgressRecord), args.Error(1)
}

func (m *MockHistoryRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockBookRepository mocks the BookRepository interface
type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) GetAll(ctx context.Context, page, pageSize int, search, author, sortBy string) ([]models.Book, int64, error) {
	args := m.Called(ctx, page, pageSize, search, author, sortBy)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.Book), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookRepository) GetByID(ctx context.Context, id string) (*models.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookRepository) Create(ctx context.Context, b *models.Book) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookRepository) Update(ctx context.Context, b *models.Book) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// fakeHistoryRepo emulates the store-side upsert semantics: one row per
// (user, book), conflict path keeps id/started_reading/created_at.
type fakeHistoryRepo struct {
	mu      sync.Mutex
	records map[string]*models.ProgressRecord
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{records: make(map[string]*models.ProgressRecord)}
}

func (f *fakeHistoryRepo) Upsert(ctx context.Context, rec *models.ProgressRecord) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := rec.UserID + "|" + rec.BookID
	if existing, ok := f.records[key]; ok {
		existing.CurrentPage = rec.CurrentPage
		existing.TotalPages = rec.TotalPages
		existing.ProgressPercentage = rec.ProgressPercentage
		existing.LastRead = rec.LastRead
		existing.UpdatedAt = rec.UpdatedAt
		return existing.ID, nil
	}

	clone := *rec
	clone.ID = uuid.New().String()
	f.records[key] = &clone
	return clone.ID, nil
}

func (f *fakeHistoryRepo) Get(ctx context.Context, userID, bookID string) (*models.ProgressRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[userID+"|"+bookID]
	if !ok {
		return nil, nil
	}
	return rec, nil
}

func (f *fakeHistoryRepo) ListWithBooks(ctx context.Context, userID string, offset, limit int) ([]models.ProgressRecord, error) {
	return nil, nil
}

func (f *fakeHistoryRepo) AllWithBooks(ctx context.Context, userID string) ([]models.ProgressRecord, error) {
	return nil, nil
}

func (f *fakeHistoryRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, rec := range f.records {
		if rec.UserID == userID {
			n++
		}
	}
	return n, nil
}

func TestComputeProgress(t *testing.T) {
	assert.Equal(t, 10.0, computeProgress(10, 100))
	assert.Equal(t, 50.0, computeProgress(50, 100))
	assert.Equal(t, 100.0, computeProgress(100, 100))
}

func TestComputeProgress_ZeroTotalPages(t *testing.T) {
	// must not divide by zero
	assert.Equal(t, 0.0, computeProgress(5, 0))
	assert.Equal(t, 0.0, computeProgress(5, -1))
}

func TestComputeProgress_Clamped(t *testing.T) {
	// reading position past the last page caps at 100
	assert.Equal(t, 100.0, computeProgress(101, 100))
	assert.Equal(t, 0.0, computeProgress(-5, 100))
}

func TestUpdateProgress_Idempotent(t *testing.T) {
	userID := uuid.New().String()
	bookID := uuid.New().String()

	repo := newFakeHistoryRepo()
	mockBookRepo := new(MockBookRepository)
	mockBookRepo.On("GetByID", mock.Anything, bookID).Return(&models.Book{ID: bookID}, nil)

	svc := NewProgressService(repo, mockBookRepo, nil)

	id1, err := svc.Update(context.Background(), userID, bookID, 10, 100)
	require.NoError(t, err)
	id2, err := svc.Update(context.Background(), userID, bookID, 10, 100)
	require.NoError(t, err)

	assert.Equal(t, id1, id2, "repeated updates must reuse the same record")

	count, _ := repo.CountByUser(context.Background(), userID)
	assert.Equal(t, int64(1), count)

	rec, err := svc.Get(context.Background(), userID, bookID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 10, rec.CurrentPage)
	assert.Equal(t, 10.0, rec.ProgressPercentage)
}

func TestUpdateProgress_KeepsStartedReading(t *testing.T) {
	userID := uuid.New().String()
	bookID := uuid.New().String()

	repo := newFakeHistoryRepo()
	mockBookRepo := new(MockBookRepository)
	mockBookRepo.On("GetByID", mock.Anything, bookID).Return(&models.Book{ID: bookID}, nil)

	svc := NewProgressService(repo, mockBookRepo, nil)

	_, err := svc.Update(context.Background(), userID, bookID, 10, 100)
	require.NoError(t, err)
	first, _ := svc.Get(context.Background(), userID, bookID)
	started := first.StartedReading

	time.Sleep(5 * time.Millisecond)

	_, err = svc.Update(context.Background(), userID, bookID, 42, 100)
	require.NoError(t, err)
	second, _ := svc.Get(context.Background(), userID, bookID)

	assert.Equal(t, started, second.StartedReading, "started_reading is set once")
	assert.True(t, second.LastRead.After(started), "last_read moves forward on every write")
	assert.Equal(t, 42, second.CurrentPage)
}

func TestUpdateProgress_ConcurrentSamePair(t *testing.T) {
	userID := uuid.New().String()
	bookID := uuid.New().String()

	repo := newFakeHistoryRepo()
	mockBookRepo := new(MockBookRepository)
	mockBookRepo.On("GetByID", mock.Anything, bookID).Return(&models.Book{ID: bookID}, nil)

	svc := NewProgressService(repo, mockBookRepo, nil)

	const n = 32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			_, err := svc.Update(context.Background(), userID, bookID, page, 100)
			assert.NoError(t, err)
		}(i + 1)
	}
	wg.Wait()

	count, _ := repo.CountByUser(context.Background(), userID)
	assert.Equal(t, int64(1), count, "racing upserts must never create a second record")
}

func TestUpdateProgress_BookMissing(t *testing.T) {
	bookID := uuid.New().String()

	mockHistoryRepo := new(MockHistoryRepository)
	mockBookRepo := new(MockBookRepository)
	mockBookRepo.On("GetByID", mock.Anything, bookID).Return(nil, nil)

	svc := NewProgressService(mockHistoryRepo, mockBookRepo, nil)

	_, err := svc.Update(context.Background(), uuid.New().String(), bookID, 10, 100)
	assert.ErrorIs(t, err, ErrBookNotFound)
	mockHistoryRepo.AssertNotCalled(t, "Upsert")
}

func TestUpdateProgress_MalformedBookID(t *testing.T) {
	mockHistoryRepo := new(MockHistoryRepository)
	mockBookRepo := new(MockBookRepository)

	svc := NewProgressService(mockHistoryRepo, mockBookRepo, nil)

	_, err := svc.Update(context.Background(), uuid.New().String(), "not-a-uuid", 10, 100)
	assert.ErrorIs(t, err, ErrBookNotFound)
	mockBookRepo.AssertNotCalled(t, "GetByID")
}

func TestGetProgress_MalformedBookID(t *testing.T) {
	mockHistoryRepo := new(MockHistoryRepository)
	svc := NewProgressService(mockHistoryRepo, new(MockBookRepository), nil)

	rec, err := svc.Get(context.Background(), uuid.New().String(), "12345")
	assert.NoError(t, err, "malformed ids are not found, not server errors")
	assert.Nil(t, rec)
	mockHistoryRepo.AssertNotCalled(t, "Get")
}

func TestGetProgress_NotFound(t *testing.T) {
	userID := uuid.New().String()
	bookID := uuid.New().String()

	mockHistoryRepo := new(MockHistoryRepository)
	mockHistoryRepo.On("Get", mock.Anything, userID, bookID).Return(nil, nil)

	svc := NewProgressService(mockHistoryRepo, new(MockBookRepository), nil)

	rec, err := svc.Get(context.Background(), userID, bookID)
	assert.NoError(t, err)
	assert.Nil(t, rec)
}
