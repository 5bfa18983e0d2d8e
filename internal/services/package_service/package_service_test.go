package services

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"testing"
	"time"

	"travkings/internal/domain/models"
	"travkings/internal/repository"
	"travkings/internal/storage"
	filestorage "travkings/internal/storage/filestorage"
	"travkings/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPackageRepository реализация мок-репозитория
type MockPackageRepository struct {
	mock.Mock
}

func (m *MockPackageRepository) SavePackage(ctx context.Context, pkg models.TravelPackage) (uuid.UUID, error) {
	args := m.Called(ctx, pkg)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockPackageRepository) GetPackageByID(ctx context.Context, id uuid.UUID) (*models.TravelPackage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TravelPackage), args.Error(1)
}

func (m *MockPackageRepository) GetPackageBySlug(ctx context.Context, slug string, onlyActive bool) (*models.TravelPackage, error) {
	args := m.Called(ctx, slug, onlyActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TravelPackage), args.Error(1)
}

func (m *MockPackageRepository) ListPackages(ctx context.Context, filter repository.PackageFilter) ([]models.TravelPackage, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.TravelPackage), args.Error(1)
}

func (m *MockPackageRepository) UpdatePackageFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *MockPackageRepository) DeletePackage(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPackageRepository) PackageSlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPackageRepository) CountPackages(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockImageStore мок файлового хранилища
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Save(ctx context.Context, file *multipart.FileHeader, kind filestorage.ImageKind) (string, error) {
	args := m.Called(ctx, file, kind)
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) Replace(ctx context.Context, file *multipart.FileHeader, kind filestorage.ImageKind, oldFilename string) (string, error) {
	args := m.Called(ctx, file, kind, oldFilename)
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) Delete(ctx context.Context, kind filestorage.ImageKind, filename string) error {
	args := m.Called(ctx, kind, filename)
	return args.Error(0)
}

func (m *MockImageStore) GetFullPath(kind filestorage.ImageKind, filename string) string {
	args := m.Called(kind, filename)
	return args.String(0)
}

func (m *MockImageStore) BaseDir() string {
	args := m.Called()
	return args.String(0)
}

// SpyInvalidator запоминает пути, для которых запрошена инвалидация
type SpyInvalidator struct {
	Paths []string
}

func (s *SpyInvalidator) Invalidate(_ context.Context, paths ...string) {
	s.Paths = append(s.Paths, paths...)
}

func validCreateRequest() dto.CreatePackageRequest {
	return dto.CreatePackageRequest{
		Title:        "Bali Escape",
		Slug:         "bali-escape",
		Description:  "Seven days across Bali",
		Price:        1200,
		Currency:     "USD",
		Duration:     7,
		Destination:  "Bali",
		Category:     models.PackageCategoryLuxury,
		MinTravelers: 2,
	}
}

func TestPackageService_CreatePackage(t *testing.T) {
	ctx := context.Background()
	log := slog.Default()

	testID := uuid.MustParse("b3c87987-ba25-4c7b-8070-f74ef402fe7c")
	thumbnail := &multipart.FileHeader{Filename: "photo.jpg"}

	saved := &models.TravelPackage{ID: testID, Title: "Bali Escape", Slug: "bali-escape"}

	tests := []struct {
		name      string
		req       dto.CreatePackageRequest
		thumbnail *multipart.FileHeader
		mockSetup func(repo *MockPackageRepository, images *MockImageStore)
		wantErr   error
		checkVErr bool
	}{
		{
			name:      "successful creation",
			req:       validCreateRequest(),
			thumbnail: thumbnail,
			mockSetup: func(repo *MockPackageRepository, images *MockImageStore) {
				repo.On("PackageSlugExists", ctx, "bali-escape", uuid.Nil).Return(false, nil)
				images.On("Save", ctx, thumbnail, filestorage.KindPackage).Return("thumbnail_1.jpg", nil)
				repo.On("SavePackage", ctx, mock.AnythingOfType("models.TravelPackage")).Return(testID, nil)
				repo.On("GetPackageByID", ctx, testID).Return(saved, nil)
			},
		},
		{
			name:      "slug already taken",
			req:       validCreateRequest(),
			thumbnail: thumbnail,
			mockSetup: func(repo *MockPackageRepository, images *MockImageStore) {
				repo.On("PackageSlugExists", ctx, "bali-escape", uuid.Nil).Return(true, nil)
			},
			wantErr: storage.ErrSlugExists,
		},
		{
			name:      "missing thumbnail",
			req:       validCreateRequest(),
			thumbnail: nil,
			mockSetup: func(repo *MockPackageRepository, images *MockImageStore) {
				repo.On("PackageSlugExists", ctx, "bali-escape", uuid.Nil).Return(false, nil)
			},
			checkVErr: true,
		},
		{
			name: "invalid slug format",
			req: func() dto.CreatePackageRequest {
				r := validCreateRequest()
				r.Slug = "Bad Slug!"
				return r
			}(),
			thumbnail: thumbnail,
			mockSetup: func(repo *MockPackageRepository, images *MockImageStore) {},
			checkVErr: true,
		},
		{
			name:      "file removed when insert fails",
			req:       validCreateRequest(),
			thumbnail: thumbnail,
			mockSetup: func(repo *MockPackageRepository, images *MockImageStore) {
				repo.On("PackageSlugExists", ctx, "bali-escape", uuid.Nil).Return(false, nil)
				images.On("Save", ctx, thumbnail, filestorage.KindPackage).Return("thumbnail_1.jpg", nil)
				repo.On("SavePackage", ctx, mock.AnythingOfType("models.TravelPackage")).Return(uuid.Nil, storage.ErrSlugExists)
				images.On("Delete", ctx, filestorage.KindPackage, "thumbnail_1.jpg").Return(nil)
			},
			wantErr: storage.ErrSlugExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockPackageRepository)
			images := new(MockImageStore)
			spy := &SpyInvalidator{}
			service := NewPackageService(log, repo, images, spy)

			tt.mockSetup(repo, images)

			pkg, err := service.CreatePackage(ctx, tt.req, tt.thumbnail)

			switch {
			case tt.wantErr != nil:
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.checkVErr:
				require.Error(t, err)
				assert.True(t, models.IsValidationError(err))
			default:
				require.NoError(t, err)
				assert.Equal(t, testID, pkg.ID)
				assert.Contains(t, spy.Paths, "/packages/bali-escape")
			}

			repo.AssertExpectations(t)
			images.AssertExpectations(t)
		})
	}
}

func TestPackageService_UpdatePackage_SlugConflict(t *testing.T) {
	ctx := context.Background()
	log := slog.Default()

	repo := new(MockPackageRepository)
	images := new(MockImageStore)
	service := NewPackageService(log, repo, images, &SpyInvalidator{})

	id := uuid.New()
	existing := &models.TravelPackage{ID: id, Slug: "old-slug", Thumbnail: "thumbnail_1.jpg"}
	newSlug := "taken-slug"

	repo.On("GetPackageByID", ctx, id).Return(existing, nil)
	repo.On("PackageSlugExists", ctx, newSlug, id).Return(true, nil)

	_, err := service.UpdatePackage(ctx, id, dto.UpdatePackageRequest{Slug: &newSlug}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrSlugExists)
	repo.AssertExpectations(t)
}

func TestPackageService_UpdatePackage_ReplacesThumbnail(t *testing.T) {
	ctx := context.Background()
	log := slog.Default()

	repo := new(MockPackageRepository)
	images := new(MockImageStore)
	spy := &SpyInvalidator{}
	service := NewPackageService(log, repo, images, spy)

	id := uuid.New()
	existing := &models.TravelPackage{ID: id, Slug: "bali-escape", Thumbnail: "thumbnail_1.jpg"}
	file := &multipart.FileHeader{Filename: "new.png"}

	repo.On("GetPackageByID", ctx, id).Return(existing, nil)
	images.On("Replace", ctx, file, filestorage.KindPackage, "thumbnail_1.jpg").Return("thumbnail_2.png", nil)
	repo.On("UpdatePackageFields", ctx, id, mock.MatchedBy(func(updates map[string]interface{}) bool {
		return updates["thumbnail"] == "thumbnail_2.png"
	})).Return(nil)

	_, err := service.UpdatePackage(ctx, id, dto.UpdatePackageRequest{}, file)

	require.NoError(t, err)
	assert.Contains(t, spy.Paths, "/packages/bali-escape")
	repo.AssertExpectations(t)
	images.AssertExpectations(t)
}

// Каждое поле, которое сервис кладет в updates, должен принимать
// UpdatePackageFields; updated_at репозиторий проставляет сам.
func TestPackageService_UpdatePackage_BuildsOnlyUpdatableColumns(t *testing.T) {
	ctx := context.Background()
	log := slog.Default()

	repo := new(MockPackageRepository)
	images := new(MockImageStore)
	service := NewPackageService(log, repo, images, &SpyInvalidator{})

	id := uuid.New()
	existing := &models.TravelPackage{ID: id, Slug: "old-slug", Thumbnail: "thumbnail_1.jpg"}
	file := &multipart.FileHeader{Filename: "new.png"}

	deadline := time.Now().Add(72 * time.Hour)
	category := models.PackageCategoryLuxury
	req := dto.UpdatePackageRequest{
		Title:            strPtr("New Title"),
		Slug:             strPtr("new-slug"),
		Description:      strPtr("New description"),
		ShortDescription: strPtr("Short"),
		Price:            float64Ptr(1500),
		Currency:         strPtr("EUR"),
		Duration:         intPtr(10),
		Destination:      strPtr("Iceland"),
		Destinations:     []string{"Reykjavik"},
		Images:           []string{"a.jpg"},
		Category:         &category,
		Inclusions:       []string{"meals"},
		Exclusions:       []string{"flights"},
		Itinerary:        models.Itinerary{{Day: 1, Title: "Arrival"}},
		Highlights:       []string{"glaciers"},
		IsActive:         boolPtr(false),
		IsFeatured:       boolPtr(true),
		MaxTravelers:     intPtr(12),
		MinTravelers:     intPtr(2),
		DepartureDates:   []time.Time{deadline},
		BookingDeadline:  &deadline,
		Tags:             []string{"winter"},
		Meta:             &models.SEOMeta{Title: "seo"},
	}

	var captured map[string]interface{}
	repo.On("GetPackageByID", ctx, id).Return(existing, nil)
	repo.On("PackageSlugExists", ctx, "new-slug", id).Return(false, nil)
	images.On("Replace", ctx, file, filestorage.KindPackage, "thumbnail_1.jpg").Return("thumbnail_2.png", nil)
	repo.On("UpdatePackageFields", ctx, id, mock.MatchedBy(func(updates map[string]interface{}) bool {
		captured = updates
		return true
	})).Return(nil)

	_, err := service.UpdatePackage(ctx, id, req, file)

	require.NoError(t, err)
	require.NotEmpty(t, captured)
	for column := range captured {
		assert.True(t, repository.PackageUpdatableColumns[column],
			"column %q is not accepted by the repository", column)
	}
	repo.AssertExpectations(t)
	images.AssertExpectations(t)
}

func TestPackageService_UpdatePackage_NoChanges(t *testing.T) {
	ctx := context.Background()
	log := slog.Default()

	repo := new(MockPackageRepository)
	images := new(MockImageStore)
	service := NewPackageService(log, repo, images, &SpyInvalidator{})

	id := uuid.New()
	existing := &models.TravelPackage{ID: id, Slug: "old-slug", Thumbnail: "thumbnail_1.jpg"}

	repo.On("GetPackageByID", ctx, id).Return(existing, nil)

	got, err := service.UpdatePackage(ctx, id, dto.UpdatePackageRequest{}, nil)

	require.NoError(t, err)
	assert.Equal(t, existing, got)
	repo.AssertNotCalled(t, "UpdatePackageFields", mock.Anything, mock.Anything, mock.Anything)
}

func strPtr(s string) *string       { return &s }
func intPtr(i int) *int             { return &i }
func boolPtr(b bool) *bool          { return &b }
func float64Ptr(f float64) *float64 { return &f }

func TestPackageService_DeletePackage(t *testing.T) {
	ctx := context.Background()
	log := slog.Default()

	t.Run("removes record and thumbnail", func(t *testing.T) {
		repo := new(MockPackageRepository)
		images := new(MockImageStore)
		spy := &SpyInvalidator{}
		service := NewPackageService(log, repo, images, spy)

		id := uuid.New()
		pkg := &models.TravelPackage{ID: id, Slug: "bali-escape", Thumbnail: "thumbnail_1.jpg"}

		repo.On("GetPackageByID", ctx, id).Return(pkg, nil)
		images.On("Delete", ctx, filestorage.KindPackage, "thumbnail_1.jpg").Return(nil)
		repo.On("DeletePackage", ctx, id).Return(nil)

		err := service.DeletePackage(ctx, id)

		require.NoError(t, err)
		assert.Contains(t, spy.Paths, "/packages")
		repo.AssertExpectations(t)
		images.AssertExpectations(t)
	})

	t.Run("thumbnail delete failure does not block", func(t *testing.T) {
		repo := new(MockPackageRepository)
		images := new(MockImageStore)
		service := NewPackageService(log, repo, images, &SpyInvalidator{})

		id := uuid.New()
		pkg := &models.TravelPackage{ID: id, Slug: "bali-escape", Thumbnail: "thumbnail_1.jpg"}

		repo.On("GetPackageByID", ctx, id).Return(pkg, nil)
		images.On("Delete", ctx, filestorage.KindPackage, "thumbnail_1.jpg").Return(errors.New("disk error"))
		repo.On("DeletePackage", ctx, id).Return(nil)

		err := service.DeletePackage(ctx, id)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("unknown id", func(t *testing.T) {
		repo := new(MockPackageRepository)
		images := new(MockImageStore)
		service := NewPackageService(log, repo, images, &SpyInvalidator{})

		id := uuid.New()
		repo.On("GetPackageByID", ctx, id).Return(nil, storage.ErrPackageNotFound)

		err := service.DeletePackage(ctx, id)

		require.Error(t, err)
		assert.ErrorIs(t, err, storage.ErrPackageNotFound)
	})
}
