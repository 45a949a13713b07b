package services

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"markethub_backend/internal/config"
	"markethub_backend/internal/models"
	"markethub_backend/internal/repositories"
	"markethub_backend/internal/storage"
)

func newTestUploadService(t *testing.T) UploadService {
	t.Helper()

	cfg := &config.Config{}
	cfg.Storage.BasePath = t.TempDir()
	cfg.Storage.BaseURL = "http://localhost:8080/uploads"
	cfg.Upload.MaxSize = 1 << 20
	cfg.Upload.MaxBatch = 3
	cfg.Upload.AllowedTypes = []string{"image/jpeg", "image/jpg", "image/png"}
	cfg.Upload.RetentionH = 24

	store, err := storage.NewLocalStorage(cfg)
	require.NoError(t, err)

	return NewUploadService(repositories.NewUploadRepository(), store, cfg)
}

func testImage(name string) UploadInput {
	content := "not really a jpeg"
	return UploadInput{
		Reader:      strings.NewReader(content),
		Filename:    name,
		ContentType: "image/jpeg",
		Size:        int64(len(content)),
	}
}

func TestUploadCreatesPendingRecord(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestUploadService(t)

	actor := uuid.NewString()
	uploaded, err := svc.Upload(ctx, db, actor, "markets", testImage("banner.jpg"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(uploaded.Key, "markets/"))
	require.True(t, strings.HasSuffix(uploaded.Key, ".jpg"))

	var pending []models.PendingImage
	require.NoError(t, db.Find(&pending).Error)
	require.Len(t, pending, 1)
	require.Equal(t, actor, pending[0].UserID)
	require.Equal(t, uploaded.Key, pending[0].S3Key)
}

func TestUploadValidation(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestUploadService(t)
	actor := uuid.NewString()

	_, err := svc.Upload(ctx, db, actor, "", testImage("banner.jpg"))
	requireAppError(t, err, http.StatusBadRequest)

	oversized := testImage("huge.jpg")
	oversized.Size = 2 << 20
	_, err = svc.Upload(ctx, db, actor, "markets", oversized)
	requireAppError(t, err, http.StatusBadRequest)

	pdf := testImage("contract.pdf")
	pdf.ContentType = "application/pdf"
	_, err = svc.Upload(ctx, db, actor, "markets", pdf)
	requireAppError(t, err, http.StatusBadRequest)
}

func TestUploadBatch(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestUploadService(t)
	actor := uuid.NewString()

	resp, err := svc.UploadBatch(ctx, db, actor, "businesses", []UploadInput{
		testImage("one.jpg"),
		testImage("two.jpg"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Images, 2)

	_, err = svc.UploadBatch(ctx, db, actor, "businesses", nil)
	requireAppError(t, err, http.StatusBadRequest)

	_, err = svc.UploadBatch(ctx, db, actor, "businesses", []UploadInput{
		testImage("1.jpg"), testImage("2.jpg"), testImage("3.jpg"), testImage("4.jpg"),
	})
	requireAppError(t, err, http.StatusBadRequest)

	// A batch with one bad file writes nothing
	var before int64
	require.NoError(t, db.Model(&models.PendingImage{}).Count(&before).Error)

	bad := testImage("three.gif")
	bad.ContentType = "image/gif"
	_, err = svc.UploadBatch(ctx, db, actor, "businesses", []UploadInput{
		testImage("ok.jpg"), bad,
	})
	requireAppError(t, err, http.StatusBadRequest)

	var after int64
	require.NoError(t, db.Model(&models.PendingImage{}).Count(&after).Error)
	require.Equal(t, before, after)
}

func TestListOrphans(t *testing.T) {
	db := newTestDB(t)
	svc := newTestUploadService(t)

	stale := &models.PendingImage{
		UserID:   uuid.NewString(),
		ImageURL: "http://localhost:8080/uploads/markets/old.jpg",
		S3Key:    "markets/old.jpg",
	}
	require.NoError(t, db.Create(stale).Error)
	require.NoError(t, db.Model(stale).
		Update("created_at", time.Now().UTC().Add(-48*time.Hour)).Error)

	fresh := &models.PendingImage{
		UserID:   uuid.NewString(),
		ImageURL: "http://localhost:8080/uploads/markets/new.jpg",
		S3Key:    "markets/new.jpg",
	}
	require.NoError(t, db.Create(fresh).Error)

	orphans, err := svc.ListOrphans(db)
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	require.Equal(t, "markets/old.jpg", orphans[0].S3Key)
}
