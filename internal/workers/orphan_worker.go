package workers

import (
	"context"
	"time"

	"gorm.io/gorm"

	"markethub_backend/internal/logger"
	"markethub_backend/internal/services"
)

// OrphanWorker периодически находит загруженные, но нигде не
// использованные изображения. Ничего не удаляет, только репортит.
type OrphanWorker struct {
	uploads  services.UploadService
	db       *gorm.DB
	interval time.Duration
}

func NewOrphanWorker(uploads services.UploadService, db *gorm.DB, interval time.Duration) *OrphanWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &OrphanWorker{
		uploads:  uploads,
		db:       db,
		interval: interval,
	}
}

func (w *OrphanWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("Orphan image worker started", "interval", w.interval.String())

	for {
		select {
		case <-ctx.Done():
			logger.Info("Orphan image worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *OrphanWorker) sweep(ctx context.Context) {
	orphans, err := w.uploads.ListOrphans(w.db)
	if err != nil {
		logger.CtxWarn(ctx, "orphan sweep failed", "error", err)
		return
	}
	if len(orphans) == 0 {
		return
	}

	logger.CtxInfo(ctx, "orphaned images detected", "count", len(orphans))
	for _, img := range orphans {
		logger.CtxDebug(ctx, "orphaned image", "key", img.S3Key, "uploaded_at", img.CreatedAt)
	}
}
