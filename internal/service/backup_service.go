package service

import (
	"context"
	"fmt"

	"github.com/wali1264/ketabestan2/internal/dto"
	"github.com/wali1264/ketabestan2/internal/repository"

	"gorm.io/gorm"
)

// BackupService exports the full store state as one JSON document and
// restores from one. Restore is all-or-nothing: the wipe and reinsert run in
// a single transaction, so a bad document leaves the database untouched.
type BackupService interface {
	Export(ctx context.Context) (*dto.BackupDocument, error)
	Import(ctx context.Context, doc *dto.BackupDocument) error
}

type backupService struct {
	repo repository.BackupRepository
}

func NewBackupService(repo repository.BackupRepository) BackupService {
	return &backupService{repo: repo}
}

func (s *backupService) Export(ctx context.Context) (*dto.BackupDocument, error) {
	doc, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	doc.ExportedAt = nowFunc().UTC().Format("2006-01-02T15:04:05Z")
	return doc, nil
}

func (s *backupService) Import(ctx context.Context, doc *dto.BackupDocument) error {
	if doc == nil {
		return fmt.Errorf("empty backup document")
	}
	if doc.Version != dto.BackupVersion {
		return fmt.Errorf("unsupported backup version %d (expected %d)", doc.Version, dto.BackupVersion)
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.RestoreTx(tx, doc)
	})
}
