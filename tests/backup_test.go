package tests

// Backup and settings service tests.

import (
	"context"
	"testing"

	"github.com/wali1264/ketabestan2/internal/dto"
	"github.com/wali1264/ketabestan2/internal/model"
	"github.com/wali1264/ketabestan2/internal/repository"
	"github.com/wali1264/ketabestan2/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubBackupRepo struct {
	snapshot *dto.BackupDocument
	restored *dto.BackupDocument
}

func (r *stubBackupRepo) Snapshot(_ context.Context) (*dto.BackupDocument, error) {
	doc := *r.snapshot
	return &doc, nil
}

func (r *stubBackupRepo) RestoreTx(_ *gorm.DB, doc *dto.BackupDocument) error {
	r.restored = doc
	return nil
}

func (r *stubBackupRepo) DB() *gorm.DB { return nil }

var _ repository.BackupRepository = (*stubBackupRepo)(nil)

func TestExportStampsTimeAndVersion(t *testing.T) {
	repo := &stubBackupRepo{snapshot: &dto.BackupDocument{
		Version:  dto.BackupVersion,
		Products: []model.Product{{Name: "Notebook"}},
	}}
	svc := service.NewBackupService(repo)

	doc, err := svc.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dto.BackupVersion, doc.Version)
	assert.NotEmpty(t, doc.ExportedAt)
	require.Len(t, doc.Products, 1)
}

func TestImportChecksVersion(t *testing.T) {
	repo := &stubBackupRepo{snapshot: &dto.BackupDocument{}}
	svc := service.NewBackupService(repo)

	err := svc.Import(context.Background(), nil)
	require.EqualError(t, err, "empty backup document")

	err = svc.Import(context.Background(), &dto.BackupDocument{Version: 99})
	require.EqualError(t, err, "unsupported backup version 99 (expected 1)")
	assert.Nil(t, repo.restored, "nothing restored on version mismatch")

	good := &dto.BackupDocument{Version: dto.BackupVersion}
	require.NoError(t, svc.Import(context.Background(), good))
	assert.Same(t, good, repo.restored)
}

func TestSettingsUpdatePartialPatch(t *testing.T) {
	settings := newStubSettingsRepo()
	svc := service.NewSettingsService(settings)

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ketabestan", got.StoreName)
	assert.Equal(t, "AFN", got.BaseCurrency)

	name := "Ketabestan Stationery"
	rate := d("72.25")
	updated, err := svc.Update(context.Background(), dto.UpdateSettingsRequest{
		StoreName: &name, DefaultUSDRate: &rate,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ketabestan Stationery", updated.StoreName)
	assert.True(t, updated.DefaultUSDRate.Equal(d("72.25")))
	assert.Equal(t, "AFN", updated.BaseCurrency, "base currency is fixed")
}
