package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/model"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/repository"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/storage/db"
)

// newDB 每个测试使用独立的内存数据库.
func newDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())

	client, err := db.Open(sqlite.Open(dsn), 0)
	require.NoError(t, err)
	require.NoError(t, client.Migrate(context.Background(), model.All()...))

	t.Cleanup(func() { _ = client.Close() })

	return client.DB
}

func TestProfiles(t *testing.T) {
	ctx := context.Background()
	repo := repository.New(newDB(t)).Profiles

	// 不存在的 profile
	_, err := repo.IsAdmin(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.Upsert(ctx, "u1", false))
	isAdmin, err := repo.IsAdmin(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, isAdmin)

	require.NoError(t, repo.Upsert(ctx, "u1", true))
	isAdmin, err = repo.IsAdmin(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, isAdmin)
}

// TestProfiles_NullFlag is_admin 为 NULL 视为非管理员.
func TestProfiles_NullFlag(t *testing.T) {
	ctx := context.Background()
	gdb := newDB(t)

	require.NoError(t, gdb.Create(&model.Profile{ID: "u2"}).Error)

	isAdmin, err := repository.NewProfileRepository(gdb).IsAdmin(ctx, "u2")
	require.NoError(t, err)
	assert.False(t, isAdmin)
}

func TestGallery_CreateListDelete(t *testing.T) {
	ctx := context.Background()
	repo := repository.New(newDB(t)).Gallery

	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	first := &model.ProjectGallery{Title: "Old", Date: &older}
	require.NoError(t, repo.CreateProject(ctx, first, []model.GalleryImage{
		{ImageURL: "https://x/2.png", OrderIndex: 1},
		{ImageURL: "https://x/1.png", OrderIndex: 0},
	}))
	assert.NotEmpty(t, first.ID)

	second := &model.ProjectGallery{Title: "New", Date: &newer}
	require.NoError(t, repo.CreateProject(ctx, second, nil))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "New", list[0].Title)
	require.Len(t, list[1].Images, 2)
	assert.Equal(t, "https://x/1.png", list[1].Images[0].ImageURL)

	urls, err := repo.ImageURLs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"https://x/1.png", "https://x/2.png"}, urls)

	require.NoError(t, repo.Delete(ctx, first.ID))

	_, err = repo.Get(ctx, first.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	urls, err = repo.ImageURLs(ctx)
	require.NoError(t, err)
	assert.Empty(t, urls)

	require.ErrorIs(t, repo.Delete(ctx, first.ID), repository.ErrNotFound)
}

func TestDocuments_Upsert(t *testing.T) {
	ctx := context.Background()
	repo := repository.New(newDB(t)).Documents

	_, err := repo.Get(ctx, model.DocumentTypeCompanyProfile)
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.Upsert(ctx, &model.CompanyDocument{
		DocumentType: model.DocumentTypeCompanyProfile, FileURL: "https://x/a.pdf", OriginalFilename: "a.pdf",
	}))
	require.NoError(t, repo.Upsert(ctx, &model.CompanyDocument{
		DocumentType: model.DocumentTypeCompanyProfile, FileURL: "https://x/b.pptx", OriginalFilename: "b.pptx",
	}))

	doc, err := repo.Get(ctx, model.DocumentTypeCompanyProfile)
	require.NoError(t, err)
	assert.Equal(t, "https://x/b.pptx", doc.FileURL)
	assert.Equal(t, "b.pptx", doc.OriginalFilename)

	urls, err := repo.FileURLs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://x/b.pptx"}, urls)
}

func TestJobs(t *testing.T) {
	ctx := context.Background()
	repo := repository.New(newDB(t)).Jobs

	open := &model.JobPosting{Title: "Engineer", Description: "d", Qualifications: "q", IsActive: true}
	closed := &model.JobPosting{Title: "Closed", Description: "d", Qualifications: "q", IsActive: true}
	require.NoError(t, repo.Create(ctx, open))
	require.NoError(t, repo.Create(ctx, closed))

	closed.IsActive = false
	require.NoError(t, repo.Update(ctx, closed))

	active, err := repo.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Engineer", active[0].Title)

	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, repo.CreateApplicant(ctx, &model.JobApplicant{
		JobPostingID: open.ID, Name: "Ann", Email: "ann@example.com", ResumeURL: "https://x/cv.pdf",
	}))

	apps, err := repo.Applicants(ctx, open.ID)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "Ann", apps[0].Name)

	require.ErrorIs(t, repo.Update(ctx, &model.JobPosting{ID: "missing", Title: "x"}), repository.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, open.ID))

	urls, err := repo.ResumeURLs(ctx)
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestLeads(t *testing.T) {
	ctx := context.Background()
	repo := repository.New(newDB(t)).Leads

	require.NoError(t, repo.Create(ctx, &model.ContactSubmission{Name: "Bo", Email: "bo@example.com", Message: "hi"}))

	leads, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.NotEmpty(t, leads[0].ID)
}
