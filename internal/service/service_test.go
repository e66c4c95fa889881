package service_test

import (
	"context"
	"testing"
	"time"

	"tugas-api/internal/apperrors"
	"tugas-api/internal/models"
	"tugas-api/internal/service"
	"tugas-api/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func newTaskService() *service.Service[models.Task] {
	return service.New[models.Task]("tasks", testutil.NewMemStore(), "created_by")
}

func seedTask(t *testing.T, svc *service.Service[models.Task], summary, owner string, createdAt time.Time) *models.Task {
	t.Helper()
	task, err := svc.Save(context.Background(), &models.Task{
		Summary:   summary,
		Status:    models.StatusToDo,
		CreatedAt: createdAt,
		CreatedBy: owner,
	})
	require.NoError(t, err)
	require.NotEmpty(t, task.ID)
	return task
}

func TestSaveAndGetByID(t *testing.T) {
	svc := newTaskService()
	createdAt := time.Now()

	saved := seedTask(t, svc, "belanja mingguan", "u1", createdAt)
	assert.Equal(t, "belanja mingguan", saved.Summary)
	assert.Equal(t, models.StatusToDo, saved.Status)
	// Presisi timestamp store adalah milidetik.
	assert.WithinDuration(t, createdAt, saved.CreatedAt, time.Second)

	got, err := svc.GetByID(context.Background(), saved.ID, service.Options{})
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, saved.Summary, got.Summary)
}

func TestGetByIDNotFound(t *testing.T) {
	svc := newTaskService()

	got, err := svc.GetByID(context.Background(), "507f1f77bcf86cd799439011", service.Options{})
	assert.Nil(t, got)
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
	assert.Equal(t, "tasks/warning/not-found", appErr.Type)

	// ignoreError: record tidak ada menjadi (nil, nil), bukan error.
	got, err = svc.GetByID(context.Background(), "507f1f77bcf86cd799439011", service.Options{IgnoreError: true})
	assert.Nil(t, got)
	assert.NoError(t, err)
}

func TestGetAllPagination(t *testing.T) {
	svc := newTaskService()
	now := time.Now()
	seedTask(t, svc, "tugas satu", "u1", now.Add(-2*time.Hour))
	seedTask(t, svc, "tugas dua", "u1", now.Add(-1*time.Hour))
	seedTask(t, svc, "tugas tiga", "u1", now)

	result, err := svc.GetAll(context.Background(), service.ListOptions{Page: 2, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.TotalItems)
	assert.Equal(t, int64(3), result.TotalPages)
	assert.Equal(t, 1, result.RecordsPerPage)
	// Default sort created_at desc, halaman kedua berisi record tengah.
	require.Len(t, result.Results, 1)
	assert.Equal(t, "tugas dua", result.Results[0].Summary)
}

func TestGetAllSearch(t *testing.T) {
	svc := newTaskService()
	now := time.Now()
	seedTask(t, svc, "beli susu", "u1", now.Add(-time.Hour))
	seedTask(t, svc, "cuci mobil", "u1", now)

	result, err := svc.GetAll(context.Background(), service.ListOptions{
		Search:   "SUSU",
		SearchIn: []string{"summary"},
	})
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "beli susu", result.Results[0].Summary)
}

func TestSoftDeleteVisibility(t *testing.T) {
	svc := newTaskService()
	commons := &service.Commons{UserID: "u1", UserRole: models.RoleUser}
	task := seedTask(t, svc, "tugas sementara", "u1", time.Now())

	deleted, err := svc.SoftDeleteByID(context.Background(), task.ID, service.Options{Commons: commons})
	require.NoError(t, err)
	require.NotNil(t, deleted.DeletedAt)
	assert.Equal(t, "u1", deleted.DeletedBy)

	// Fetch biasa tidak melihat record yang soft-deleted.
	_, err = svc.GetByID(context.Background(), task.ID, service.Options{Commons: commons})
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)

	// includeDeleted membuka record itu kembali.
	got, err := svc.GetByID(context.Background(), task.ID, service.Options{Commons: commons, IncludeDeleted: true})
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)

	// Soft delete kedua berakhir NotFound, bukan menimpa deleted_at.
	_, err = svc.SoftDeleteByID(context.Background(), task.ID, service.Options{Commons: commons})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
}

func TestUpdateByIDNotModified(t *testing.T) {
	svc := newTaskService()
	task := seedTask(t, svc, "tugas tetap", "u1", time.Now())

	_, err := svc.UpdateByID(context.Background(), task.ID, bson.M{"summary": "tugas tetap"}, service.UpdateOptions{})
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 304, appErr.Status)
	assert.Equal(t, "tasks/warning/not-modified", appErr.Type)

	// ignoreError: payload identik menjadi no-op (nil, nil).
	got, err := svc.UpdateByID(context.Background(), task.ID, bson.M{"summary": "tugas tetap"}, service.UpdateOptions{IgnoreError: true})
	assert.Nil(t, got)
	assert.NoError(t, err)

	// Field audit tidak dihitung sebagai perubahan.
	_, err = svc.UpdateByID(context.Background(), task.ID, bson.M{
		"summary":    "tugas tetap",
		"updated_at": time.Now(),
		"updated_by": "u1",
	}, service.UpdateOptions{})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 304, appErr.Status)
}

func TestUpdateByIDChangesRecord(t *testing.T) {
	svc := newTaskService()
	task := seedTask(t, svc, "tugas lama", "u1", time.Now())

	got, err := svc.UpdateByID(context.Background(), task.ID, bson.M{"summary": "tugas baru"}, service.UpdateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "tugas baru", got.Summary)
	// Field lain tidak ikut berubah.
	assert.Equal(t, models.StatusToDo, got.Status)
	assert.Equal(t, "u1", got.CreatedBy)
}

func TestSaveUniqueConflict(t *testing.T) {
	svc := newTaskService()

	first, err := svc.SaveUnique(context.Background(), &models.Task{
		Summary:   "unik",
		Status:    models.StatusToDo,
		CreatedAt: time.Now(),
		CreatedBy: "u1",
	}, []string{"summary"}, false)
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	_, err = svc.SaveUnique(context.Background(), &models.Task{
		Summary:   "unik",
		Status:    models.StatusToDo,
		CreatedAt: time.Now(),
		CreatedBy: "u1",
	}, []string{"summary"}, false)
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Status)
	assert.Equal(t, "tasks/warning/conflict", appErr.Type)

	// ignoreError: duplikat menjadi (nil, nil).
	got, err := svc.SaveUnique(context.Background(), &models.Task{
		Summary:   "unik",
		Status:    models.StatusToDo,
		CreatedAt: time.Now(),
		CreatedBy: "u1",
	}, []string{"summary"}, true)
	assert.Nil(t, got)
	assert.NoError(t, err)
}

func TestUpdateUniquenessExcludesSelf(t *testing.T) {
	svc := newTaskService()
	first := seedTask(t, svc, "judul pertama", "u1", time.Now())
	seedTask(t, svc, "judul kedua", "u1", time.Now())

	// Nilai unik milik record sendiri tidak dianggap conflict.
	got, err := svc.UpdateByID(context.Background(), first.ID, bson.M{"summary": "judul pertama"}, service.UpdateOptions{
		UniqueFields:      []string{"summary"},
		SkipModifiedCheck: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "judul pertama", got.Summary)

	// Nilai unik milik record lain tetap conflict.
	_, err = svc.UpdateByID(context.Background(), first.ID, bson.M{"summary": "judul kedua"}, service.UpdateOptions{
		UniqueFields: []string{"summary"},
	})
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Status)
}

func TestOwnershipScoping(t *testing.T) {
	svc := newTaskService()
	owned := seedTask(t, svc, "milik u1", "u1", time.Now())
	seedTask(t, svc, "milik u2", "u2", time.Now())

	userA := &service.Commons{UserID: "u1", UserRole: models.RoleUser}
	userB := &service.Commons{UserID: "u2", UserRole: models.RoleUser}
	admin := &service.Commons{UserID: "a1", UserRole: models.RoleAdmin}

	// Pemilik melihat record-nya, user lain tidak.
	_, err := svc.GetByID(context.Background(), owned.ID, service.Options{Commons: userA})
	require.NoError(t, err)
	_, err = svc.GetByID(context.Background(), owned.ID, service.Options{Commons: userB})
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)

	// Admin tidak dibatasi ownership.
	_, err = svc.GetByID(context.Background(), owned.ID, service.Options{Commons: admin})
	require.NoError(t, err)

	// Listing ikut terfilter per pemilik.
	result, err := svc.GetAll(context.Background(), service.ListOptions{Commons: userA})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.TotalItems)

	result, err = svc.GetAll(context.Background(), service.ListOptions{Commons: admin})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.TotalItems)

	// Update record orang lain juga NotFound, bukan Forbidden.
	_, err = svc.UpdateByID(context.Background(), owned.ID, bson.M{"summary": "disusupi"}, service.UpdateOptions{Commons: userB})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
}

func TestHardDeleteByID(t *testing.T) {
	svc := newTaskService()
	task := seedTask(t, svc, "tugas permanen", "u1", time.Now())

	deleted, err := svc.HardDeleteByID(context.Background(), task.ID, service.Options{})
	require.NoError(t, err)
	assert.True(t, deleted)

	// Setelah hard delete record hilang total, termasuk untuk includeDeleted.
	_, err = svc.GetByID(context.Background(), task.ID, service.Options{IncludeDeleted: true})
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)

	_, err = svc.HardDeleteByID(context.Background(), task.ID, service.Options{})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
}

func TestSaveMany(t *testing.T) {
	svc := newTaskService()
	now := time.Now()

	results, err := svc.SaveMany(context.Background(), []*models.Task{
		{Summary: "batch satu", Status: models.StatusToDo, CreatedAt: now, CreatedBy: "u1"},
		{Summary: "batch dua", Status: models.StatusToDo, CreatedAt: now, CreatedBy: "u1"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "batch satu", results[0].Summary)
	assert.Equal(t, "batch dua", results[1].Summary)
	assert.NotEqual(t, results[0].ID, results[1].ID)
}
