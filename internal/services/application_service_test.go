package services

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"jobportal_backend/internal/auth"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/internal/storage"
	"jobportal_backend/internal/testutil"
	"jobportal_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createApplication(t *testing.T, db *gorm.DB, applicant *models.User, job *models.Job, status models.ApplicationStatus) *models.Application {
	t.Helper()
	app := &models.Application{
		ApplicantID:       applicant.ID,
		JobID:             job.ID,
		RecruiterID:       job.CreatedBy,
		Status:            status,
		DateOfApplication: time.Now(),
	}
	require.NoError(t, db.Create(app).Error)
	return app
}

func TestApplicationService_Apply(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newTestContainer(t)
	ctx := context.Background()

	recruiter := testutil.CreateRecruiter(t, db)
	applicant := testutil.CreateApplicant(t, db)
	job := testutil.CreateJob(t, db, recruiter.ID)

	app, err := svc.ApplicationService.Apply(ctx, db, identityOf(applicant), &dto.ApplyRequest{JobID: job.ID})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusPending, app.Status)
	assert.Equal(t, recruiter.ID, app.RecruiterID)
	assert.Equal(t, applicant.ID, app.ApplicantID)
	assert.False(t, app.DateOfApplication.IsZero())

	_, err = svc.ApplicationService.Apply(ctx, db, identityOf(applicant), &dto.ApplyRequest{JobID: job.ID})
	assertCode(t, err, apperrors.CodeConflict)

	var count int64
	require.NoError(t, db.Model(&models.Application{}).Where("applicant_id = ? AND job_id = ?", applicant.ID, job.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestApplicationService_ConcurrentApply(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newTestContainer(t)
	ctx := context.Background()

	recruiter := testutil.CreateRecruiter(t, db)
	applicant := testutil.CreateApplicant(t, db)
	job := testutil.CreateJob(t, db, recruiter.ID)

	const attempts = 16
	var (
		wg       sync.WaitGroup
		created  int32
		conflict int32
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ApplicationService.Apply(ctx, db, identityOf(applicant), &dto.ApplyRequest{JobID: job.ID})
			switch {
			case err == nil:
				atomic.AddInt32(&created, 1)
			case apperrors.HasCode(err, apperrors.CodeConflict):
				atomic.AddInt32(&conflict, 1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, created)
	assert.EqualValues(t, attempts-1, conflict)

	var count int64
	require.NoError(t, db.Model(&models.Application{}).Where("applicant_id = ? AND job_id = ?", applicant.ID, job.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

// staleLookupRepo не видит существующий отклик, как при гонке между проверкой и вставкой
type staleLookupRepo struct {
	repositories.ApplicationRepository
}

func (staleLookupRepo) FindByApplicantAndJob(*gorm.DB, string, string) (*models.Application, error) {
	return nil, repositories.ErrApplicationNotFound
}

func TestApplicationService_ApplyDuplicateCaughtByUniqueIndex(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	recruiter := testutil.CreateRecruiter(t, db)
	applicant := testutil.CreateApplicant(t, db)
	job := testutil.CreateJob(t, db, recruiter.ID)
	createApplication(t, db, applicant, job, models.ApplicationStatusPending)

	store, err := storage.NewLocalStorage(storage.Config{BasePath: t.TempDir()})
	require.NoError(t, err)
	svc := NewApplicationService(
		staleLookupRepo{repositories.NewApplicationRepository()},
		repositories.NewJobRepository(),
		repositories.NewUserRepository(),
		NewUploadService(store, nil),
	)

	_, err = svc.Apply(ctx, db, identityOf(applicant), &dto.ApplyRequest{JobID: job.ID})
	assertCode(t, err, apperrors.CodeConflict)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyApplied)
}

func TestApplicationService_ApplyRejections(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newTestContainer(t)
	ctx := context.Background()

	recruiter := testutil.CreateRecruiter(t, db)
	applicant := testutil.CreateApplicant(t, db)
	job := testutil.CreateJob(t, db, recruiter.ID)

	_, err := svc.ApplicationService.Apply(ctx, db, identityOf(recruiter), &dto.ApplyRequest{JobID: job.ID})
	assertCode(t, err, apperrors.CodeForbidden)

	_, err = svc.ApplicationService.Apply(ctx, db, auth.Identity{}, &dto.ApplyRequest{JobID: job.ID})
	assertCode(t, err, apperrors.CodeForbidden)

	_, err = svc.ApplicationService.Apply(ctx, db, identityOf(applicant), &dto.ApplyRequest{JobID: "missing"})
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestApplicationService_ApplyWithResume(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newTestContainer(t)
	ctx := context.Background()

	recruiter := testutil.CreateRecruiter(t, db)
	stranger := testutil.CreateRecruiter(t, db)
	applicant := testutil.CreateApplicant(t, db)
	job := testutil.CreateJob(t, db, recruiter.ID)

	_, err := svc.ApplicationService.Apply(ctx, db, identityOf(applicant), &dto.ApplyRequest{
		JobID:  job.ID,
		Resume: testutil.NewFileHeader(t, "resume", "cv.txt", []byte("plain text")),
	})
	assertCode(t, err, apperrors.CodeValidationFailed)

	_, err = svc.ApplicationService.Apply(ctx, db, identityOf(applicant), &dto.ApplyRequest{
		JobID:  job.ID,
		Resume: testutil.NewFileHeader(t, "resume", "cv.pdf", []byte("not really a pdf")),
	})
	assertCode(t, err, apperrors.CodeValidationFailed)

	app, err := svc.ApplicationService.Apply(ctx, db, identityOf(applicant), &dto.ApplyRequest{
		JobID:  job.ID,
		Resume: testutil.NewFileHeader(t, "resume", "CV.PDF", testutil.PDFContent),
	})
	require.NoError(t, err)
	assert.Regexp(t, `^resumes/[0-9a-f-]{36}\.pdf$`, app.Resume)

	for _, reader := range []*models.User{applicant, recruiter} {
		rc, name, err := svc.ApplicationService.OpenResume(ctx, db, app.ID, identityOf(reader))
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, testutil.PDFContent, body)
		assert.Contains(t, name, ".pdf")
	}

	_, _, err = svc.ApplicationService.OpenResume(ctx, db, app.ID, identityOf(stranger))
	assertCode(t, err, apperrors.CodeForbidden)
}

func TestApplicationService_UpdateStatusUsesSnapshotOwner(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newTestContainer(t)
	ctx := context.Background()

	r1 := testutil.CreateRecruiter(t, db)
	r2 := testutil.CreateRecruiter(t, db)
	applicant := testutil.CreateApplicant(t, db)
	job := testutil.CreateJob(t, db, r1.ID)
	app := createApplication(t, db, applicant, job, models.ApplicationStatusPending)

	// владелец вакансии меняется в обход сервиса: решает по-прежнему r1
	require.NoError(t, db.Model(&models.Job{}).Where("id = ?", job.ID).Update("created_by", r2.ID).Error)

	_, err := svc.ApplicationService.UpdateStatus(ctx, db, app.ID, identityOf(r2), "accepted")
	assertCode(t, err, apperrors.CodeForbidden)

	_, err = svc.ApplicationService.UpdateStatus(ctx, db, app.ID, identityOf(applicant), "accepted")
	assertCode(t, err, apperrors.CodeForbidden)

	updated, err := svc.ApplicationService.UpdateStatus(ctx, db, app.ID, identityOf(r1), "accepted")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusAccepted, updated.Status)
	require.NotNil(t, updated.DateOfJoining)
}

func TestApplicationService_UpdateStatusRules(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newTestContainer(t)
	ctx := context.Background()

	recruiter := testutil.CreateRecruiter(t, db)
	owner := identityOf(recruiter)
	job := testutil.CreateJob(t, db, recruiter.ID)
	app := createApplication(t, db, testutil.CreateApplicant(t, db), job, models.ApplicationStatusPending)

	_, err := svc.ApplicationService.UpdateStatus(ctx, db, "missing", owner, "accepted")
	assertCode(t, err, apperrors.CodeNotFound)

	_, err = svc.ApplicationService.UpdateStatus(ctx, db, app.ID, owner, "pending")
	assertCode(t, err, apperrors.CodeInvalidStatus)

	updated, err := svc.ApplicationService.UpdateStatus(ctx, db, app.ID, owner, "rejected")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusRejected, updated.Status)
	assert.Nil(t, updated.DateOfJoining)

	// тот же статус - no-op
	_, err = svc.ApplicationService.UpdateStatus(ctx, db, app.ID, owner, "rejected")
	assert.NoError(t, err)

	_, err = svc.ApplicationService.UpdateStatus(ctx, db, app.ID, owner, "accepted")
	assertCode(t, err, apperrors.CodeInvalidStatus)
}

func TestApplicationService_Listings(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newTestContainer(t)
	ctx := context.Background()

	recruiter := testutil.CreateRecruiter(t, db)
	applicant := testutil.CreateApplicant(t, db)
	for i := 0; i < 12; i++ {
		job := testutil.CreateJob(t, db, recruiter.ID)
		createApplication(t, db, testutil.CreateApplicant(t, db), job, models.ApplicationStatusPending)
	}
	job := testutil.CreateJob(t, db, recruiter.ID, func(j *models.Job) { j.Position = "Data Engineer" })
	createApplication(t, db, applicant, job, models.ApplicationStatusPending)

	page, err := svc.ApplicationService.ListForRecruiter(ctx, db, identityOf(recruiter), &dto.ListApplicationsRequest{Page: 0, Limit: -1})
	require.NoError(t, err)
	assert.EqualValues(t, 13, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.PageLimit)
	assert.Len(t, page.Applications, 10)
	assert.Equal(t, 2, page.PageCount)

	page, err = svc.ApplicationService.ListForRecruiter(ctx, db, identityOf(recruiter), &dto.ListApplicationsRequest{Page: 1, Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, 100, page.PageLimit)
	assert.Len(t, page.Applications, 13)

	_, err = svc.ApplicationService.ListForRecruiter(ctx, db, identityOf(applicant), &dto.ListApplicationsRequest{})
	assertCode(t, err, apperrors.CodeForbidden)

	mine, err := svc.ApplicationService.ListMine(ctx, db, identityOf(applicant))
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	withJobs, err := svc.ApplicationService.ListMineWithJobs(ctx, db, identityOf(applicant))
	require.NoError(t, err)
	require.Len(t, withJobs, 1)
	assert.Equal(t, "Data Engineer", withJobs[0].Position)

	_, err = svc.ApplicationService.ListMine(ctx, db, identityOf(recruiter))
	assertCode(t, err, apperrors.CodeForbidden)
}

func TestApplicationService_IsApplicantOrRecruiter(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newTestContainer(t)
	ctx := context.Background()

	recruiter := testutil.CreateRecruiter(t, db)
	applicant := testutil.CreateApplicant(t, db)
	job := testutil.CreateJob(t, db, recruiter.ID)
	app := createApplication(t, db, applicant, job, models.ApplicationStatusPending)

	for subject, expected := range map[string]bool{applicant.ID: true, recruiter.ID: true, "someone": false, "": false} {
		ok, err := svc.ApplicationService.IsApplicantOrRecruiter(ctx, db, app.ID, subject)
		require.NoError(t, err)
		assert.Equal(t, expected, ok, subject)
	}

	_, err := svc.ApplicationService.IsApplicantOrRecruiter(ctx, db, "missing", applicant.ID)
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestApplicationService_OpenResumeFollowsParticipants(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newTestContainer(t)
	ctx := context.Background()

	recruiter := testutil.CreateRecruiter(t, db)
	applicant := testutil.CreateApplicant(t, db)
	otherRecruiter := testutil.CreateRecruiter(t, db)
	admin := testutil.CreateAdmin(t, db)
	job := testutil.CreateJob(t, db, recruiter.ID)
	app := createApplication(t, db, applicant, job, models.ApplicationStatusPending)

	for _, u := range []*models.User{applicant, recruiter, otherRecruiter, admin} {
		participant, err := svc.ApplicationService.IsApplicantOrRecruiter(ctx, db, app.ID, u.ID)
		require.NoError(t, err)

		_, _, err = svc.ApplicationService.OpenResume(ctx, db, app.ID, identityOf(u))
		if participant {
			// участник проходит проверку доступа, но файла у отклика нет
			assert.ErrorIs(t, err, apperrors.ErrResumeNotFound, u.Username)
		} else {
			assertCode(t, err, apperrors.CodeForbidden)
		}
	}

	_, _, err := svc.ApplicationService.OpenResume(ctx, db, "missing", identityOf(applicant))
	assertCode(t, err, apperrors.CodeNotFound)

	_, _, err = svc.ApplicationService.OpenResume(ctx, db, app.ID, auth.Identity{})
	assertCode(t, err, apperrors.CodeForbidden)
}
