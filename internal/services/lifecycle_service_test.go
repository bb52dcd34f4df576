package services

import (
	"context"
	"testing"
	"time"

	"kandu_backend/internal/models"
	"kandu_backend/internal/services/dto"
	"kandu_backend/pkg/apperrors"
	"kandu_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobLifecycle_HappyPath(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	employer := helpers.CreateUser(t, env.db, models.UserTypeEmployer)
	worker := helpers.CreateUser(t, env.db, models.UserTypeWorker)
	job := helpers.CreateJob(t, env.db, employer.ID)

	app, err := env.services.ApplicationService.Apply(ctx, env.db, helpers.Caller(worker), job.ID, &dto.ApplyRequest{
		Message:         "Free next week",
		ApplicationType: models.ApplicationTypeApplication,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusPending, app.Status)

	accepted, err := env.services.ApplicationService.Accept(ctx, env.db, helpers.Caller(employer), app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusAccepted, accepted.Status)

	got, err := testJobs.FindByID(env.db, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusInProgress, got.Status)
	require.NotNil(t, got.WorkerID)
	assert.Equal(t, worker.ID, *got.WorkerID)
	assert.Equal(t, 500.0, got.Price)

	started, err := env.services.LifecycleService.Start(ctx, env.db, helpers.Caller(employer), job.ID)
	require.NoError(t, err)
	require.NotNil(t, started.ActualStartDate)
	firstStart := *started.ActualStartDate

	// повторный старт ничего не меняет
	env.clock = env.clock.Add(time.Hour)
	again, err := env.services.LifecycleService.Start(ctx, env.db, helpers.Caller(employer), job.ID)
	require.NoError(t, err)
	require.NotNil(t, again.ActualStartDate)
	assert.True(t, firstStart.Equal(*again.ActualStartDate))

	// досрочно: 500 * 0.1 = 50, * 5/5, * 1.2
	res, err := env.services.LifecycleService.EmployerComplete(ctx, env.db, helpers.Caller(employer), job.ID, &dto.CompleteJobRequest{
		Rating:    5,
		Comment:   "Tidy work",
		Qualities: []string{"punctual"},
	})
	require.NoError(t, err)
	assert.Equal(t, string(models.JobStatusCompletedByEmployer), res.Status)
	assert.Equal(t, worker.ID, res.RatedID)
	assert.Equal(t, 60, res.XPGained)
	assert.Equal(t, 5.0, res.NewRating)

	updatedWorker, err := testUsers.FindByID(env.db, worker.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, updatedWorker.XP)
	assert.Equal(t, 5.0, updatedWorker.Rating)

	res, err = env.services.LifecycleService.WorkerComplete(ctx, env.db, helpers.Caller(worker), job.ID, &dto.CompleteJobRequest{Rating: 4})
	require.NoError(t, err)
	assert.Equal(t, string(models.JobStatusCompleted), res.Status)
	assert.Equal(t, employer.ID, res.RatedID)
	assert.Equal(t, 48, res.XPGained)
	assert.Equal(t, 4.0, res.NewRating)

	got, err = testJobs.FindByID(env.db, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, got.Status)
	require.NotNil(t, got.ActualEndDate)

	ratings, err := env.services.RatingService.ListForJob(env.db, job.ID)
	require.NoError(t, err)
	assert.Len(t, ratings, 2)
}

func TestAccept_ProposalSetsContractPrice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	employer := helpers.CreateUser(t, env.db, models.UserTypeEmployer)
	worker := helpers.CreateUser(t, env.db, models.UserTypeWorker)
	job := helpers.CreateJob(t, env.db, employer.ID)

	price := 650.0
	app, err := env.services.ApplicationService.Apply(ctx, env.db, helpers.Caller(worker), job.ID, &dto.ApplyRequest{
		Message:         "Needs a skip, so a bit more",
		ApplicationType: models.ApplicationTypeProposal,
		ProposedPrice:   &price,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ProposalTerms{Price: 650}, app.Terms())

	_, err = env.services.ApplicationService.Accept(ctx, env.db, helpers.Caller(employer), app.ID)
	require.NoError(t, err)

	got, err := testJobs.FindByID(env.db, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 650.0, got.Price)
}

func TestStart_RequiresAssignedWorker(t *testing.T) {
	env := newTestEnv(t)
	employer := helpers.CreateUser(t, env.db, models.UserTypeEmployer)
	job := helpers.CreateJob(t, env.db, employer.ID)

	_, err := env.services.LifecycleService.Start(context.Background(), env.db, helpers.Caller(employer), job.ID)
	assert.ErrorIs(t, err, apperrors.ErrJobHasNoWorker)
}

func TestStart_OnlyOwner(t *testing.T) {
	env := newTestEnv(t)
	employer := helpers.CreateUser(t, env.db, models.UserTypeEmployer)
	other := helpers.CreateUser(t, env.db, models.UserTypeEmployer)
	job := helpers.CreateJob(t, env.db, employer.ID)

	_, err := env.services.LifecycleService.Start(context.Background(), env.db, helpers.Caller(other), job.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotJobOwner)
}

func TestEmployerComplete_RejectsOpenJob(t *testing.T) {
	env := newTestEnv(t)
	employer := helpers.CreateUser(t, env.db, models.UserTypeEmployer)
	job := helpers.CreateJob(t, env.db, employer.ID)

	_, err := env.services.LifecycleService.EmployerComplete(context.Background(), env.db, helpers.Caller(employer), job.ID,
		&dto.CompleteJobRequest{Rating: 5})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidStatus))

	got, err := testJobs.FindByID(env.db, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusOpen, got.Status, "failed transition must not change the job")
}

func TestWorkerComplete_BeforeEmployerIsRejected(t *testing.T) {
	env := newTestEnv(t)
	employer := helpers.CreateUser(t, env.db, models.UserTypeEmployer)
	worker := helpers.CreateUser(t, env.db, models.UserTypeWorker)
	job := helpers.CreateJob(t, env.db, employer.ID, func(j *models.Job) {
		j.Status = models.JobStatusInProgress
		j.WorkerID = &worker.ID
	})

	_, err := env.services.LifecycleService.WorkerComplete(context.Background(), env.db, helpers.Caller(worker), job.ID,
		&dto.CompleteJobRequest{Rating: 5})
	assert.ErrorIs(t, err, apperrors.ErrInvalidJobStatus)

	u, err := testUsers.FindByID(env.db, employer.ID)
	require.NoError(t, err)
	assert.Zero(t, u.XP, "no reputation is written on a refused transition")
}

func TestWorkerComplete_FromOpenIsRejected(t *testing.T) {
	env := newTestEnv(t)
	employer := helpers.CreateUser(t, env.db, models.UserTypeEmployer)
	worker := helpers.CreateUser(t, env.db, models.UserTypeWorker)
	job := helpers.CreateJob(t, env.db, employer.ID)

	_, err := env.services.LifecycleService.WorkerComplete(context.Background(), env.db, helpers.Caller(worker), job.ID,
		&dto.CompleteJobRequest{Rating: 5})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidStatus))

	var ratings int64
	require.NoError(t, env.db.Model(&models.Rating{}).Count(&ratings).Error)
	assert.Zero(t, ratings)

	got, err := testJobs.FindByID(env.db, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusOpen, got.Status)
	assert.Nil(t, got.WorkerID)
	assert.Nil(t, got.ActualEndDate)

	u, err := testUsers.FindByID(env.db, employer.ID)
	require.NoError(t, err)
	assert.Zero(t, u.XP)

	// заказчик не выступает работником даже на открытом заказе
	_, err = env.services.LifecycleService.WorkerComplete(context.Background(), env.db, helpers.Caller(employer), job.ID,
		&dto.CompleteJobRequest{Rating: 5})
	assert.ErrorIs(t, err, apperrors.ErrNotAssignedWorker)
}

func TestWorkerComplete_OnlyAssignedWorker(t *testing.T) {
	env := newTestEnv(t)
	employer := helpers.CreateUser(t, env.db, models.UserTypeEmployer)
	worker := helpers.CreateUser(t, env.db, models.UserTypeWorker)
	stranger := helpers.CreateUser(t, env.db, models.UserTypeWorker)
	job := helpers.CreateJob(t, env.db, employer.ID, func(j *models.Job) {
		j.Status = models.JobStatusCompletedByEmployer
		j.WorkerID = &worker.ID
	})

	_, err := env.services.LifecycleService.WorkerComplete(context.Background(), env.db, helpers.Caller(stranger), job.ID,
		&dto.CompleteJobRequest{Rating: 3})
	assert.ErrorIs(t, err, apperrors.ErrNotAssignedWorker)
}

func TestEmployerComplete_LateCompletionHasNoBonus(t *testing.T) {
	env := newTestEnv(t)
	employer := helpers.CreateUser(t, env.db, models.UserTypeEmployer)
	worker := helpers.CreateUser(t, env.db, models.UserTypeWorker)
	job := helpers.CreateJob(t, env.db, employer.ID, func(j *models.Job) {
		j.Status = models.JobStatusInProgress
		j.WorkerID = &worker.ID
		j.Price = 200
	})
	env.clock = job.EndDate.Add(time.Hour)

	res, err := env.services.LifecycleService.EmployerComplete(context.Background(), env.db, helpers.Caller(employer), job.ID,
		&dto.CompleteJobRequest{Rating: 3})
	require.NoError(t, err)
	// base 20, * 3/5
	assert.Equal(t, 12, res.XPGained)
	assert.Equal(t, 3.0, res.NewRating)
}

func TestLifecycle_NotificationsAndEmails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	employer := helpers.CreateUser(t, env.db, models.UserTypeEmployer)
	worker := helpers.CreateUser(t, env.db, models.UserTypeWorker)
	job := helpers.CreateJob(t, env.db, employer.ID)

	app, err := env.services.ApplicationService.Apply(ctx, env.db, helpers.Caller(worker), job.ID, &dto.ApplyRequest{
		Message:         "Hi",
		ApplicationType: models.ApplicationTypeApplication,
	})
	require.NoError(t, err)
	_, err = env.services.ApplicationService.Accept(ctx, env.db, helpers.Caller(employer), app.ID)
	require.NoError(t, err)

	list, err := env.services.NotificationService.List(env.db, helpers.Caller(employer), false, 1, 20)
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)
	assert.Equal(t, models.NotificationNewApplication, list.Notifications[0].Type)
	assert.Equal(t, job.ID, list.Notifications[0].RelatedID)

	list, err = env.services.NotificationService.List(env.db, helpers.Caller(worker), false, 1, 20)
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)
	assert.Equal(t, models.NotificationJobAccepted, list.Notifications[0].Type)

	sent := env.mail.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, []string{employer.Email}, sent[0].To)
	assert.Equal(t, []string{worker.Email}, sent[1].To)
	assert.Equal(t, "https://kandu.test/jobs/"+job.ID, sent[1].Data["ActionURL"])
}
