package services

import (
	"context"
	"testing"

	"kandu_backend/internal/models"
	"kandu_backend/internal/services/dto"
	"kandu_backend/pkg/apperrors"
	"kandu_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWipe_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	employer := helpers.CreateUser(t, env.db, models.UserTypeEmployer)

	_, err := env.services.AdminService.Wipe(context.Background(), helpers.Caller(employer))
	assert.ErrorIs(t, err, apperrors.ErrAdminOnly)
}

func TestWipe_RemovesJobsAndResetsReputation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	root := helpers.CreateUser(t, env.db, models.UserTypeAdmin)
	employer := helpers.CreateUser(t, env.db, models.UserTypeEmployer)
	worker := helpers.CreateUser(t, env.db, models.UserTypeWorker)

	job := helpers.CreateJob(t, env.db, employer.ID, func(j *models.Job) {
		j.Status = models.JobStatusInProgress
		j.WorkerID = &worker.ID
	})
	_, err := env.services.LifecycleService.EmployerComplete(ctx, env.db, helpers.Caller(employer), job.ID, &dto.CompleteJobRequest{Rating: 5})
	require.NoError(t, err)
	_, err = env.services.UserService.AddPortfolioImage(env.db, helpers.Caller(worker), "/files/wall.png")
	require.NoError(t, err)
	helpers.CreateJob(t, env.db, employer.ID)

	res, err := env.services.AdminService.Wipe(ctx, helpers.Caller(root))
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Jobs)
	assert.Equal(t, int64(1), res.Ratings)
	assert.Equal(t, int64(1), res.Notifications)
	assert.Equal(t, int64(3), res.UsersReset)

	stats, err := env.services.AdminService.Stats(env.db, helpers.Caller(root))
	require.NoError(t, err)
	assert.Empty(t, stats.JobsByStatus)
	assert.Equal(t, int64(1), stats.UsersByType[models.UserTypeWorker])

	u, err := testUsers.FindByID(env.db, worker.ID)
	require.NoError(t, err)
	assert.Zero(t, u.XP)
	assert.Zero(t, u.Rating)
	assert.Empty(t, u.PortfolioImages)
}

func TestBlacklist_BlocksLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	root := helpers.CreateUser(t, env.db, models.UserTypeAdmin)
	worker := helpers.CreateUser(t, env.db, models.UserTypeWorker)

	entry, err := env.services.AdminService.AddToBlacklist(ctx, env.db, helpers.Caller(root), &dto.BlacklistRequest{UserID: worker.ID, Reason: "no-shows"})
	require.NoError(t, err)

	_, err = env.services.AdminService.AddToBlacklist(ctx, env.db, helpers.Caller(root), &dto.BlacklistRequest{UserID: worker.ID})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeAlreadyExists))

	_, err = env.services.AuthService.Login(ctx, env.db, &dto.LoginRequest{Email: worker.Email, Password: helpers.TestPassword})
	assert.ErrorIs(t, err, apperrors.ErrUserBanned)

	list, err := env.services.AdminService.ListBlacklist(env.db, helpers.Caller(root))
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, env.services.AdminService.RemoveFromBlacklist(ctx, env.db, helpers.Caller(root), entry.ID))

	_, err = env.services.AuthService.Login(ctx, env.db, &dto.LoginRequest{Email: worker.Email, Password: helpers.TestPassword})
	assert.NoError(t, err)
}

func TestAdminListUsers(t *testing.T) {
	env := newTestEnv(t)
	root := helpers.CreateUser(t, env.db, models.UserTypeAdmin)
	helpers.CreateUser(t, env.db, models.UserTypeWorker)
	helpers.CreateUser(t, env.db, models.UserTypeWorker)
	helpers.CreateUser(t, env.db, models.UserTypeEmployer)

	res, err := env.services.AdminService.ListUsers(env.db, helpers.Caller(root), &dto.AdminUserQuery{UserType: "worker"}, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)
	assert.Len(t, res.Users, 1)

	_, err = env.services.AdminService.ListUsers(env.db, helpers.Caller(root), &dto.AdminUserQuery{Sort: "password_hash"}, 1, 10)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.services.AdminService.EnsureAdmin(ctx, env.db, "root@kandu.test", "root-password"))
	require.NoError(t, env.services.AdminService.EnsureAdmin(ctx, env.db, "root@kandu.test", "root-password"))

	res, err := env.services.AuthService.Login(ctx, env.db, &dto.LoginRequest{Email: "root@kandu.test", Password: "root-password"})
	require.NoError(t, err)
	assert.Equal(t, models.UserTypeAdmin, res.User.UserType)
}
