package admin

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

func newPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return mock
}

func TestWipe_OK(t *testing.T) {
	mock := newPool(t)
	defer mock.Close()
	r := NewWipeRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(deleteRatings)).WillReturnResult(pgxmock.NewResult("DELETE", 4))
	mock.ExpectExec(regexp.QuoteMeta(deleteApplications)).WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectExec(regexp.QuoteMeta(deleteChatMessages)).WillReturnResult(pgxmock.NewResult("DELETE", 10))
	mock.ExpectExec(regexp.QuoteMeta(deleteNotifications)).WillReturnResult(pgxmock.NewResult("DELETE", 7))
	mock.ExpectExec(regexp.QuoteMeta(deleteJobs)).WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(regexp.QuoteMeta(resetUsers)).WillReturnResult(pgxmock.NewResult("UPDATE", 5))
	mock.ExpectCommit()

	res, err := r.Wipe(context.Background())
	require.NoError(t, err)
	require.Equal(t, WipeResult{
		Ratings:       4,
		Applications:  3,
		ChatMessages:  10,
		Notifications: 7,
		Jobs:          2,
		UsersReset:    5,
	}, res)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWipe_RollbackOnError(t *testing.T) {
	mock := newPool(t)
	defer mock.Close()
	r := NewWipeRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(deleteRatings)).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta(deleteApplications)).WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	res, err := r.Wipe(context.Background())
	require.Error(t, err)
	require.Equal(t, WipeResult{}, res)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWipe_BeginFails(t *testing.T) {
	mock := newPool(t)
	defer mock.Close()
	r := NewWipeRepository(mock)

	mock.ExpectBegin().WillReturnError(errors.New("no conn"))

	_, err := r.Wipe(context.Background())
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWipe_CommitFails(t *testing.T) {
	mock := newPool(t)
	defer mock.Close()
	r := NewWipeRepository(mock)

	mock.ExpectBegin()
	for _, q := range []string{deleteRatings, deleteApplications, deleteChatMessages, deleteNotifications, deleteJobs} {
		mock.ExpectExec(regexp.QuoteMeta(q)).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	}
	mock.ExpectExec(regexp.QuoteMeta(resetUsers)).WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	res, err := r.Wipe(context.Background())
	require.Error(t, err)
	require.Equal(t, WipeResult{}, res)
	require.NoError(t, mock.ExpectationsWereMet())
}
