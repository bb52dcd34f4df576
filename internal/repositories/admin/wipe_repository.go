package admin

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// WipeResult - сколько строк удалено/сброшено в каждой таблице
type WipeResult struct {
	Ratings       int64 `json:"ratings"`
	Applications  int64 `json:"applications"`
	ChatMessages  int64 `json:"chat_messages"`
	Notifications int64 `json:"notifications"`
	Jobs          int64 `json:"jobs"`
	UsersReset    int64 `json:"users_reset"`
}

type WipeRepository interface {
	// Wipe удаляет все заказы и производные записи и обнуляет репутацию
	// и портфолио пользователей. Либо всё, либо ничего.
	Wipe(ctx context.Context) (WipeResult, error)
}

type WipeRepositoryImpl struct {
	pool PgxPool
}

func NewWipeRepository(pool PgxPool) WipeRepository {
	return &WipeRepositoryImpl{pool: pool}
}

const (
	deleteRatings       = `DELETE FROM ratings`
	deleteApplications  = `DELETE FROM applications`
	deleteChatMessages  = `DELETE FROM chat_messages`
	deleteNotifications = `DELETE FROM notifications`
	deleteJobs          = `DELETE FROM jobs`
	resetUsers          = `UPDATE users SET rating = 0, xp = 0, portfolio_images = '[]', documents = '[]', updated_at = NOW()`
)

func (r *WipeRepositoryImpl) Wipe(ctx context.Context) (res WipeResult, err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return WipeResult{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
			res = WipeResult{}
		}
	}()

	// зависимые таблицы раньше jobs
	steps := []struct {
		sql string
		dst *int64
	}{
		{deleteRatings, &res.Ratings},
		{deleteApplications, &res.Applications},
		{deleteChatMessages, &res.ChatMessages},
		{deleteNotifications, &res.Notifications},
		{deleteJobs, &res.Jobs},
		{resetUsers, &res.UsersReset},
	}
	for _, step := range steps {
		tag, execErr := tx.Exec(ctx, step.sql)
		if execErr != nil {
			err = fmt.Errorf("wipe %q: %w", step.sql, execErr)
			return WipeResult{}, err
		}
		*step.dst = tag.RowsAffected()
	}
	return res, nil
}
