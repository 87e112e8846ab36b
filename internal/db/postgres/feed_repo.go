package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"Yatube/internal/core/pagination"
	"Yatube/internal/core/posts"
)

// FeedPage returns one page of the feed selected by scope.
// Count and slice run inside a single read-only REPEATABLE READ transaction,
// so a concurrent insert or delete cannot skew the page against its total.
func (r *postgresPostRepo) FeedPage(
	ctx context.Context,
	scope posts.FeedScope,
	pageSize int,
	token string,
) (*pagination.Page[*posts.PostView], error) {
	where, args, err := feedFilter(scope)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelRepeatableRead,
		ReadOnly:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && rollbackErr != sql.ErrTxDone {
			slog.Warn("[FEED] failed to rollback transaction", "error", rollbackErr)
		}
	}()

	page, err := pagination.Paginate[*posts.PostView](ctx, &feedCollection{
		tx:    tx,
		where: where,
		args:  args,
	}, pageSize, token)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return page, nil
}
