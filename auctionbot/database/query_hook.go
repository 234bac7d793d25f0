package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/disgoorg/auction-bot/auctionbot/logger"
)

// queryLogger reports every bun query through the shared db log format.
type queryLogger struct{}

var _ bun.QueryHook = queryLogger{}

func (queryLogger) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (queryLogger) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	err := event.Err
	// a missing row is an expected lookup result
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
	}
	logger.LogQuery(event.Query, time.Since(event.StartTime), err)
}
