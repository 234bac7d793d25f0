package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/disgoorg/auction-bot/auctionbot/economy/auction"
)

type fakeResult struct {
	affected int64
	err      error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.affected, r.err }

func TestHandleErrorMapsNoRows(t *testing.T) {
	br := NewBaseRepository(nil)

	assert.NoError(t, br.HandleError("get", "auction", 1, nil))

	err := br.HandleError("get", "auction", 1, fmt.Errorf("scan: %w", sql.ErrNoRows))
	assert.ErrorIs(t, err, auction.ErrNotFound)

	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
	assert.Equal(t, "auction", nf.Entity)

	cause := errors.New("connection reset")
	err = br.HandleError("update", "auction", 1, cause)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, auction.ErrNotFound)
}

func TestRequireAffected(t *testing.T) {
	assert.NoError(t, requireAffected(fakeResult{affected: 1}, "auction", 1))
	assert.ErrorIs(t, requireAffected(fakeResult{affected: 0}, "auction", 1), auction.ErrNotFound)
	assert.Error(t, requireAffected(fakeResult{err: errors.New("boom")}, "auction", 1))
}
