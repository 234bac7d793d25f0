package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type watcherFunc func(ctx context.Context, guildID snowflake.ID, messageID snowflake.ID) (bool, error)

func (f watcherFunc) OnDisplayMessageDeleted(ctx context.Context, guildID snowflake.ID, messageID snowflake.ID) (bool, error) {
	return f(ctx, guildID, messageID)
}

func TestHandleDisplayDeleted(t *testing.T) {
	var gotGuild, gotMessage snowflake.ID
	var hadDeadline bool
	w := watcherFunc(func(ctx context.Context, guildID snowflake.ID, messageID snowflake.ID) (bool, error) {
		_, hadDeadline = ctx.Deadline()
		gotGuild, gotMessage = guildID, messageID
		return true, nil
	})

	handleDisplayDeleted(w, 42, 900)

	assert.Equal(t, snowflake.ID(42), gotGuild)
	assert.Equal(t, snowflake.ID(900), gotMessage)
	assert.True(t, hadDeadline)
}

func TestHandleDisplayDeletedError(t *testing.T) {
	calls := 0
	w := watcherFunc(func(context.Context, snowflake.ID, snowflake.ID) (bool, error) {
		calls++
		return false, errors.New("store down")
	})

	assert.NotPanics(t, func() { handleDisplayDeleted(w, 1, 2) })
	assert.Equal(t, 1, calls)
}

func TestRunLoggedReturnsHandlerError(t *testing.T) {
	want := errors.New("boom")
	err := runLogged("cmd", "Command", "test", testUser(), nil, 5, func() error {
		return want
	})
	require.ErrorIs(t, err, want)
}

func TestRunLoggedSlow(t *testing.T) {
	if testing.Short() {
		t.Skip("slow")
	}
	guild := snowflake.ID(3)
	err := runLogged("component", "Component interaction", "slow", testUser(), &guild, 5, func() error {
		time.Sleep(SlowThreshold + 50*time.Millisecond)
		return nil
	})
	assert.NoError(t, err)
}

func testUser() discord.User {
	return discord.User{ID: 7, Username: "tester"}
}
