package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHandlerFormatsAuctionRecords(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, slog.LevelDebug))

	log.Info("Auction closed",
		slog.String("type", "auction"),
		slog.String("status", "sold"),
		slog.Int64("auction_id", 7),
	)

	out := buf.String()
	assert.Contains(t, out, "[Auctions]")
	assert.Contains(t, out, "[AUC]")
	assert.Contains(t, out, "Auction closed [Status: sold]")
	assert.Contains(t, out, "auction_id=7")
	assert.NotContains(t, out, "type=auction")
}

func TestHandlerAppendsErrorDetails(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, slog.LevelDebug))

	log.Error("Refund failed", slog.String("type", "error"), slog.Any("error", errors.New("ledger offline")))

	out := buf.String()
	assert.Contains(t, out, "[ERR]")
	assert.Contains(t, out, "ledger offline")
	assert.Contains(t, out, "logger_test.go")
}

func TestHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, slog.LevelWarn))

	log.Info("quiet")
	log.Debug("quieter")
	assert.Empty(t, buf.String())

	log.Warn("loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestHandlerSkipsGatewayNoise(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, slog.LevelDebug))

	log.Debug("sending heartbeat")
	log.Debug("new request")
	assert.Empty(t, buf.String())
}

func TestHandlerWithBoundAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, slog.LevelDebug)).With(slog.String("type", "db"), slog.String("guild_id", "42"))

	log.Info("Query executed")

	out := buf.String()
	assert.Contains(t, out, "[DB]")
	assert.Contains(t, out, "guild_id=42")
}

func TestNewFromConfig(t *testing.T) {
	var buf bytes.Buffer
	slog.New(NewFromConfig(&buf, "json", slog.LevelInfo, false)).Info("Auction created", slog.Int64("auction_id", 3))
	assert.Contains(t, buf.String(), `"msg":"Auction created"`)
	assert.Contains(t, buf.String(), `"auction_id":3`)

	_, ok := NewFromConfig(&buf, "text", slog.LevelInfo, false).(*CustomHandler)
	assert.True(t, ok)
}

func TestLogQuery(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	LogQuery("SELECT 1", time.Millisecond, nil)
	assert.Contains(t, buf.String(), `"msg":"Query executed"`)

	buf.Reset()
	LogQuery("SELECT 2", time.Millisecond, errors.New("conn reset"))
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.Contains(t, buf.String(), "conn reset")
}
