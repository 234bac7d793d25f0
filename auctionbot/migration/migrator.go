package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/uptrace/bun"

	"github.com/disgoorg/auction-bot/auctionbot/database/models"
	"github.com/disgoorg/auction-bot/auctionbot/economy/utils"
)

const defaultBatchSize = 500

// Migrator imports guild settings, auctioneers and running auctions from a
// legacy settings file.
type Migrator struct {
	db        *bun.DB
	path      string
	batchSize int
	timeout   time.Duration
	stats     MigrationStats
	now       func() time.Time
}

func NewMigrator(db *bun.DB, path string) *Migrator {
	return &Migrator{
		db:        db,
		path:      path,
		batchSize: defaultBatchSize,
		timeout:   5 * time.Minute,
		now:       time.Now,
	}
}

// SetBatchSize overrides the default batch size for inserts
func (m *Migrator) SetBatchSize(size int) {
	if size > 0 {
		m.batchSize = size
	}
}

func (m *Migrator) Stats() MigrationStats {
	return m.stats
}

// Plan is the converted content of a legacy settings file.
type Plan struct {
	Guilds      []*models.AuctionGuild
	Auctioneers []*models.Auctioneer
	Auctions    []*models.Auction
}

func LoadLegacyConfig(r io.Reader) (LegacyConfig, error) {
	var cfg LegacyConfig
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode legacy config: %w", err)
	}
	return cfg, nil
}

// Convert turns the legacy settings into rows. Records that cannot be
// converted are skipped and counted in the stats.
func (m *Migrator) Convert(cfg LegacyConfig) *Plan {
	m.resetStats()
	now := m.now().UTC()
	plan := &Plan{}

	for _, identifier := range sortedKeys(cfg) {
		scope := cfg[identifier]

		for _, rawGuild := range sortedKeys(scope.Guild) {
			g := scope.Guild[rawGuild]
			guildID, err := parseID(rawGuild)
			if err != nil {
				m.skip("auction_guilds", rawGuild, err.Error())
				continue
			}
			plan.Guilds = append(plan.Guilds, convertGuild(guildID, g, now))
			m.success("auction_guilds")

			for _, la := range g.Auctions {
				a, err := convertAuction(guildID, la, now)
				if err != nil {
					m.skip("auctions", rawGuild+"#"+strconv.FormatInt(la.AuctionID, 10), err.Error())
					continue
				}
				plan.Auctions = append(plan.Auctions, a)
				m.success("auctions")
			}
		}

		for _, rawGuild := range sortedKeys(scope.Member) {
			guildID, err := parseID(rawGuild)
			if err != nil {
				m.skip("auctioneers", rawGuild, err.Error())
				continue
			}
			members := scope.Member[rawGuild]
			for _, rawUser := range sortedKeys(members) {
				if !members[rawUser].Auctioneer {
					continue
				}
				userID, err := parseID(rawUser)
				if err != nil {
					m.skip("auctioneers", rawGuild+"/"+rawUser, err.Error())
					continue
				}
				plan.Auctioneers = append(plan.Auctioneers, &models.Auctioneer{
					GuildID:   guildID,
					UserID:    userID,
					GrantedAt: now,
				})
				m.success("auctioneers")
			}
		}
	}
	return plan
}

// MigrateAll reads the settings file and writes every converted row in one transaction.
// Existing rows win over imported ones, except for the auction counter which
// keeps the larger value.
func (m *Migrator) MigrateAll(ctx context.Context) error {
	logProgress("Starting legacy auction import", slog.String("path", m.path))

	file, err := os.Open(m.path)
	if err != nil {
		return fmt.Errorf("failed to open legacy config: %w", err)
	}
	defer file.Close()

	cfg, err := LoadLegacyConfig(file)
	if err != nil {
		return err
	}
	plan := m.Convert(cfg)

	tm := utils.NewEconomicTransactionManager(m.db)
	err = tm.WithTransaction(ctx, &utils.TransactionOptions{
		IsolationLevel: sql.LevelReadCommitted,
		Timeout:        m.timeout,
	}, func(ctx context.Context, tx bun.Tx) error {
		return m.write(ctx, tx, plan)
	})
	if err != nil {
		return fmt.Errorf("legacy import failed: %w", err)
	}

	m.stats.EndTime = m.now()
	m.logFinalStats()
	return nil
}

func (m *Migrator) write(ctx context.Context, tx bun.Tx, plan *Plan) error {
	for _, batch := range chunk(plan.Guilds, m.batchSize) {
		if _, err := tx.NewInsert().
			Model(&batch).
			On("CONFLICT (guild_id) DO UPDATE").
			Set("auction_count = GREATEST(ag.auction_count, EXCLUDED.auction_count)").
			Set("use_bank = EXCLUDED.use_bank").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to import guilds: %w", err)
		}
	}

	for _, batch := range chunk(plan.Auctioneers, m.batchSize) {
		if _, err := tx.NewInsert().
			Model(&batch).
			On("CONFLICT (guild_id, user_id) DO NOTHING").
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to import auctioneers: %w", err)
		}
	}

	for _, batch := range chunk(plan.Auctions, m.batchSize) {
		if _, err := tx.NewInsert().
			Model(&batch).
			On("CONFLICT (guild_id, auction_id) DO NOTHING").
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to import auctions: %w", err)
		}
	}
	return nil
}

func (m *Migrator) resetStats() {
	m.stats = MigrationStats{
		Tables:    make(map[string]*TableStats),
		StartTime: m.now(),
	}
}

func (m *Migrator) table(name string) *TableStats {
	ts, ok := m.stats.Tables[name]
	if !ok {
		ts = &TableStats{TableName: name}
		m.stats.Tables[name] = ts
	}
	return ts
}

func (m *Migrator) success(table string) {
	ts := m.table(table)
	ts.Processed++
	ts.Successful++
	m.stats.TotalProcessed++
}

func (m *Migrator) skip(table string, id string, reason string) {
	ts := m.table(table)
	ts.Processed++
	ts.Skipped++
	ts.SkippedRecords = append(ts.SkippedRecords, SkippedRecord{Reason: reason, ID: id})
	m.stats.TotalProcessed++
	m.stats.TotalSkipped++
}

func (m *Migrator) logFinalStats() {
	for _, name := range sortedKeys(m.stats.Tables) {
		ts := m.stats.Tables[name]
		logProgress("Table imported",
			slog.String("table", name),
			slog.Int("successful", ts.Successful),
			slog.Int("skipped", ts.Skipped))
		for _, rec := range ts.SkippedRecords {
			slog.Warn("Skipped legacy record",
				slog.String("type", "db"),
				slog.String("table", name),
				slog.String("id", rec.ID),
				slog.String("reason", rec.Reason))
		}
	}
	logProgress("Legacy import completed",
		slog.Int("processed", m.stats.TotalProcessed),
		slog.Int("skipped", m.stats.TotalSkipped),
		slog.Duration("took", m.stats.EndTime.Sub(m.stats.StartTime)))
}

func logProgress(message string, attrs ...any) {
	slog.Info(message, append([]any{slog.String("type", "db")}, attrs...)...)
}

func chunk[T any](items []T, size int) [][]T {
	var out [][]T
	for size < len(items) {
		out = append(out, items[:size:size])
		items = items[size:]
	}
	if len(items) > 0 {
		out = append(out, items)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
