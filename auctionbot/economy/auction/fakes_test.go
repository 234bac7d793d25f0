package auction

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/disgoorg/auction-bot/auctionbot/database/models"
)

var errStoreDown = errors.New("store unavailable")

// MemStore is an in-memory Store. Fail* counters make the next N calls fail;
// FailList covers both List and ListGuilds.
type MemStore struct {
	mu         sync.Mutex
	auctions   map[Key]*models.Auction
	counters   map[snowflake.ID]int64
	FailCreate int
	FailUpdate int
	FailDelete int
	FailList   int
	Deletes    int
}

func NewMemStore() *MemStore {
	return &MemStore{
		auctions: make(map[Key]*models.Auction),
		counters: make(map[snowflake.ID]int64),
	}
}

func (s *MemStore) NextAuctionID(_ context.Context, guildID snowflake.ID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[guildID]++
	return s.counters[guildID], nil
}

func (s *MemStore) ReleaseAuctionID(_ context.Context, guildID snowflake.ID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counters[guildID] == id {
		s.counters[guildID]--
	}
	return nil
}

// Counter returns the last id issued for guildID.
func (s *MemStore) Counter(guildID snowflake.ID) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[guildID]
}

func (s *MemStore) Create(_ context.Context, a *models.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailCreate > 0 {
		s.FailCreate--
		return errStoreDown
	}
	key := KeyOf(a)
	if _, ok := s.auctions[key]; ok {
		return fmt.Errorf("duplicate auction %s", key)
	}
	s.auctions[key] = a.Clone()
	return nil
}

// Put stores a record directly, bypassing the engine.
func (s *MemStore) Put(a *models.Auction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auctions[KeyOf(a)] = a.Clone()
	if s.counters[a.GuildID] < a.AuctionID {
		s.counters[a.GuildID] = a.AuctionID
	}
}

func (s *MemStore) Get(_ context.Context, key Key) (*models.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.auctions[key]
	if !ok {
		return nil, ErrNotFound
	}
	return a.Clone(), nil
}

func (s *MemStore) GetByThread(_ context.Context, guildID snowflake.ID, threadID snowflake.ID) (*models.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, a := range s.auctions {
		if key.GuildID == guildID && a.ThreadID == threadID {
			return a.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemStore) Update(_ context.Context, a *models.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailUpdate > 0 {
		s.FailUpdate--
		return errStoreDown
	}
	key := KeyOf(a)
	if _, ok := s.auctions[key]; !ok {
		return ErrNotFound
	}
	s.auctions[key] = a.Clone()
	return nil
}

func (s *MemStore) Delete(_ context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailDelete > 0 {
		s.FailDelete--
		return errStoreDown
	}
	if _, ok := s.auctions[key]; !ok {
		return ErrNotFound
	}
	delete(s.auctions, key)
	s.Deletes++
	return nil
}

func (s *MemStore) List(_ context.Context, guildID snowflake.ID) ([]*models.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailList > 0 {
		s.FailList--
		return nil, errStoreDown
	}
	var out []*models.Auction
	for key, a := range s.auctions {
		if key.GuildID == guildID {
			out = append(out, a.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AuctionID < out[j].AuctionID })
	return out, nil
}

func (s *MemStore) ListGuilds(_ context.Context) ([]snowflake.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailList > 0 {
		s.FailList--
		return nil, errStoreDown
	}
	seen := make(map[snowflake.ID]bool)
	var out []snowflake.ID
	for key := range s.auctions {
		if !seen[key.GuildID] {
			seen[key.GuildID] = true
			out = append(out, key.GuildID)
		}
	}
	return out, nil
}

func (s *MemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.auctions)
}

type MemSettings struct {
	mu   sync.Mutex
	bank map[snowflake.ID]bool
}

func NewMemSettings() *MemSettings {
	return &MemSettings{bank: make(map[snowflake.ID]bool)}
}

func (s *MemSettings) UseBank(_ context.Context, guildID snowflake.ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bank[guildID], nil
}

func (s *MemSettings) ToggleBank(_ context.Context, guildID snowflake.ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bank[guildID] = !s.bank[guildID]
	return s.bank[guildID], nil
}

type MemRoster struct {
	mu    sync.Mutex
	users map[Key]bool
}

func NewMemRoster() *MemRoster {
	return &MemRoster{users: make(map[Key]bool)}
}

func (r *MemRoster) IsAuctioneer(_ context.Context, guildID snowflake.ID, userID snowflake.ID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[Key{GuildID: guildID, AuctionID: int64(userID)}], nil
}

func (r *MemRoster) SetAuctioneer(_ context.Context, guildID snowflake.ID, userID snowflake.ID, auctioneer bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[Key{GuildID: guildID, AuctionID: int64(userID)}] = auctioneer
	return nil
}

// MemLedger keeps balances per (guild, user).
type MemLedger struct {
	mu          sync.Mutex
	balances    map[Key]int64
	FailDeposit int
}

func NewMemLedger() *MemLedger {
	return &MemLedger{balances: make(map[Key]int64)}
}

func ledgerKey(guildID, userID snowflake.ID) Key {
	return Key{GuildID: guildID, AuctionID: int64(userID)}
}

func (l *MemLedger) Set(guildID, userID snowflake.ID, balance int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[ledgerKey(guildID, userID)] = balance
}

func (l *MemLedger) Balance(_ context.Context, guildID snowflake.ID, userID snowflake.ID) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[ledgerKey(guildID, userID)], nil
}

func (l *MemLedger) Withdraw(_ context.Context, guildID snowflake.ID, userID snowflake.ID, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	k := ledgerKey(guildID, userID)
	if l.balances[k] < amount {
		return ErrInsufficientFunds
	}
	l.balances[k] -= amount
	return nil
}

func (l *MemLedger) Deposit(_ context.Context, guildID snowflake.ID, userID snowflake.ID, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.FailDeposit > 0 {
		l.FailDeposit--
		return errStoreDown
	}
	l.balances[ledgerKey(guildID, userID)] += amount
	return nil
}

func (l *MemLedger) Get(guildID, userID snowflake.ID) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[ledgerKey(guildID, userID)]
}

// FakePlatform records every call. Auctions listed in Missing resolve as ErrUnresolvable.
type FakePlatform struct {
	mu        sync.Mutex
	nextID    snowflake.ID
	Missing   map[Key]bool
	Updates   []*models.Auction
	Finalized []Key
	Removed   []Key
	Archived  []Key
	Notified  []snowflake.ID
	OpenErr   error
}

func NewFakePlatform() *FakePlatform {
	return &FakePlatform{nextID: 1000, Missing: make(map[Key]bool)}
}

func (p *FakePlatform) OpenAuction(_ context.Context, _ *models.Auction) (MessageHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.OpenErr != nil {
		return MessageHandle{}, p.OpenErr
	}
	p.nextID += 2
	return MessageHandle{ChannelID: p.nextID, MessageID: p.nextID + 1}, nil
}

func (p *FakePlatform) ResolveMessage(_ context.Context, a *models.Auction) (MessageHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Missing[KeyOf(a)] {
		return MessageHandle{}, ErrUnresolvable
	}
	return MessageHandle{ChannelID: a.ThreadID, MessageID: a.MessageID}, nil
}

func (p *FakePlatform) UpdateDisplay(_ context.Context, a *models.Auction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Updates = append(p.Updates, a.Clone())
	return nil
}

func (p *FakePlatform) FinalizeDisplay(_ context.Context, a *models.Auction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Finalized = append(p.Finalized, KeyOf(a))
	return nil
}

func (p *FakePlatform) MarkRemoved(_ context.Context, a *models.Auction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Removed = append(p.Removed, KeyOf(a))
	return nil
}

func (p *FakePlatform) ArchiveThread(_ context.Context, a *models.Auction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Archived = append(p.Archived, KeyOf(a))
	return nil
}

func (p *FakePlatform) Notify(_ context.Context, userID snowflake.ID, _ Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Notified = append(p.Notified, userID)
	return nil
}

func (p *FakePlatform) JumpURL(a *models.Auction) string {
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", a.GuildID, a.ThreadID, a.MessageID)
}

func (p *FakePlatform) Counts() (finalized, removed, archived int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Finalized), len(p.Removed), len(p.Archived)
}

func (p *FakePlatform) NotifiedUsers() []snowflake.ID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]snowflake.ID(nil), p.Notified...)
}

// TestClock is a manually advanced clock.
type TestClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewTestClock(now time.Time) *TestClock {
	return &TestClock{now: now}
}

func (c *TestClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *TestClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// TestRig bundles an engine with its in-memory collaborators.
type TestRig struct {
	Engine   *Engine
	Store    *MemStore
	Settings *MemSettings
	Roster   *MemRoster
	Ledger   *MemLedger
	Platform *FakePlatform
	Clock    *TestClock
}

const (
	testGuild = snowflake.ID(42)
	testHost  = snowflake.ID(1)
	bidderA   = snowflake.ID(100)
	bidderB   = snowflake.ID(200)
)

var testEpoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// NewTestRig builds a ready engine around in-memory collaborators and platform.
func NewTestRig(t *testing.T, platform Platform) *TestRig {
	t.Helper()
	rig := &TestRig{
		Store:    NewMemStore(),
		Settings: NewMemSettings(),
		Roster:   NewMemRoster(),
		Ledger:   NewMemLedger(),
		Clock:    NewTestClock(testEpoch),
	}
	if platform == nil {
		rig.Platform = NewFakePlatform()
		platform = rig.Platform
	}
	rig.Engine = NewEngine(rig.Store, rig.Settings, rig.Roster, rig.Ledger, platform, DefaultConfig())
	rig.Engine.SetClock(rig.Clock.Now)
	t.Cleanup(rig.Engine.Shutdown)
	return rig
}

func (r *TestRig) MarkReady(t *testing.T) {
	t.Helper()
	if _, err := r.Engine.Recover(context.Background(), []snowflake.ID{}); err != nil {
		t.Fatalf("recover: %v", err)
	}
}

func (r *TestRig) EnableBank() {
	r.Settings.mu.Lock()
	defer r.Settings.mu.Unlock()
	r.Settings.bank[testGuild] = true
}

// CreateAuction opens an auction with the given period and optional quick sell price.
func (r *TestRig) CreateAuction(t *testing.T, period time.Duration, minBid int64, quickSold *int64) *models.Auction {
	t.Helper()
	a, err := r.Engine.Create(context.Background(), CreateParams{
		GuildID:    testGuild,
		ChannelID:  snowflake.ID(7),
		HostID:     testHost,
		HostName:   "host",
		Name:       "Golden Sword",
		TimePeriod: period,
		QuickSold:  quickSold,
		MinBid:     minBid,
	})
	if err != nil {
		t.Fatalf("create auction: %v", err)
	}
	return a
}

func int64Ptr(v int64) *int64 {
	return &v
}
