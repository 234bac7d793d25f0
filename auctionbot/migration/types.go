package migration

import "time"

// LegacyConfig is the settings file of the chat-bot cog the auction data is
// imported from. The top level key is the cog identifier.
type LegacyConfig map[string]LegacyScope

type LegacyScope struct {
	Guild  map[string]LegacyGuild                  `json:"GUILD"`
	Member map[string]map[string]LegacyMemberEntry `json:"MEMBER"`
}

type LegacyGuild struct {
	Auctions     []LegacyAuction `json:"auctions"`
	AuctionCount int64           `json:"auction_count"`
	UseBank      bool            `json:"use_bank"`
}

type LegacyMemberEntry struct {
	Auctioneer bool `json:"auctioneer"`
}

type LegacyAuction struct {
	ThreadID      uint64  `json:"thread_id"`
	MessageID     uint64  `json:"message_id"`
	HostID        uint64  `json:"host_id"`
	AuctionID     int64   `json:"auction_id"`
	QuickSold     *int64  `json:"quick_sold"`
	CurrentBid    *int64  `json:"current_bid"`
	CurrentBidder *uint64 `json:"current_bidder"`
	EndTimestamp  int64   `json:"end_timestamp"`
	MinBid        int64   `json:"min_bid"`
}

// MigrationStats tracks the progress of one import run
type MigrationStats struct {
	Tables         map[string]*TableStats `json:"tables"`
	StartTime      time.Time              `json:"start_time"`
	EndTime        time.Time              `json:"end_time"`
	TotalSkipped   int                    `json:"total_skipped"`
	TotalProcessed int                    `json:"total_processed"`
}

// TableStats tracks stats for individual tables
type TableStats struct {
	TableName      string          `json:"table_name"`
	Processed      int             `json:"processed"`
	Successful     int             `json:"successful"`
	Skipped        int             `json:"skipped"`
	SkippedRecords []SkippedRecord `json:"skipped_records"`
}

// SkippedRecord tracks why a record was skipped
type SkippedRecord struct {
	Reason string `json:"reason"`
	ID     string `json:"id"`
}
