package entity

import "time"

// WatchlistEntry is a symbol the covered-call scanner may propose opening a
// new call against, independent of any held shares.
type WatchlistEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Symbol    string    `gorm:"not null;uniqueIndex" json:"symbol"`
	Note      string    `json:"note"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (WatchlistEntry) TableName() string {
	return "watchlist_entries"
}
