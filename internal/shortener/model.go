package shortener

import (
	"time"

	"github.com/google/uuid"
)

// Click is one recorded visit of a short link.
type Click struct {
	Timestamp time.Time `json:"timestamp"`
	Referrer  string    `json:"referrer,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
}

// Link is a shortened URL with its click history. Clicks always equals
// len(ClickHistory).
type Link struct {
	ID           uuid.UUID `json:"id"`
	OriginalURL  string    `json:"originalUrl"`
	ShortCode    string    `json:"shortCode"`
	ShortURL     string    `json:"shortUrl"`
	Clicks       int64     `json:"clicks"`
	CreatedAt    time.Time `json:"createdAt"`
	QRCode       string    `json:"qrCode"`
	ClickHistory []Click   `json:"clickHistory"`
}

// DayCount is the number of clicks on one UTC day.
type DayCount struct {
	Day    string `json:"day"`
	Clicks int    `json:"clicks"`
}

// ReferrerCount is the number of clicks from one referrer.
type ReferrerCount struct {
	Referrer string `json:"referrer"`
	Clicks   int    `json:"clicks"`
}

// Stats summarizes a link's click history.
type Stats struct {
	LinkID       uuid.UUID       `json:"linkId"`
	Clicks       int64           `json:"clicks"`
	LastClick    *time.Time      `json:"lastClick,omitempty"`
	ByDay        []DayCount      `json:"byDay"`
	TopReferrers []ReferrerCount `json:"topReferrers"`
}
