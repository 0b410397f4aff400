package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Event is a single normalized interaction record: one actor performing one
// action against one target at one instant. Profile and transaction fields
// are optional; detectors test for presence rather than assuming them.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Platform  string    `json:"platform"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor"`
	Target    string    `json:"target"`

	Bio            string           `json:"bio,omitempty"`
	Links          []string         `json:"links,omitempty"`
	FollowerCount  *int             `json:"followerCount,omitempty"`
	FollowingCount *int             `json:"followingCount,omitempty"`
	ActorCreatedAt *time.Time       `json:"actorCreatedAt,omitempty"`
	Verified       *bool            `json:"verified,omitempty"`
	Location       string           `json:"location,omitempty"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	TxHash         string           `json:"txHash,omitempty"`
	BlockNumber    int64            `json:"blockNumber,omitempty"`
	Meta           string           `json:"meta,omitempty"`
	TargetType     string           `json:"targetType,omitempty"`

	// TimeValid is false when the source timestamp did not parse. Such
	// events still build graph structure and count toward totals, but
	// every temporal detector skips them.
	TimeValid bool `json:"-"`
}

// HasProfile reports whether the event carries any profile field worth
// folding into the per-actor aggregate.
func (e *Event) HasProfile() bool {
	return e.Bio != "" || len(e.Links) > 0 || e.FollowerCount != nil ||
		e.FollowingCount != nil || e.ActorCreatedAt != nil ||
		e.Verified != nil || e.Location != ""
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp normalizes an ISO-8601 instant to UTC. Bare integers are
// accepted as unix seconds (or milliseconds when they are too large to be
// a plausible seconds value). ok is false when nothing parses.
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 { // milliseconds
			return time.UnixMilli(n).UTC(), true
		}
		return time.Unix(n, 0).UTC(), true
	}
	return time.Time{}, false
}

// ParseBool coerces the serialized boolean vocabulary: "true"/"1"/"yes" and
// "false"/"0"/"no". Anything else is treated as absent (ok=false).
func ParseBool(raw string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		return true, true
	case "false", "0", "no":
		return false, true
	}
	return false, false
}
