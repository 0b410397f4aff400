// Package ingest converts external event serializations (canonical CSV,
// JSON, NDJSON, kafka messages) into normalized model.Event records for the
// analysis engine. Malformed rows are dropped; malformed timestamps keep
// the row but mark it time-invalid.
package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ringwatch/ringwatch/internal/model"
)

// Canonical CSV column order.
var csvColumns = []string{
	"timestamp", "platform", "action", "actor", "target", "amount",
	"txHash", "blockNumber", "meta", "actorCreatedAt", "followerCount",
	"followingCount", "bio", "location", "verified", "links", "targetType",
}

// ReadCSV parses events in the canonical column order. A leading header
// row (first cell "timestamp") is skipped. Rows shorter than the canonical
// width are padded with empty optionals; rows without actor and action are
// dropped.
func ReadCSV(r io.Reader, logger zerolog.Logger) ([]model.Event, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var events []model.Event
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line++
		if line == 1 && len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "timestamp") {
			continue
		}
		ev, ok := eventFromRecord(record)
		if !ok {
			logger.Warn().Int("line", line).Msg("dropping malformed csv row")
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func eventFromRecord(record []string) (model.Event, bool) {
	padded := make([]string, len(csvColumns))
	copy(padded, record)
	for i := range padded {
		padded[i] = strings.TrimSpace(padded[i])
	}

	ev := model.Event{
		Platform:   padded[1],
		Action:     padded[2],
		Actor:      padded[3],
		Target:     padded[4],
		TxHash:     padded[6],
		Meta:       padded[8],
		Bio:        padded[12],
		Location:   padded[13],
		TargetType: padded[16],
	}
	if ev.Actor == "" || ev.Action == "" {
		return model.Event{}, false
	}
	if ts, ok := model.ParseTimestamp(padded[0]); ok {
		ev.Timestamp = ts
		ev.TimeValid = true
	}
	if padded[5] != "" {
		if amount, err := decimal.NewFromString(padded[5]); err == nil {
			ev.Amount = &amount
		}
	}
	if padded[7] != "" {
		if n, err := strconv.ParseInt(padded[7], 10, 64); err == nil {
			ev.BlockNumber = n
		}
	}
	if ts, ok := model.ParseTimestamp(padded[9]); ok {
		created := ts
		ev.ActorCreatedAt = &created
	}
	if n, err := strconv.Atoi(padded[10]); err == nil && padded[10] != "" {
		ev.FollowerCount = &n
	}
	if n, err := strconv.Atoi(padded[11]); err == nil && padded[11] != "" {
		ev.FollowingCount = &n
	}
	if v, ok := model.ParseBool(padded[14]); ok {
		ev.Verified = &v
	}
	ev.Links = parseLinksField(padded[15])
	return ev, true
}

// parseLinksField accepts JSON-array text or whitespace/comma separated
// URLs.
func parseLinksField(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var links []string
		if err := json.Unmarshal([]byte(raw), &links); err == nil {
			return links
		}
	}
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

// WriteCSV emits events in the canonical column order, with a header row.
func WriteCSV(w io.Writer, events []model.Event) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := range events {
		if err := cw.Write(recordFromEvent(&events[i])); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func recordFromEvent(ev *model.Event) []string {
	record := make([]string, len(csvColumns))
	if ev.TimeValid {
		record[0] = ev.Timestamp.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	record[1] = ev.Platform
	record[2] = ev.Action
	record[3] = ev.Actor
	record[4] = ev.Target
	if ev.Amount != nil {
		record[5] = ev.Amount.String()
	}
	record[6] = ev.TxHash
	if ev.BlockNumber != 0 {
		record[7] = strconv.FormatInt(ev.BlockNumber, 10)
	}
	record[8] = ev.Meta
	if ev.ActorCreatedAt != nil {
		record[9] = ev.ActorCreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	if ev.FollowerCount != nil {
		record[10] = strconv.Itoa(*ev.FollowerCount)
	}
	if ev.FollowingCount != nil {
		record[11] = strconv.Itoa(*ev.FollowingCount)
	}
	record[12] = ev.Bio
	record[13] = ev.Location
	if ev.Verified != nil {
		record[14] = strconv.FormatBool(*ev.Verified)
	}
	record[15] = strings.Join(ev.Links, " ")
	record[16] = ev.TargetType
	return record
}
