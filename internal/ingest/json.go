package ingest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ringwatch/ringwatch/internal/model"
)

// rawEvent tolerates the loose field types seen in the wild: string or
// numeric timestamps, string or array link lists, string or numeric
// amounts, string or boolean verified flags.
type rawEvent struct {
	Timestamp      json.RawMessage `json:"timestamp"`
	Platform       string          `json:"platform"`
	Action         string          `json:"action"`
	Actor          string          `json:"actor"`
	Target         string          `json:"target"`
	Bio            string          `json:"bio"`
	Links          json.RawMessage `json:"links"`
	FollowerCount  *int            `json:"followerCount"`
	FollowingCount *int            `json:"followingCount"`
	ActorCreatedAt json.RawMessage `json:"actorCreatedAt"`
	Verified       json.RawMessage `json:"verified"`
	Location       string          `json:"location"`
	Amount         json.RawMessage `json:"amount"`
	TxHash         string          `json:"txHash"`
	BlockNumber    int64           `json:"blockNumber"`
	Meta           string          `json:"meta"`
	TargetType     string          `json:"targetType"`
}

// ReadJSON parses either a JSON array of events or newline-delimited JSON
// objects, sniffing the first non-space byte.
func ReadJSON(r io.Reader) ([]model.Event, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	if first == '[' {
		var raws []rawEvent
		if err := json.NewDecoder(br).Decode(&raws); err != nil {
			return nil, fmt.Errorf("parse json array: %w", err)
		}
		events := make([]model.Event, 0, len(raws))
		for i := range raws {
			if ev, ok := raws[i].normalize(); ok {
				events = append(events, ev)
			}
		}
		return events, nil
	}

	var events []model.Event
	scanner := bufio.NewScanner(br)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var raw rawEvent
		if err := json.Unmarshal(line, &raw); err != nil {
			continue
		}
		if ev, ok := raw.normalize(); ok {
			events = append(events, ev)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan ndjson: %w", err)
	}
	return events, nil
}

// ParseEvent normalizes a single JSON-encoded event, as delivered on the
// kafka topic.
func ParseEvent(data []byte) (model.Event, bool) {
	var raw rawEvent
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.Event{}, false
	}
	return raw.normalize()
}

func (r *rawEvent) normalize() (model.Event, bool) {
	if r.Actor == "" || r.Action == "" {
		return model.Event{}, false
	}
	ev := model.Event{
		Platform:       r.Platform,
		Action:         r.Action,
		Actor:          r.Actor,
		Target:         r.Target,
		Bio:            r.Bio,
		FollowerCount:  r.FollowerCount,
		FollowingCount: r.FollowingCount,
		Location:       r.Location,
		TxHash:         r.TxHash,
		BlockNumber:    r.BlockNumber,
		Meta:           r.Meta,
		TargetType:     r.TargetType,
	}
	if s, ok := rawToString(r.Timestamp); ok {
		if ts, valid := model.ParseTimestamp(s); valid {
			ev.Timestamp = ts
			ev.TimeValid = true
		}
	}
	if s, ok := rawToString(r.ActorCreatedAt); ok {
		if ts, valid := model.ParseTimestamp(s); valid {
			created := ts
			ev.ActorCreatedAt = &created
		}
	}
	if s, ok := rawToString(r.Verified); ok {
		if v, valid := model.ParseBool(s); valid {
			ev.Verified = &v
		}
	}
	if s, ok := rawToString(r.Amount); ok && s != "" {
		if amount, err := decimal.NewFromString(s); err == nil {
			ev.Amount = &amount
		}
	}
	ev.Links = parseRawLinks(r.Links)
	return ev, true
}

// rawToString unwraps a JSON scalar (string, number, bool) to its text.
func rawToString(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return s, true
	}
	return string(raw), true
}

func parseRawLinks(raw json.RawMessage) []string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '[' {
		var links []string
		if err := json.Unmarshal(raw, &links); err == nil {
			return links
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return parseLinksField(s)
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.Peek(1)
		if err != nil {
			return 0, err
		}
		if strings.TrimSpace(string(b)) == "" {
			if _, err := br.Discard(1); err != nil {
				return 0, err
			}
			continue
		}
		return b[0], nil
	}
}
