// Package message defines the canonical, source-agnostic message record that
// every analyzer operates on, plus the per-channel summary built from it.
package message

import (
	"sort"
	"time"
)

// Direction says who sent a message. Only the chat-database source knows
// this; export-directory messages stay DirectionUnknown.
type Direction int8

const (
	DirectionUnknown Direction = iota
	DirectionIncoming
	DirectionOutgoing
)

// String returns the lowercase name used in reports.
func (d Direction) String() string {
	switch d {
	case DirectionIncoming:
		return "incoming"
	case DirectionOutgoing:
		return "outgoing"
	default:
		return "unknown"
	}
}

// ChannelKind is the conversation context type of the export source.
// Database-source messages carry KindNone.
type ChannelKind string

const (
	KindNone      ChannelKind = "none"
	KindDirect    ChannelKind = "DM"
	KindGroup     ChannelKind = "GROUP_DM"
	KindGuildText ChannelKind = "GUILD_TEXT"
)

// Message is the unit of the pipeline.
//
// Text is never "missing": decode failure degrades to the empty string at the
// adapter boundary. A zero Time marks a source timestamp that could not be
// parsed; such messages stay in the corpus for text analysis but are dropped
// (and tallied) by time bucketing.
type Message struct {
	Time        time.Time   `json:"time"`
	Text        string      `json:"text"`
	Direction   Direction   `json:"direction,omitempty"`
	ChannelKey  string      `json:"channel_key,omitempty"`
	ChannelKind ChannelKind `json:"channel_kind,omitempty"`
}

// Corpus is one loaded analysis session: the flat message slice plus the
// adapter-level tallies callers surface to users.
type Corpus struct {
	Messages []Message

	// RowsRead is the number of source records seen, including ones whose
	// text resolved to "".
	RowsRead int

	// DecodeFallbacks counts records where the binary body yielded nothing
	// and the plain-text field (or "") was used instead.
	DecodeFallbacks int

	// SkippedChannels counts export channels dropped whole (empty, missing
	// from the index, or placeholder-named).
	SkippedChannels int
}

// ChannelCount is one row of the per-channel summary.
type ChannelCount struct {
	Key   string      `json:"channel_key"`
	Kind  ChannelKind `json:"channel_kind"`
	Count int         `json:"count"`
}

// SummarizeChannels counts messages per channel key. Rows are ordered by
// descending count; ties keep first-seen order, so the result is stable for
// a given input order. Messages with an empty channel key are skipped.
func SummarizeChannels(msgs []Message) []ChannelCount {
	idx := make(map[string]int, 64)
	var rows []ChannelCount
	for _, m := range msgs {
		if m.ChannelKey == "" {
			continue
		}
		if i, ok := idx[m.ChannelKey]; ok {
			rows[i].Count++
			continue
		}
		idx[m.ChannelKey] = len(rows)
		rows = append(rows, ChannelCount{Key: m.ChannelKey, Kind: m.ChannelKind, Count: 1})
	}
	// Stable sort keeps the first-seen tie-break without a secondary key.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Count > rows[j].Count
	})
	return rows
}
