// Package report assembles one analysis session into the JSON document the
// presentation layer consumes: channel summary, time-bucketed timeline,
// word-frequency tables, emoji counts, and the corpus language profile.
package report

import (
	"time"

	"github.com/sillydata/message-miner/analyze"
	"github.com/sillydata/message-miner/message"
)

// SourceInfo identifies the corpus a report was built from.
type SourceInfo struct {
	Name string `json:"name,omitempty"`
	Kind string `json:"kind"`
	Path string `json:"path"`
}

// Options caps table sizes for presentation. Zero means uncapped.
type Options struct {
	MaxChannels int
	MaxWords    int
	MaxEmoji    int
}

// Report is the complete analysis document for one corpus load.
type Report struct {
	GeneratedAt time.Time  `json:"generated_at"`
	Source      SourceInfo `json:"source"`
	Timezone    string     `json:"timezone"`

	MessageCount      int `json:"message_count"`
	RowsRead          int `json:"rows_read"`
	DecodeFallbacks   int `json:"decode_fallbacks"`
	SkippedChannels   int `json:"skipped_channels"`
	DroppedTimestamps int `json:"dropped_timestamps"`

	Channels  []message.ChannelCount `json:"channels"`
	Timeline  analyze.BucketResult   `json:"timeline"`
	Words     analyze.WordReport     `json:"words"`
	Emoji     []analyze.EmojiStat    `json:"emoji"`
	Languages []analyze.LanguageStat `json:"languages"`
}

// Build runs every analyzer over the corpus snapshot and assembles the
// document. The corpus is read-only here: analyzers run independently over
// the same slice and none of them mutate it.
func Build(corpus *message.Corpus, src SourceInfo, loc *time.Location, opts Options) Report {
	if loc == nil {
		loc = time.UTC
	}

	timeline := analyze.Bucket(corpus.Messages, loc)
	words := analyze.AnalyzeWords(corpus.Messages)
	words.Recognized = capRecognized(words.Recognized, opts.MaxWords)
	words.Anomalous = capStats(words.Anomalous, opts.MaxWords)

	return Report{
		GeneratedAt: time.Now().UTC(),
		Source:      src,
		Timezone:    loc.String(),

		MessageCount:      len(corpus.Messages),
		RowsRead:          corpus.RowsRead,
		DecodeFallbacks:   corpus.DecodeFallbacks,
		SkippedChannels:   corpus.SkippedChannels,
		DroppedTimestamps: timeline.Dropped,

		Channels:  capChannels(message.SummarizeChannels(corpus.Messages), opts.MaxChannels),
		Timeline:  timeline,
		Words:     words,
		Emoji:     capEmoji(analyze.CountEmoji(corpus.Messages), opts.MaxEmoji),
		Languages: analyze.ProfileLanguages(corpus.Messages),
	}
}

func capChannels(rows []message.ChannelCount, n int) []message.ChannelCount {
	if n > 0 && len(rows) > n {
		return rows[:n]
	}
	return rows
}

func capRecognized(rows []analyze.RecognizedWord, n int) []analyze.RecognizedWord {
	if n > 0 && len(rows) > n {
		return rows[:n]
	}
	return rows
}

func capStats(rows []analyze.WordStat, n int) []analyze.WordStat {
	if n > 0 && len(rows) > n {
		return rows[:n]
	}
	return rows
}

func capEmoji(rows []analyze.EmojiStat, n int) []analyze.EmojiStat {
	if n > 0 && len(rows) > n {
		return rows[:n]
	}
	return rows
}
