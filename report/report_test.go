package report

import (
	"math"
	"testing"
	"time"

	"github.com/sillydata/message-miner/message"
	"github.com/sillydata/message-miner/wordfreq"
)

// syntheticCorpus builds 100 messages with hand-computable aggregates:
//   - i <  50: "the cat 😀"                      in alice (DM)
//   - 50..79:  "omw <@12345> see http://x.com now" in alice/general
//   - 80..99:  "blorp blorp 🚀"                  in general (GUILD_TEXT)
//
// Every 20th message has an unparseable (zero) timestamp; the rest step
// 6 hours apart from 2024-01-15, spanning into February.
func syntheticCorpus() *message.Corpus {
	var corpus message.Corpus
	base := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 100; i++ {
		m := message.Message{}
		switch {
		case i < 50:
			m.Text = "the cat \U0001F600"
		case i < 80:
			m.Text = "omw <@12345> see http://x.com now"
		default:
			m.Text = "blorp blorp \U0001F680"
		}
		if i < 60 {
			m.ChannelKey, m.ChannelKind = "alice", message.KindDirect
		} else {
			m.ChannelKey, m.ChannelKind = "general", message.KindGuildText
		}
		if i%20 != 0 {
			m.Time = base.Add(time.Duration(i) * 6 * time.Hour)
		}
		corpus.Messages = append(corpus.Messages, m)
		corpus.RowsRead++
	}
	return &corpus
}

func TestBuild_EndToEndAggregates(t *testing.T) {
	t.Parallel()

	rep := Build(syntheticCorpus(), SourceInfo{Kind: "test", Path: "synthetic"}, time.UTC, Options{})

	if rep.MessageCount != 100 || rep.RowsRead != 100 {
		t.Fatalf("counts=%d/%d, want 100/100", rep.MessageCount, rep.RowsRead)
	}

	// Channel summary: alice 60, general 40.
	if len(rep.Channels) != 2 {
		t.Fatalf("len(channels)=%d, want 2", len(rep.Channels))
	}
	if rep.Channels[0].Key != "alice" || rep.Channels[0].Count != 60 {
		t.Fatalf("channels[0]=%+v, want alice 60", rep.Channels[0])
	}
	if rep.Channels[1].Key != "general" || rep.Channels[1].Count != 40 {
		t.Fatalf("channels[1]=%+v, want general 40", rep.Channels[1])
	}

	// Timeline: five zero-time messages dropped, January + February ticks.
	if rep.DroppedTimestamps != 5 {
		t.Fatalf("DroppedTimestamps=%d, want 5", rep.DroppedTimestamps)
	}
	if got := len(rep.Timeline.Points); got != 95 {
		t.Fatalf("len(points)=%d, want 95", got)
	}
	if got := len(rep.Timeline.MonthTicks); got != 2 {
		t.Fatalf("len(ticks)=%d, want 2", got)
	}
	if rep.Timeline.MonthTicks[0].Year != 2024 || rep.Timeline.MonthTicks[0].Label != "" {
		t.Fatalf("jan tick=%+v, want year anchor with blank label", rep.Timeline.MonthTicks[0])
	}
	if rep.Timeline.MonthTicks[1].Label != "Feb" {
		t.Fatalf("feb tick=%+v, want label Feb", rep.Timeline.MonthTicks[1])
	}

	// Words: mention and URL contribute nothing; token counts are exact.
	// the:50 cat:50 omw:30 see:30 now:30 blorp:40 → 230 tokens.
	if rep.Words.TotalTokens != 230 {
		t.Fatalf("TotalTokens=%d, want 230", rep.Words.TotalTokens)
	}
	recognized := map[string]int{}
	for _, w := range rep.Words.Recognized {
		recognized[w.Word] = w.Count
	}
	wantRecognized := map[string]int{"the": 50, "cat": 50, "omw": 30, "see": 30, "now": 30}
	for w, n := range wantRecognized {
		if recognized[w] != n {
			t.Fatalf("recognized[%q]=%d, want %d (table: %v)", w, recognized[w], n, recognized)
		}
	}
	if len(rep.Words.Anomalous) != 1 || rep.Words.Anomalous[0].Word != "blorp" || rep.Words.Anomalous[0].Count != 40 {
		t.Fatalf("anomalous=%+v, want [{blorp 40}]", rep.Words.Anomalous)
	}

	for _, w := range rep.Words.Recognized {
		if w.Word != "the" {
			continue
		}
		want := (50.0 / 230.0) / wordfreq.Frequency("the")
		if math.Abs(w.OveruseRatio-want) > 1e-9 {
			t.Fatalf("overuse(the)=%v, want %v", w.OveruseRatio, want)
		}
	}

	// Emoji: 😀 50, 🚀 20, count-descending.
	if len(rep.Emoji) != 2 {
		t.Fatalf("len(emoji)=%d, want 2", len(rep.Emoji))
	}
	if rep.Emoji[0].Glyph != "\U0001F600" || rep.Emoji[0].Count != 50 {
		t.Fatalf("emoji[0]=%+v, want {😀 50}", rep.Emoji[0])
	}
	if rep.Emoji[1].Glyph != "\U0001F680" || rep.Emoji[1].Count != 20 {
		t.Fatalf("emoji[1]=%+v, want {🚀 20}", rep.Emoji[1])
	}
}

func TestBuild_CapsTables(t *testing.T) {
	t.Parallel()

	rep := Build(syntheticCorpus(), SourceInfo{Kind: "test"}, time.UTC, Options{
		MaxChannels: 1,
		MaxWords:    2,
		MaxEmoji:    1,
	})
	if len(rep.Channels) != 1 || len(rep.Emoji) != 1 {
		t.Fatalf("caps not applied: channels=%d emoji=%d", len(rep.Channels), len(rep.Emoji))
	}
	if len(rep.Words.Recognized) != 2 || len(rep.Words.Anomalous) != 1 {
		t.Fatalf("word caps: recognized=%d anomalous=%d", len(rep.Words.Recognized), len(rep.Words.Anomalous))
	}
}

func TestBuild_EmptyCorpus(t *testing.T) {
	t.Parallel()

	rep := Build(&message.Corpus{}, SourceInfo{Kind: "test"}, nil, Options{})
	if rep.MessageCount != 0 || len(rep.Channels) != 0 || len(rep.Emoji) != 0 ||
		len(rep.Words.Recognized) != 0 || len(rep.Words.Anomalous) != 0 ||
		len(rep.Timeline.Points) != 0 || len(rep.Languages) != 0 {
		t.Fatalf("empty corpus produced non-empty report: %+v", rep)
	}
	if rep.Timezone != "UTC" {
		t.Fatalf("Timezone=%q, want UTC default", rep.Timezone)
	}
}
