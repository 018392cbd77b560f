package analyze

import (
	"sort"

	"github.com/sillydata/message-miner/message"
)

// EmojiStat is one pictographic code point and its corpus-wide count.
type EmojiStat struct {
	Glyph string `json:"glyph"`
	Count int    `json:"count"`
}

// emojiRanges are the four matched Unicode blocks: emoticons, symbols &
// pictographs, transport & map symbols, and regional indicators.
var emojiRanges = [...]struct{ lo, hi rune }{
	{0x1F600, 0x1F64F},
	{0x1F300, 0x1F5FF},
	{0x1F680, 0x1F6FF},
	{0x1F1E6, 0x1F1FF},
}

// CountEmoji scans every message once and counts code points falling in the
// matched ranges, keyed by the literal glyph. Output is ordered by count
// descending with first-seen tie-break.
//
// Known limitation, kept deliberately for count compatibility: matching is
// per code point, so grapheme clusters are not merged: a flag counts as two
// regional-indicator hits and a skin-tone-modified emoji counts its base
// glyph only.
func CountEmoji(msgs []message.Message) []EmojiStat {
	idx := make(map[rune]int, 64)
	var stats []EmojiStat
	for _, m := range msgs {
		for _, r := range m.Text {
			if !isEmoji(r) {
				continue
			}
			if i, ok := idx[r]; ok {
				stats[i].Count++
				continue
			}
			idx[r] = len(stats)
			stats = append(stats, EmojiStat{Glyph: string(r), Count: 1})
		}
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Count > stats[j].Count
	})
	return stats
}

func isEmoji(r rune) bool {
	for _, rg := range emojiRanges {
		if r >= rg.lo && r <= rg.hi {
			return true
		}
	}
	return false
}
