package analyze

import (
	"sort"
	"strings"

	"github.com/abadojack/whatlanggo"

	"github.com/sillydata/message-miner/message"
)

// LanguageStat is one detected language and the number of messages reliably
// attributed to it.
type LanguageStat struct {
	Language string `json:"language"`
	Count    int    `json:"count"`
}

// ProfileLanguages detects the language of every non-empty message and
// counts messages per language, keeping only detections the detector itself
// marks reliable. Output is ordered by count descending, ties alphabetical.
func ProfileLanguages(msgs []message.Message) []LanguageStat {
	counts := make(map[string]int, 8)
	for _, m := range msgs {
		text := strings.TrimSpace(m.Text)
		if text == "" {
			continue
		}
		info := whatlanggo.Detect(text)
		if !info.IsReliable() {
			continue
		}
		counts[info.Lang.String()]++
	}

	stats := make([]LanguageStat, 0, len(counts))
	for lang, n := range counts {
		stats = append(stats, LanguageStat{Language: lang, Count: n})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Language < stats[j].Language
	})
	return stats
}
