package analyze

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sillydata/message-miner/message"
	"github.com/sillydata/message-miner/wordfreq"
)

// zipfThreshold splits recognized from anomalous vocabulary: tokens scoring
// at or above it against the reference model are recognized.
const zipfThreshold = 3.0

var (
	urlPattern     = regexp.MustCompile(`https?://\S+|www\.\S+`)
	mentionPattern = regexp.MustCompile(`<@[!&]?\d+>`)
	emojiMarkup    = regexp.MustCompile(`<a?:\w+:\d+>`)
	tokenPattern   = regexp.MustCompile(`[\p{L}']+`)
)

// WordStat is an anomalous-vocabulary row: a word the reference model does
// not recognize (typos, slang, names) and its count.
type WordStat struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// RecognizedWord is a recognized-vocabulary row. OveruseRatio is the word's
// share of corpus tokens divided by its reference-corpus frequency: 1 means
// typical usage, 10 means ten times the reference rate.
type RecognizedWord struct {
	Word         string  `json:"word"`
	Count        int     `json:"count"`
	OveruseRatio float64 `json:"overuse_ratio"`
}

// WordReport is the classifier output. The underlying aggregates are pure
// functions of the corpus text; the slices are sorted views for presentation
// (recognized by overuse ratio descending, anomalous by count descending,
// ties alphabetical) so the report is byte-for-byte deterministic.
type WordReport struct {
	TotalTokens int              `json:"total_tokens"`
	Recognized  []RecognizedWord `json:"recognized"`
	Anomalous   []WordStat       `json:"anomalous"`
}

// AnalyzeWords tokenizes every message, classifies each token against the
// reference frequency model, and aggregates counts. Noise is stripped before
// tokenizing: URLs, <@id> mentions, and <:name:id> custom-emoji markup
// contribute no tokens. Tokens shorter than two runes and the bare token "s"
// (the apostrophe-s artifact) are dropped.
func AnalyzeWords(msgs []message.Message) WordReport {
	counts := make(map[string]int, 1024)
	total := 0
	for _, m := range msgs {
		for _, tok := range Tokenize(m.Text) {
			counts[tok]++
			total++
		}
	}

	rep := WordReport{TotalTokens: total}
	for word, count := range counts {
		if wordfreq.Zipf(word) >= zipfThreshold {
			rep.Recognized = append(rep.Recognized, RecognizedWord{
				Word:         word,
				Count:        count,
				OveruseRatio: overuseRatio(word, count, total),
			})
		} else {
			rep.Anomalous = append(rep.Anomalous, WordStat{Word: word, Count: count})
		}
	}

	sort.Slice(rep.Recognized, func(i, j int) bool {
		a, b := rep.Recognized[i], rep.Recognized[j]
		if a.OveruseRatio != b.OveruseRatio {
			return a.OveruseRatio > b.OveruseRatio
		}
		return a.Word < b.Word
	})
	sort.Slice(rep.Anomalous, func(i, j int) bool {
		a, b := rep.Anomalous[i], rep.Anomalous[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Word < b.Word
	})
	return rep
}

// Tokenize applies the classifier's cleaning and tokenization rules to one
// text. Exposed so callers can memoize the expensive pass without the
// classifier itself growing a cache.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	text = urlPattern.ReplaceAllString(text, " ")
	text = mentionPattern.ReplaceAllString(text, " ")
	text = emojiMarkup.ReplaceAllString(text, " ")
	text = strings.ToLower(text)

	var toks []string
	for _, tok := range tokenPattern.FindAllString(text, -1) {
		if utf8.RuneCountInString(tok) < 2 || tok == "s" {
			continue
		}
		toks = append(toks, tok)
	}
	return toks
}

// overuseRatio is (count/total) / reference frequency. The model reports a
// nonzero frequency for every recognized word by construction, but a zero is
// handled defensively as ratio 0.
func overuseRatio(word string, count, total int) float64 {
	if total == 0 {
		return 0
	}
	ref := wordfreq.Frequency(word)
	if ref == 0 {
		return 0
	}
	return (float64(count) / float64(total)) / ref
}
