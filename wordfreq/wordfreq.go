// Package wordfreq is the reference English word-frequency model the word
// classifier scores against.
//
// Scores use the Zipf scale: base-10 log of a word's frequency per billion
// tokens, so "the" sits near 7.7 and a word occurring once per million tokens
// scores 3.0. The embedded vocabulary is rank-ordered; scores are derived
// from rank via Zipf's law, which tracks the full reference corpus closely on
// the high-frequency end, the only end the overuse ratio is defined for.
// Out-of-vocabulary words take the floor score.
package wordfreq

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"math"
	"strconv"
	"strings"
)

//go:embed words.tsv
var wordsTSV []byte

// ZipfFloor is the score reported for out-of-vocabulary words.
const ZipfFloor = 0.0

var scores = mustParse(wordsTSV)

// Zipf returns the word's Zipf score, or ZipfFloor when the word is not in
// the reference vocabulary. Lookup is case-sensitive; callers lowercase
// tokens before scoring.
func Zipf(word string) float64 {
	if z, ok := scores[word]; ok {
		return z
	}
	return ZipfFloor
}

// Frequency returns the word's expected share of tokens in the reference
// corpus (10^(zipf-9)), or 0 for out-of-vocabulary words.
func Frequency(word string) float64 {
	z, ok := scores[word]
	if !ok {
		return 0
	}
	return math.Pow(10, z-9)
}

// Len reports the vocabulary size, mainly for sanity checks.
func Len() int { return len(scores) }

func mustParse(data []byte) map[string]float64 {
	m, err := parse(data)
	if err != nil {
		// The data file is embedded at build time; a parse failure is a
		// broken build, not a runtime condition.
		panic(err)
	}
	return m
}

func parse(data []byte) (map[string]float64, error) {
	m := make(map[string]float64, 1024)
	sc := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		word, score, ok := strings.Cut(text, "\t")
		if !ok {
			return nil, fmt.Errorf("wordfreq: line %d: missing tab separator", line)
		}
		z, err := strconv.ParseFloat(score, 64)
		if err != nil {
			return nil, fmt.Errorf("wordfreq: line %d: bad score %q: %w", line, score, err)
		}
		m[word] = z
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("wordfreq: scan embedded data: %w", err)
	}
	return m, nil
}
