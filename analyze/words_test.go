package analyze

import (
	"math"
	"reflect"
	"testing"

	"github.com/sillydata/message-miner/wordfreq"
)

func TestTokenize_CleaningRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"url stripped", "check http://x.com now", []string{"check", "now"}},
		{"www url stripped", "see www.example.com ok", []string{"see", "ok"}},
		{"mention stripped", "hey <@123456> you there", []string{"hey", "you", "there"}},
		{"nickname mention stripped", "hey <@!123456> hi", []string{"hey", "hi"}},
		{"custom emoji stripped", "lol <:pogchamp:98765> nice", []string{"lol", "nice"}},
		{"animated emoji stripped", "<a:wave:1234> morning", []string{"morning"}},
		{"lowercased", "The QUICK Fox", []string{"the", "quick", "fox"}},
		{"apostrophes kept", "don't worry it's fine", []string{"don't", "worry", "it's", "fine"}},
		{"short tokens dropped", "a i x ok", []string{"ok"}},
		{"bare s dropped", "the dog s bone", []string{"the", "dog", "bone"}},
		{"empty", "", nil},
		{"digits ignored", "call 911 now", []string{"call", "now"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Tokenize(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Tokenize(%q)=%v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAnalyzeWords_ClassifiesAgainstReferenceModel(t *testing.T) {
	t.Parallel()

	rep := AnalyzeWords(texts("the the the xqzzt"))

	if rep.TotalTokens != 4 {
		t.Fatalf("TotalTokens=%d, want 4", rep.TotalTokens)
	}
	if len(rep.Recognized) != 1 || rep.Recognized[0].Word != "the" || rep.Recognized[0].Count != 3 {
		t.Fatalf("Recognized=%+v, want [{the 3 _}]", rep.Recognized)
	}
	if len(rep.Anomalous) != 1 || rep.Anomalous[0].Word != "xqzzt" || rep.Anomalous[0].Count != 1 {
		t.Fatalf("Anomalous=%+v, want [{xqzzt 1}]", rep.Anomalous)
	}

	want := (3.0 / 4.0) / wordfreq.Frequency("the")
	if got := rep.Recognized[0].OveruseRatio; math.Abs(got-want) > 1e-9 {
		t.Fatalf("OveruseRatio=%v, want %v", got, want)
	}
}

func TestAnalyzeWords_URLContributesNothing(t *testing.T) {
	t.Parallel()

	rep := AnalyzeWords(texts("check http://x.com now"))
	if rep.TotalTokens != 2 {
		t.Fatalf("TotalTokens=%d, want 2 (check, now)", rep.TotalTokens)
	}
	for _, w := range rep.Anomalous {
		if w.Word == "http" || w.Word == "com" {
			t.Fatalf("URL fragment %q leaked into tokens", w.Word)
		}
	}
}

func TestAnalyzeWords_SortedViews(t *testing.T) {
	t.Parallel()

	rep := AnalyzeWords(texts(
		"zzyzx zzyzx zzyzx qwfp qwfp blorp",
		"the time time people people people",
	))

	for i := 1; i < len(rep.Anomalous); i++ {
		if rep.Anomalous[i].Count > rep.Anomalous[i-1].Count {
			t.Fatalf("anomalous not count-descending: %+v", rep.Anomalous)
		}
	}
	for i := 1; i < len(rep.Recognized); i++ {
		if rep.Recognized[i].OveruseRatio > rep.Recognized[i-1].OveruseRatio {
			t.Fatalf("recognized not ratio-descending: %+v", rep.Recognized)
		}
	}
}

func TestAnalyzeWords_Deterministic(t *testing.T) {
	t.Parallel()

	msgs := texts("one two three blorp", "two three blorp", "three blorp blorp")
	a := AnalyzeWords(msgs)
	b := AnalyzeWords(msgs)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("AnalyzeWords is not deterministic over identical input")
	}
}

func TestAnalyzeWords_EmptyCorpus(t *testing.T) {
	t.Parallel()

	rep := AnalyzeWords(nil)
	if rep.TotalTokens != 0 || len(rep.Recognized) != 0 || len(rep.Anomalous) != 0 {
		t.Fatalf("AnalyzeWords(nil)=%+v, want empty report", rep)
	}
}
