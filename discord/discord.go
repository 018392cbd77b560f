// Package discord loads a Discord data-export directory into the canonical
// message model.
//
// The export root holds an index.json mapping channel ids to display names
// and a tree of per-channel directories, each pairing a messages.json with a
// channel.json. Channels degrade individually: a malformed file, an empty
// message array, a missing index entry, or a placeholder name skips that one
// channel and the load keeps going. Only a missing/unreadable index is fatal.
package discord

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sillydata/message-miner/message"
)

// ErrNoIndex marks an export root with no readable index.json.
var ErrNoIndex = errors.New("discord: no index.json found")

// Display names the export uses as placeholders; channels carrying them
// contribute no messages and no summary row.
var placeholderNames = map[string]bool{
	"Unknown channel": true,
	"None":            true,
}

const dmPrefix = "Direct Message with "

// Result is one loaded export: the flat corpus plus the per-channel counts
// the channel summary is built from.
type Result struct {
	Corpus   message.Corpus
	Channels []message.ChannelCount
}

type channelMeta struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
}

type exportMessage struct {
	Timestamp string `json:"Timestamp"`
	Contents  string `json:"Contents"`
}

// Load reads the export rooted at base. Message order follows the lexical
// directory walk, so counts and summaries are stable for a given tree.
// Messages whose Timestamp does not parse keep a zero Time and stay in the
// corpus; time bucketing drops and tallies them later.
func Load(base string) (*Result, error) {
	root, index, err := findIndex(base)
	if err != nil {
		return nil, err
	}

	var res Result
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		msgPath := filepath.Join(path, "messages.json")
		chanPath := filepath.Join(path, "channel.json")
		if !fileExists(msgPath) || !fileExists(chanPath) {
			return nil
		}
		loadChannel(msgPath, chanPath, index, &res)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discord: walk export: %w", err)
	}

	res.Channels = message.SummarizeChannels(res.Corpus.Messages)
	return &res, nil
}

// findIndex locates index.json at base or base/messages and returns the
// directory it lives in plus the parsed id→name mapping.
func findIndex(base string) (string, map[string]string, error) {
	for _, dir := range []string{base, filepath.Join(base, "messages")} {
		path := filepath.Join(dir, "index.json")
		b, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", nil, fmt.Errorf("discord: read %s: %w", path, err)
		}
		var index map[string]string
		if err := json.Unmarshal(b, &index); err != nil {
			return "", nil, fmt.Errorf("discord: parse %s: %w", path, err)
		}
		return dir, index, nil
	}
	return "", nil, fmt.Errorf("%w under %s", ErrNoIndex, base)
}

// loadChannel appends one channel's messages to res, or skips the channel
// (counting it) when it can't contribute.
func loadChannel(msgPath, chanPath string, index map[string]string, res *Result) {
	var meta channelMeta
	if !readJSON(chanPath, &meta) {
		res.Corpus.SkippedChannels++
		return
	}

	var raw []exportMessage
	if !readJSON(msgPath, &raw) || len(raw) == 0 {
		res.Corpus.SkippedChannels++
		return
	}

	name, ok := index[meta.ID]
	if !ok {
		res.Corpus.SkippedChannels++
		return
	}
	name = cleanChannelName(name)
	if name == "" || placeholderNames[name] {
		res.Corpus.SkippedChannels++
		return
	}

	kind := channelKind(meta.Type)
	for _, m := range raw {
		res.Corpus.RowsRead++
		res.Corpus.Messages = append(res.Corpus.Messages, message.Message{
			Time:        parseTimestamp(m.Timestamp),
			Text:        m.Contents,
			ChannelKey:  name,
			ChannelKind: kind,
		})
	}
}

// cleanChannelName applies the export's display-name cleanup: drop the
// direct-message prefix and a literal trailing "#0".
//
// The suffix rule is exactly two characters, not a discriminator pattern:
// "alice#0" becomes "alice", while "user#0042" is left alone. That can
// truncate names whose raw form happens to end in "#0"; kept as-is for
// compatibility with existing summaries.
func cleanChannelName(name string) string {
	name = strings.TrimPrefix(name, dmPrefix)
	name = strings.TrimSuffix(name, "#0")
	return name
}

func channelKind(t string) message.ChannelKind {
	switch t {
	case "DM":
		return message.KindDirect
	case "GROUP_DM":
		return message.KindGroup
	case "GUILD_TEXT":
		return message.KindGuildText
	default:
		return message.KindNone
	}
}

// timestampLayouts covers the export's observed formats: ISO-8601 with and
// without offset, and the space-separated variant older exports use.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func readJSON(path string, v any) bool {
	b, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(b, v) == nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
