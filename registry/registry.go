// Package registry persists the user's named message sources: a YAML file
// mapping source names to filesystem paths, one list per source kind. The
// pipeline itself never touches this file; callers resolve a name to a path
// and kind here and hand the result to an adapter.
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sillydata/message-miner/fileutil"
)

// Kind discriminates the two supported source kinds.
type Kind string

const (
	KindIMessage Kind = "imessage"
	KindDiscord  Kind = "discord"
)

// DefaultIMessagePath is where macOS keeps the chat database.
const DefaultIMessagePath = "~/Library/Messages/chat.db"

// ErrNotFound is returned when no source carries the requested name.
var ErrNotFound = errors.New("registry: source not found")

// Source is one named entry.
type Source struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
	Kind Kind   `yaml:"-"`
}

// Registry is the persisted name→path mapping, grouped by kind.
type Registry struct {
	IMessage []Source `yaml:"imessage"`
	Discord  []Source `yaml:"discord"`
}

// Load reads the registry file. A missing file is an empty registry, not an
// error.
func Load(path string) (*Registry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Registry{}, nil
		}
		return nil, fmt.Errorf("registry: read %s: %w", path, err)
	}
	var r Registry
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("registry: parse %s: %w", path, err)
	}
	r.tagKinds()
	return &r, nil
}

// Save writes the registry atomically.
func Save(path string, r *Registry) error {
	b, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("registry: marshal: %w", err)
	}
	if err := fileutil.WriteFileAtomicSameDir(path, b, 0o644); err != nil {
		return fmt.Errorf("registry: write %s: %w", path, err)
	}
	return nil
}

// Add appends a source, replacing any existing entry of the same kind and
// name.
func (r *Registry) Add(s Source) {
	list := r.listFor(s.Kind)
	if list == nil {
		return
	}
	for i := range *list {
		if (*list)[i].Name == s.Name {
			(*list)[i] = s
			return
		}
	}
	*list = append(*list, s)
}

// Remove deletes the named source of the given kind and reports whether an
// entry was removed.
func (r *Registry) Remove(kind Kind, name string) bool {
	list := r.listFor(kind)
	if list == nil {
		return false
	}
	for i := range *list {
		if (*list)[i].Name == name {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return true
		}
	}
	return false
}

// Resolve finds the named source of the given kind and returns it with its
// path tilde-expanded.
func (r *Registry) Resolve(kind Kind, name string) (Source, error) {
	list := r.listFor(kind)
	if list == nil {
		return Source{}, fmt.Errorf("registry: unknown kind %q", kind)
	}
	for _, s := range *list {
		if s.Name == name {
			s.Path = ExpandPath(s.Path)
			return s, nil
		}
	}
	return Source{}, fmt.Errorf("%w: %s/%s", ErrNotFound, kind, name)
}

// Exists probes whether the source's path looks like a usable source of its
// kind: a chat database must be a regular file; a Discord export root needs
// either a messages/ subtree or an index.json.
func (s Source) Exists() bool {
	path := ExpandPath(s.Path)
	switch s.Kind {
	case KindIMessage:
		info, err := os.Stat(path)
		return err == nil && info.Mode().IsRegular()
	case KindDiscord:
		if info, err := os.Stat(filepath.Join(path, "messages")); err == nil && info.IsDir() {
			return true
		}
		return fileutil.FileExists(filepath.Join(path, "index.json"))
	default:
		return false
	}
}

// ExpandPath resolves a leading ~ against the current user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func (r *Registry) listFor(kind Kind) *[]Source {
	switch kind {
	case KindIMessage:
		return &r.IMessage
	case KindDiscord:
		return &r.Discord
	default:
		return nil
	}
}

// tagKinds stamps the kind onto entries after unmarshalling, since the YAML
// layout encodes kind by section rather than per entry.
func (r *Registry) tagKinds() {
	for i := range r.IMessage {
		r.IMessage[i].Kind = KindIMessage
	}
	for i := range r.Discord {
		r.Discord[i].Kind = KindDiscord
	}
}
