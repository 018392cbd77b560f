// Command message-report loads one message source (an iMessage chat database
// or a Discord export tree), runs the full analysis pass over it, and writes
// the resulting report document as JSON.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sillydata/message-miner/discord"
	"github.com/sillydata/message-miner/fileutil"
	"github.com/sillydata/message-miner/imessage"
	"github.com/sillydata/message-miner/message"
	"github.com/sillydata/message-miner/registry"
	"github.com/sillydata/message-miner/report"
)

type Config struct {
	Kind         string
	Source       string
	Path         string
	RegistryPath string
	OutPath      string
	Timezone     string
	Pretty       bool

	MaxChannels int
	MaxWords    int
	MaxEmoji    int
}

func (c Config) Validate() error {
	switch registry.Kind(c.Kind) {
	case registry.KindIMessage, registry.KindDiscord:
	default:
		return fmt.Errorf("kind must be %q or %q", registry.KindIMessage, registry.KindDiscord)
	}
	if c.Source == "" && c.Path == "" {
		return errors.New("missing -source or -path")
	}
	if c.Source != "" && c.Path != "" {
		return errors.New("-source and -path are mutually exclusive")
	}
	if c.OutPath == "" {
		return errors.New("missing -out")
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		Kind:         string(registry.KindIMessage),
		RegistryPath: "sources.yaml",
		OutPath:      "report.json",
		Timezone:     "UTC",
		MaxWords:     200,
		MaxEmoji:     50,
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.Kind, "kind", cfg.Kind, "Source kind: imessage|discord")
	fs.StringVar(&cfg.Source, "source", cfg.Source, "Registry name of the source to analyze")
	fs.StringVar(&cfg.Path, "path", cfg.Path, "Explicit source path (chat database file or export root); bypasses the registry")
	fs.StringVar(&cfg.RegistryPath, "registry", cfg.RegistryPath, "Path to the source registry file")
	fs.StringVar(&cfg.OutPath, "out", cfg.OutPath, "Output path for the report JSON")
	fs.StringVar(&cfg.Timezone, "tz", cfg.Timezone, "IANA timezone for the activity timeline (e.g. America/Edmonton)")
	fs.BoolVar(&cfg.Pretty, "pretty", cfg.Pretty, "Pretty-print the report JSON")

	fs.IntVar(&cfg.MaxChannels, "max-channels", cfg.MaxChannels, "Limit channel summary rows (0 = all)")
	fs.IntVar(&cfg.MaxWords, "max-words", cfg.MaxWords, "Limit rows in each word table (0 = all)")
	fs.IntVar(&cfg.MaxEmoji, "max-emoji", cfg.MaxEmoji, "Limit emoji rows (0 = all)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config) error {
	src, err := resolveSource(cfg)
	if err != nil {
		return err
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	corpus, err := loadCorpus(ctx, src)
	if err != nil {
		return err
	}

	rep := report.Build(corpus, report.SourceInfo{
		Name: src.Name,
		Kind: string(src.Kind),
		Path: src.Path,
	}, loc, report.Options{
		MaxChannels: cfg.MaxChannels,
		MaxWords:    cfg.MaxWords,
		MaxEmoji:    cfg.MaxEmoji,
	})

	if err := fileutil.WriteJSONFileAtomic(cfg.OutPath, rep, cfg.Pretty); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "messages=%d channels=%d dropped_timestamps=%d out=%s\n",
		rep.MessageCount, len(rep.Channels), rep.DroppedTimestamps, cfg.OutPath)
	return nil
}

// resolveSource turns the flags into a concrete source: either the registry
// entry named by -source, or an ad-hoc entry for an explicit -path.
func resolveSource(cfg Config) (registry.Source, error) {
	kind := registry.Kind(cfg.Kind)
	if cfg.Path != "" {
		return registry.Source{Path: registry.ExpandPath(cfg.Path), Kind: kind}, nil
	}
	reg, err := registry.Load(cfg.RegistryPath)
	if err != nil {
		return registry.Source{}, err
	}
	return reg.Resolve(kind, cfg.Source)
}

func loadCorpus(ctx context.Context, src registry.Source) (*message.Corpus, error) {
	switch src.Kind {
	case registry.KindIMessage:
		return imessage.Load(ctx, src.Path)
	case registry.KindDiscord:
		res, err := discord.Load(src.Path)
		if err != nil {
			return nil, err
		}
		return &res.Corpus, nil
	default:
		return nil, fmt.Errorf("unsupported source kind %q", src.Kind)
	}
}
