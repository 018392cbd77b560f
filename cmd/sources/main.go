// Command sources manages the named source registry used by message-report:
// adding, removing, and listing the chat databases and export trees a user
// has registered.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sillydata/message-miner/registry"
)

type Config struct {
	Action       string
	Name         string
	Path         string
	Kind         string
	RegistryPath string
}

func (c Config) Validate() error {
	switch c.Action {
	case "list":
		return nil
	case "add":
		if c.Name == "" {
			return errors.New("missing -name")
		}
		if c.Path == "" {
			return errors.New("missing -path")
		}
	case "remove":
		if c.Name == "" {
			return errors.New("missing -name")
		}
	default:
		return fmt.Errorf("unknown action %q (want add, remove, or list)", c.Action)
	}
	switch registry.Kind(c.Kind) {
	case registry.KindIMessage, registry.KindDiscord:
		return nil
	default:
		return fmt.Errorf("kind must be %q or %q", registry.KindIMessage, registry.KindDiscord)
	}
}

func defaultConfig() Config {
	return Config{
		Action:       "list",
		Kind:         string(registry.KindIMessage),
		RegistryPath: "sources.yaml",
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.Name, "name", cfg.Name, "Source name")
	fs.StringVar(&cfg.Path, "path", cfg.Path, "Source path (chat database file or export root)")
	fs.StringVar(&cfg.Kind, "kind", cfg.Kind, "Source kind: imessage|discord")
	fs.StringVar(&cfg.RegistryPath, "registry", cfg.RegistryPath, "Path to the source registry file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() > 1 {
		return Config{}, fmt.Errorf("expected one action, got %v", fs.Args())
	}
	if fs.NArg() == 1 {
		cfg.Action = fs.Arg(0)
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

	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run(cfg Config) error {
	reg, err := registry.Load(cfg.RegistryPath)
	if err != nil {
		return err
	}

	switch cfg.Action {
	case "add":
		reg.Add(registry.Source{
			Name: cfg.Name,
			Path: cfg.Path,
			Kind: registry.Kind(cfg.Kind),
		})
		if err := registry.Save(cfg.RegistryPath, reg); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "added %s/%s -> %s\n", cfg.Kind, cfg.Name, cfg.Path)
		return nil

	case "remove":
		if !reg.Remove(registry.Kind(cfg.Kind), cfg.Name) {
			return fmt.Errorf("no %s source named %q", cfg.Kind, cfg.Name)
		}
		if err := registry.Save(cfg.RegistryPath, reg); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "removed %s/%s\n", cfg.Kind, cfg.Name)
		return nil

	case "list":
		printSources(os.Stdout, reg)
		return nil

	default:
		return fmt.Errorf("unknown action %q", cfg.Action)
	}
}

func printSources(w io.Writer, reg *registry.Registry) {
	total := 0
	for _, s := range append(append([]registry.Source{}, reg.IMessage...), reg.Discord...) {
		status := "missing"
		if s.Exists() {
			status = "ok"
		}
		fmt.Fprintf(w, "%-10s %-20s %-8s %s\n", s.Kind, s.Name, status, s.Path)
		total++
	}
	if total == 0 {
		fmt.Fprintln(w, "no sources registered")
	}
}
