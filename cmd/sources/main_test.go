package main

import (
	"flag"
	"path/filepath"
	"testing"

	"github.com/sillydata/message-miner/registry"
)

func TestParseFlags_ActionAndOverrides(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("sources", flag.ContinueOnError)
	cfg, err := parseFlags(fs, []string{
		"-name", "personal",
		"-path", "/data/chat.db",
		"-kind", "imessage",
		"-registry", "reg.yaml",
		"add",
	})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.Action != "add" {
		t.Fatalf("Action=%q, want add", cfg.Action)
	}
	if cfg.Name != "personal" || cfg.Path != "/data/chat.db" {
		t.Fatalf("cfg=%+v, want name/path from flags", cfg)
	}
	if cfg.RegistryPath != "reg.yaml" {
		t.Fatalf("RegistryPath=%q, want reg.yaml", cfg.RegistryPath)
	}
}

func TestParseFlags_DefaultsToList(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("sources", flag.ContinueOnError)
	cfg, err := parseFlags(fs, nil)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.Action != "list" {
		t.Fatalf("Action=%q, want list default", cfg.Action)
	}
}

func TestParseFlags_RejectsExtraArgs(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("sources", flag.ContinueOnError)
	if _, err := parseFlags(fs, []string{"add", "remove"}); err == nil {
		t.Fatal("expected error for two actions")
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	if err := (Config{Action: "list", Kind: "imessage"}).Validate(); err != nil {
		t.Fatalf("list: %v", err)
	}
	if err := (Config{Action: "add", Kind: "imessage"}).Validate(); err == nil {
		t.Fatal("expected error for add without -name")
	}
	if err := (Config{Action: "add", Name: "x", Kind: "imessage"}).Validate(); err == nil {
		t.Fatal("expected error for add without -path")
	}
	if err := (Config{Action: "remove", Name: "x", Kind: "discord"}).Validate(); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := (Config{Action: "remove", Name: "x", Kind: "fax"}).Validate(); err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if err := (Config{Action: "compact"}).Validate(); err == nil {
		t.Fatal("expected error for unknown action")
	}
}

func TestRun_AddRemoveRoundTrip(t *testing.T) {
	t.Parallel()

	regPath := filepath.Join(t.TempDir(), "sources.yaml")

	add := Config{
		Action:       "add",
		Name:         "export-2024",
		Path:         "/data/discord",
		Kind:         "discord",
		RegistryPath: regPath,
	}
	if err := run(add); err != nil {
		t.Fatalf("run add: %v", err)
	}

	reg, err := registry.Load(regPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := reg.Resolve(registry.KindDiscord, "export-2024"); err != nil {
		t.Fatalf("Resolve after add: %v", err)
	}

	remove := add
	remove.Action = "remove"
	if err := run(remove); err != nil {
		t.Fatalf("run remove: %v", err)
	}
	if err := run(remove); err == nil {
		t.Fatal("expected error removing an absent source")
	}
}
