package main

import (
	"flag"
	"testing"
)

func TestParseFlags_Defaults(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("report-schema", flag.ContinueOnError)
	cfg, err := parseFlags(fs, nil)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.OutPath != "-" {
		t.Fatalf("OutPath=%q, want stdout default", cfg.OutPath)
	}
	if !cfg.Pretty {
		t.Fatal("Pretty=false, want true by default")
	}
}

func TestReportSchema_CoversTopLevelFields(t *testing.T) {
	t.Parallel()

	schema, err := reportSchema()
	if err != nil {
		t.Fatalf("reportSchema: %v", err)
	}
	props, ok := schema["properties"].(map[string]interface{})
	if !ok {
		t.Fatalf("schema has no properties object: %v", schema)
	}
	for _, field := range []string{
		"generated_at", "source", "timezone",
		"message_count", "channels", "timeline", "words", "emoji", "languages",
	} {
		if _, ok := props[field]; !ok {
			t.Fatalf("schema missing field %q (have %v)", field, keys(props))
		}
	}
}

func keys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
