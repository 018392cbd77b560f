// Command report-schema emits the JSON Schema of the report document, for
// consumers that validate or generate bindings against message-report output.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"

	"github.com/sillydata/message-miner/fileutil"
	"github.com/sillydata/message-miner/report"
)

type Config struct {
	OutPath string
	Pretty  bool
}

func (c Config) Validate() error {
	if c.OutPath == "" {
		return errors.New("missing -out (use - for stdout)")
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		OutPath: "-",
		Pretty:  true,
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.OutPath, "out", cfg.OutPath, "Output path for the schema (- for stdout)")
	fs.BoolVar(&cfg.Pretty, "pretty", cfg.Pretty, "Pretty-print the schema JSON")

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

	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run(cfg Config) error {
	schema, err := reportSchema()
	if err != nil {
		return err
	}

	if cfg.OutPath == "-" {
		enc := json.NewEncoder(os.Stdout)
		if cfg.Pretty {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(schema)
	}
	return fileutil.WriteJSONFileAtomic(cfg.OutPath, schema, cfg.Pretty)
}

func reportSchema() (map[string]interface{}, error) {
	reflector := jsonschema.Reflector{
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	schema := reflector.Reflect(report.Report{})

	b, err := schema.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	return m, nil
}
