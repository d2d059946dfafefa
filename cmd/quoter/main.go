package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"

	debugFlag  = "debug"
	formatFlag = "format"
)

var version = "v0.0.1-default"

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("fatal error")
	}
}

func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "quoter",
		Version: version,
		Usage:   "Quote PyME credit guarantees from the command line",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: debugFlag, Usage: "Prints verbose logs"},
			&cli.StringFlag{Name: formatFlag, Usage: "Output format [text, json, yaml]", Value: formatText},
		},
		Commands: []*cli.Command{
			quoteCmd(out),
			catalogCmd("sectors", "List SCIAN sectors", out),
			catalogCmd("states", "List Mexican states", out),
			termsCmd(out),
			fitCmd(out),
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			initLogging(cmd.Bool(debugFlag))
			switch f := cmd.String(formatFlag); f {
			case formatText, formatJSON, formatYAML, "yml":
			default:
				return ctx, fmt.Errorf("unsupported format %q", f)
			}
			return ctx, nil
		},
	}
}

func initLogging(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// writeStructured prints v as JSON or YAML. YAML keys follow the JSON tags.
func writeStructured(out io.Writer, format string, v any) error {
	if format == formatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	var generic any
	if err := json.Unmarshal(b, &generic); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	enc := yaml.NewEncoder(out)
	defer enc.Close()
	enc.SetIndent(2)
	return enc.Encode(generic)
}
