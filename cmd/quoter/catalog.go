package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/anyulbade/pyme-guarantee-quoter/internal/model"
)

func catalogCmd(name, usage string, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Action: func(_ context.Context, cmd *cli.Command) error {
			entries := model.Sectors()
			if name == "states" {
				entries = model.States()
			}

			if f := cmd.String(formatFlag); f != formatText {
				return writeStructured(out, f, entries)
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\n", e.Code, e.Name)
			}
			return w.Flush()
		},
	}
}

func termsCmd(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "terms",
		Usage: "List offered loan terms in months",
		Action: func(_ context.Context, cmd *cli.Command) error {
			if f := cmd.String(formatFlag); f != formatText {
				return writeStructured(out, f, model.TermMenu)
			}
			for _, t := range model.TermMenu {
				fmt.Fprintln(out, t)
			}
			return nil
		},
	}
}
