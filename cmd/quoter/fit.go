package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/anyulbade/pyme-guarantee-quoter/internal/artifact"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/dataset"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/features"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/model"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/policy"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/preprocess"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/risk"
)

func fitCmd(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "fit",
		Usage: "Fit the preprocessing transform from historical loans and write a bundle with baseline scorers",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Usage: "CSV of historical loans", Required: true},
			&cli.StringFlag{Name: "output", Usage: "Bundle file to write", Value: "artifacts/bundle.json"},
			&cli.StringFlag{Name: "bundle-version", Usage: "Bundle version label (defaults to a timestamp)"},
			&cli.FloatFlag{Name: "calibration", Usage: "Calibration factor applied to expected loss", Value: 1},
			&cli.FloatFlag{Name: "pd-intercept", Usage: "Override the PD log-odds intercept"},
			&cli.FloatFlag{Name: "lgd-intercept", Usage: "Override the LGD intercept"},
			&cli.StringFlag{Name: "policy", Usage: "Path to a YAML pricing policy", Sources: cli.EnvVars("POLICY_PATH")},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			f, err := os.Open(cmd.String("input"))
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer f.Close()

			loans, err := dataset.ReadLoans(f)
			if err != nil {
				return err
			}

			pol, err := policy.Load(cmd.String("policy"))
			if err != nil {
				return err
			}

			rows := dataset.Records(features.NewDeriver(pol.Guarantee), loans)
			tr, err := preprocess.Fit(model.NumericFeatures, model.CategoricalFeatures, rows)
			if err != nil {
				return err
			}

			pdIntercept, lgdIntercept := dataset.Baseline(loans)
			if cmd.IsSet("pd-intercept") {
				pdIntercept = cmd.Float("pd-intercept")
			}
			if cmd.IsSet("lgd-intercept") {
				lgdIntercept = cmd.Float("lgd-intercept")
			}

			ver := cmd.String("bundle-version")
			if ver == "" {
				ver = time.Now().UTC().Format("20060102T150405Z")
			}

			doc := artifact.NewDocument(ver, tr,
				risk.LinearModel{Intercept: pdIntercept, Coefficients: make([]float64, tr.Width())},
				risk.LinearModel{Intercept: lgdIntercept, Coefficients: make([]float64, tr.Width())},
				cmd.Float("calibration"))
			if err := artifact.Save(cmd.String("output"), doc); err != nil {
				return err
			}

			log.Info().
				Str("output", cmd.String("output")).
				Str("version", ver).
				Int("rows", len(loans)).
				Int("columns", tr.Width()).
				Msg("bundle written")
			fmt.Fprintf(out, "wrote %s (version %s, %d rows, %d columns)\n", cmd.String("output"), ver, len(loans), tr.Width())
			return nil
		},
	}
}
