package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/anyulbade/pyme-guarantee-quoter/internal/artifact"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/model"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/policy"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/quote"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/service"
)

func quoteCmd(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "quote",
		Usage: "Quote a guarantee for one loan",
		Flags: []cli.Flag{
			&cli.FloatFlag{Name: "amount", Usage: "Approved loan amount (MXN)", Required: true},
			&cli.IntFlag{Name: "term", Usage: "Term in months", Value: 36},
			&cli.IntFlag{Name: "employees", Usage: "Number of employees"},
			&cli.BoolFlag{Name: "new-business", Usage: "Business is less than two years old"},
			&cli.StringFlag{Name: "sector", Usage: "2-digit SCIAN sector code", Required: true},
			&cli.StringFlag{Name: "state", Usage: "State abbreviation, e.g. JAL", Required: true},
			&cli.FloatFlag{Name: "rate", Usage: "Annual bank rate in percent", Value: 12},
			&cli.BoolFlag{Name: "real-estate", Usage: "Loan is backed by real estate"},
			&cli.BoolFlag{Name: "recession", Usage: "Quote under recession conditions"},
			&cli.StringFlag{Name: "bundle", Usage: "Path to the model bundle", Value: "artifacts/bundle.json", Sources: cli.EnvVars("MODEL_BUNDLE_PATH")},
			&cli.StringFlag{Name: "policy", Usage: "Path to a YAML pricing policy", Sources: cli.EnvVars("POLICY_PATH")},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			req := model.LoanRequest{
				ApprovedAmount: cmd.Float("amount"),
				TermMonths:     int(cmd.Int("term")),
				NumEmployees:   int(cmd.Int("employees")),
				IsNewBusiness:  cmd.Bool("new-business"),
				ScianCode:      cmd.String("sector"),
				StateCode:      strings.ToUpper(cmd.String("state")),
				BankRate:       cmd.Float("rate"),
				HasRealEstate:  cmd.Bool("real-estate"),
				InRecession:    cmd.Bool("recession"),
			}
			if !model.InTermMenu(req.TermMonths) {
				return fmt.Errorf("term %d is not offered, choose one of %v", req.TermMonths, model.TermMenu)
			}

			pol, err := policy.Load(cmd.String("policy"))
			if err != nil {
				return err
			}

			svc := service.NewQuoteService(artifact.NewLoader(cmd.String("bundle")), quote.NewCalculator(pol), nil, 0)
			res, err := svc.Quote(ctx, req)
			if err != nil {
				return err
			}

			if f := cmd.String(formatFlag); f != formatText {
				return writeStructured(out, f, res)
			}
			return printQuote(out, req, res)
		},
	}
}

func printQuote(out io.Writer, req model.LoanRequest, res *service.QuoteResult) error {
	q := res.Quote
	sector := model.SectoresSCIAN[req.ScianCode]
	state := model.EstadosMexico[req.StateCode]

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "COTIZACIÓN DE GARANTÍA PyME\t\n")
	fmt.Fprintf(w, "Modelo\t%s\n", res.BundleVersion)
	fmt.Fprintf(w, "Sector\t%s %s\n", req.ScianCode, sector)
	fmt.Fprintf(w, "Estado\t%s %s\n", req.StateCode, state)
	fmt.Fprintf(w, "\t\n")
	fmt.Fprintf(w, "Monto aprobado\t%s\n", money(q.ApprovedAmount))
	fmt.Fprintf(w, "Monto garantizado\t%s\n", money(q.GuaranteedAmount))
	fmt.Fprintf(w, "Probabilidad de default\t%.2f%%\n", q.PD*100)
	fmt.Fprintf(w, "Severidad (LGD)\t%s\n", money(q.LGD))
	fmt.Fprintf(w, "Pérdida esperada\t%s\n", money(q.ExpectedLoss))
	fmt.Fprintf(w, "Comisión de garantía\t%s (%.2f%%)\n", money(q.GuaranteeFee), q.FeePct*100)
	fmt.Fprintf(w, "Total financiado\t%s\n", money(q.TotalFinanced))
	fmt.Fprintf(w, "Pago mensual\t%s x %d meses al %.2f%%\n", money(q.MonthlyPayment), q.TermMonths, q.BankRate)
	fmt.Fprintf(w, "\t\n")
	fmt.Fprintf(w, "Categoría\t%s\n", q.Category)
	fmt.Fprintf(w, "Nivel de riesgo\t%s\n", q.RiskLevel)
	fmt.Fprintf(w, "Acción\t%s\n", q.Action)
	return w.Flush()
}

func money(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}
