package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"cre_underwriting/pkg/core/pipeline"
	"cre_underwriting/pkg/core/scenario"
	"cre_underwriting/pkg/core/sensitivity"
)

func parseAxis(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid axis value %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func main() {
	log := logrus.New()

	if err := godotenv.Load(); err != nil {
		log.Debug(".env file not found, assuming environment variables are set")
	}

	var (
		scenarioName = flag.String("scenario", "", "scenario name to sweep (required)")
		scenarioDir  = flag.String("dir", "scenarios", "scenario directory")
		ratesArg     = flag.String("rates", "", "comma-separated perm rates in % (default: base rate ±1.0)")
		capsArg      = flag.String("caps", "", "comma-separated exit cap rates in % (default: 5.0-8.0)")
		showLP       = flag.Bool("lp", false, "print LP IRRs instead of deal IRRs")
	)
	flag.Parse()

	if *scenarioName == "" {
		flag.Usage()
		log.Fatal("a -scenario name is required")
	}

	store, err := scenario.NewFileStore(*scenarioDir)
	if err != nil {
		log.Fatal(err)
	}
	base, err := store.Load(*scenarioName, nil)
	if err != nil {
		log.Fatal(err)
	}

	rates, err := parseAxis(*ratesArg)
	if err != nil {
		log.Fatal(err)
	}
	caps, err := parseAxis(*capsArg)
	if err != nil {
		log.Fatal(err)
	}

	sweeper := sensitivity.NewSweeper(pipeline.NewRunner(log), log)
	grid := sweeper.Run(base, rates, caps)

	metric := "Deal IRR"
	if *showLP {
		metric = "LP IRR"
	}
	fmt.Printf("\n%s sensitivity: %s (rows = perm rate %%, cols = exit cap %%)\n\n", base.DealName, metric)

	fmt.Printf("%8s", "")
	for _, c := range grid.ExitCaps {
		fmt.Printf("%9.1f", c)
	}
	fmt.Println()

	for i, rate := range grid.PermRates {
		fmt.Printf("%7.2f ", rate)
		for j := range grid.ExitCaps {
			cell := grid.Cells[i][j]
			irr := cell.DealIRR
			if *showLP {
				irr = cell.LPIRR
			}
			if irr == nil {
				fmt.Printf("%9s", "N/A")
			} else {
				fmt.Printf("%8.1f%%", *irr*100)
			}
		}
		fmt.Println()
	}
	fmt.Println()
}
