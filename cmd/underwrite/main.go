package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"cre_underwriting/pkg/core/pipeline"
	"cre_underwriting/pkg/core/report"
	"cre_underwriting/pkg/core/scenario"
	"cre_underwriting/pkg/models"
)

// Defaults are the optional engine defaults loaded from config/defaults.yaml.
type Defaults struct {
	ScenarioDir string   `yaml:"scenario_dir"`
	OutputDir   string   `yaml:"output_dir"`
	Reports     []string `yaml:"reports"`
	Format      string   `yaml:"format"`
}

func loadDefaults(path string, log *logrus.Logger) Defaults {
	d := Defaults{
		ScenarioDir: "scenarios",
		OutputDir:   "reports",
		Reports:     []string{"lp", "gp", "lender"},
		Format:      "markdown",
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.WithField("path", path).Debug("no defaults file, using built-in defaults")
		return d
	}
	if err := yaml.Unmarshal(data, &d); err != nil {
		log.WithError(err).Warnf("ignoring malformed defaults file %s", path)
	}
	return d
}

func main() {
	log := logrus.New()

	if err := godotenv.Load(); err != nil {
		log.Debug(".env file not found, assuming environment variables are set")
	}

	var (
		defaultsPath = flag.String("defaults", "config/defaults.yaml", "engine defaults file")
		scenarioName = flag.String("scenario", "", "scenario name to load (required)")
		scenarioDir  = flag.String("dir", "", "scenario directory (overrides defaults file)")
		useDB        = flag.Bool("db", false, "load the scenario from Postgres (DATABASE_URL) instead of disk")
		reports      = flag.String("reports", "", "comma-separated report variants: lp,gp,lender")
		format       = flag.String("format", "", "report format: markdown, html, or xlsx")
		outDir       = flag.String("out", "", "report output directory")
		listOnly     = flag.Bool("list", false, "list saved scenarios and exit")
	)
	flag.Parse()

	cfg := loadDefaults(*defaultsPath, log)
	if *scenarioDir != "" {
		cfg.ScenarioDir = *scenarioDir
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}
	if *format != "" {
		cfg.Format = *format
	}
	if *reports != "" {
		cfg.Reports = strings.Split(*reports, ",")
	}

	if *listOnly {
		if err := listScenarios(cfg, *useDB); err != nil {
			log.Fatal(err)
		}
		return
	}

	if *scenarioName == "" {
		flag.Usage()
		log.Fatal("a -scenario name is required")
	}

	in, err := loadScenario(cfg, *scenarioName, *useDB)
	if err != nil {
		log.Fatal(err)
	}

	runID := uuid.New()
	log.WithFields(logrus.Fields{
		"run_id":   runID,
		"scenario": *scenarioName,
		"deal":     in.DealName,
	}).Info("running underwriting pipeline")

	res, err := pipeline.NewRunner(log).Run(in)
	if err != nil {
		log.Fatalf("pipeline failed: %v", err)
	}

	printSummary(res)

	if len(cfg.Reports) > 0 {
		if err := emitReports(cfg, *scenarioName, res); err != nil {
			log.Fatal(err)
		}
	}
}

func loadScenario(cfg Defaults, name string, useDB bool) (*models.DealInputs, error) {
	if useDB {
		ctx := context.Background()
		repo, err := scenario.OpenRepo(ctx)
		if err != nil {
			return nil, err
		}
		defer repo.Close()
		return repo.Load(ctx, name)
	}
	store, err := scenario.NewFileStore(cfg.ScenarioDir)
	if err != nil {
		return nil, err
	}
	return store.Load(name, nil)
}

func listScenarios(cfg Defaults, useDB bool) error {
	var names []string
	var err error
	if useDB {
		ctx := context.Background()
		var repo *scenario.Repo
		repo, err = scenario.OpenRepo(ctx)
		if err != nil {
			return err
		}
		defer repo.Close()
		names, err = repo.List(ctx)
	} else {
		var store *scenario.FileStore
		store, err = scenario.NewFileStore(cfg.ScenarioDir)
		if err == nil {
			names, err = store.List()
		}
	}
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Println(n)
	}
	return nil
}

func printSummary(res *pipeline.Result) {
	fmt.Printf("\n%s\n", res.Inputs.DealName)
	fmt.Printf("  Purchase Price:  %s\n", report.Dollars(res.Inputs.PurchasePrice))
	fmt.Printf("  Initial Loan:    %s\n", report.Dollars(res.Financing.InitialLoanAmount))
	fmt.Printf("  Total Equity:    %s  (LP %s / GP %s)\n",
		report.Dollars(res.Financing.TotalEquityNeeded),
		report.Dollars(res.Financing.LPEquity), report.Dollars(res.Financing.GPEquity))
	fmt.Printf("  Exit Sale Price: %s  at %s cap\n",
		report.Dollars(res.Exit.SalePrice), report.Pct(res.Inputs.ExitCapRate))
	fmt.Printf("  Deal IRR: %s   LP IRR: %s   GP IRR: %s\n",
		report.PctPtr(res.Returns.Deal.IRR), report.PctPtr(res.Returns.LP.IRR), report.PctPtr(res.Returns.GP.IRR))
	fmt.Printf("  LP Multiple: %s   GP Multiple: %s\n",
		report.Multiple(res.Returns.LP.EquityMultiple), report.Multiple(res.Returns.GP.EquityMultiple))
	fmt.Printf("  Min DSCR: %s (year %d)\n", report.Multiple(res.Debt.MinDSCR), res.Debt.MinDSCRYear)
	for _, w := range res.Debt.Warnings {
		fmt.Printf("  ! %s\n", w)
	}
	fmt.Println()
}

func emitReports(cfg Defaults, name string, res *pipeline.Result) error {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	builder := report.NewBuilder()

	for _, raw := range cfg.Reports {
		variant := report.Variant(strings.TrimSpace(raw))
		base := filepath.Join(cfg.OutputDir, fmt.Sprintf("%s_%s", name, variant))

		switch cfg.Format {
		case "markdown", "md", "":
			md, err := builder.Markdown(variant, res)
			if err != nil {
				return err
			}
			if err := os.WriteFile(base+".md", []byte(md), 0o644); err != nil {
				return fmt.Errorf("failed to write %s report: %w", variant, err)
			}
		case "html":
			out, err := builder.HTML(variant, res)
			if err != nil {
				return err
			}
			if err := os.WriteFile(base+".html", out, 0o644); err != nil {
				return fmt.Errorf("failed to write %s report: %w", variant, err)
			}
		case "xlsx":
			// The workbook carries every table, one file covers all variants.
			f, err := report.Workbook(res)
			if err != nil {
				return err
			}
			path := filepath.Join(cfg.OutputDir, name+".xlsx")
			if err := f.SaveAs(path); err != nil {
				f.Close()
				return fmt.Errorf("failed to write workbook: %w", err)
			}
			f.Close()
			fmt.Printf("wrote %s\n", path)
			return nil
		default:
			return fmt.Errorf("unknown report format %q", cfg.Format)
		}
		fmt.Printf("wrote %s report for %s\n", variant, name)
	}
	return nil
}
