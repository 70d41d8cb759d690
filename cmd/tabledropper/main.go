package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/alexanderjulianmartinez/table-dropper/internal/audit"
	"github.com/alexanderjulianmartinez/table-dropper/internal/config"
	"github.com/alexanderjulianmartinez/table-dropper/internal/engine"
	"github.com/alexanderjulianmartinez/table-dropper/internal/executor"
	"github.com/alexanderjulianmartinez/table-dropper/internal/logging"
	"github.com/alexanderjulianmartinez/table-dropper/pkg/types"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "tabledropper error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 2 {
		printUsage()
		return nil
	}

	switch args[1] {
	case "list":
		return runList(args[2:])
	case "drop":
		return runDrop(args[2:])
	case "help", "--help", "-h":
		printUsage()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", args[1])
	}
}

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to config.yaml")
	namespaceFlag := fs.String("namespace", "", "catalog.schema to list (overrides config default)")
	verbose := fs.Bool("verbose", false, "Verbose logging")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, eng, cleanup, err := buildEngine(*configPath, *verbose)
	if err != nil {
		return err
	}
	defer cleanup()

	ns := pickNamespace(*namespaceFlag, cfg)
	if ns == "" {
		return fmt.Errorf("missing required flag: --namespace (no default in config)")
	}

	fmt.Printf("Loading tables from %s...\n", ns)
	inv, err := eng.Load(context.Background(), ns)
	if err != nil {
		return err
	}

	if len(inv) == 0 {
		fmt.Println("No tables found.")
		return nil
	}
	for _, rec := range inv {
		fmt.Printf("%s (%s)\n", rec.Name, rec.Created)
	}
	fmt.Printf("Found %d tables.\n", len(inv))
	return nil
}

func runDrop(args []string) error {
	fs := flag.NewFlagSet("drop", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to config.yaml")
	namespaceFlag := fs.String("namespace", "", "catalog.schema to drop from (overrides config default)")
	tablesFlag := fs.String("tables", "", "Comma-separated table names to drop")
	all := fs.Bool("all", false, "Select every table in the namespace")
	execute := fs.Bool("execute", false, "Really drop; default is a dry-run preview")
	verbose := fs.Bool("verbose", false, "Verbose logging")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *tablesFlag == "" && !*all {
		return fmt.Errorf("nothing selected: pass --tables or --all")
	}
	if *tablesFlag != "" && *all {
		return fmt.Errorf("--tables and --all are mutually exclusive")
	}

	cfg, eng, cleanup, err := buildEngine(*configPath, *verbose)
	if err != nil {
		return err
	}
	defer cleanup()

	ns := pickNamespace(*namespaceFlag, cfg)
	if ns == "" {
		return fmt.Errorf("missing required flag: --namespace (no default in config)")
	}

	ctx := context.Background()

	fmt.Printf("Loading tables from %s...\n", ns)
	if _, err := eng.Load(ctx, ns); err != nil {
		return err
	}

	if *all {
		if err := eng.SelectAll(true); err != nil {
			return err
		}
	} else {
		for _, name := range strings.Split(*tablesFlag, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if err := eng.Toggle(name, true); err != nil {
				return err
			}
		}
	}

	mode := types.ModePreview
	if *execute {
		mode = types.ModeExecute
	}

	report, err := eng.Drop(ctx, mode)
	if err != nil {
		return err
	}

	render(report)
	return nil
}

// render is the result reporter: it turns a DropReport into the operator's
// console output.
func render(report *types.DropReport) {
	if report.NoSelection {
		fmt.Println("No tables selected.")
		return
	}

	if report.Mode == types.ModePreview {
		fmt.Println("--- DRY RUN MODE ---")
		fmt.Printf("The following %d tables would be DROPPED:\n", len(report.Results))
	} else {
		fmt.Println("--- EXECUTING DROP ---")
	}

	for _, res := range report.Results {
		qualified := report.Namespace + "." + res.Table
		switch {
		case res.Preview:
			fmt.Printf("[Dry Run] %s;\n", res.Statement)
		case res.Status == types.StatusDropped:
			fmt.Printf("Dropped: %s\n", qualified)
		case res.Status == types.StatusSkipped:
			fmt.Printf("Skipped %s: %s\n", qualified, res.Detail)
		case res.Status == types.StatusFailed:
			fmt.Printf("Failed to drop %s: %s\n", qualified, res.Detail)
		}
	}

	if report.AuditError != "" {
		fmt.Fprintf(os.Stderr, "warning: audit trail not written: %s\n", report.AuditError)
	}
	if report.Complete {
		fmt.Println("Done.")
	}
}

func buildEngine(configPath string, verbose bool) (*config.Config, *engine.Engine, func(), error) {
	if configPath == "" {
		return nil, nil, nil, fmt.Errorf("missing required flag: --config")
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	logger, flush := logging.New(verbose)

	exec, err := executor.NewMySQL(cfg.Source.DSN)
	if err != nil {
		flush()
		return nil, nil, nil, err
	}

	eng := engine.New(exec)
	cleanup := func() {
		exec.Close()
		flush()
	}

	if cfg.Audit.Enabled {
		publisher := audit.NewKafkaPublisher(cfg.Audit.Brokers, cfg.Audit.Topic)
		eng = eng.WithPublisher(publisher)
		logger.Debug("audit trail enabled",
			zap.Strings("brokers", cfg.Audit.Brokers),
			zap.String("topic", cfg.Audit.Topic))
		prev := cleanup
		cleanup = func() {
			publisher.Close()
			prev()
		}
	}

	return cfg, eng, cleanup, nil
}

func pickNamespace(flagValue string, cfg *config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	return cfg.Defaults.Namespace
}

func printUsage() {
	fmt.Print(`tabledropper - bulk table drop tool with a dry-run default

Usage:
  tabledropper list --config <path> [--namespace catalog.schema]
  tabledropper drop --config <path> [--namespace catalog.schema] (--tables t1,t2 | --all) [--execute]

Commands:
  list      List tables in a namespace, oldest first
  drop      Preview (default) or execute drops for the selected tables
  help      Show this help message

Drops are previewed unless --execute is given.
`)
}
