// Command typecheck is a demo/smoke-test driver over the type-checker
// core: it is not a parser or CLI front-end for a real language — it
// builds a handful of synthetic programs
// directly against internal/place/internal/ir and runs them through
// internal/infer, printing the inferred types and any diagnostics raised.
// Grounded on AILANG's cmd/ailang/main.go flag+fatih/color idiom and its
// own cmd/typecheck/main.go's role as a standalone inference demo.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/sunholo/tycore/internal/diag"
	"github.com/sunholo/tycore/internal/engineconfig"
)

var (
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
)

func main() {
	var (
		configPath = flag.String("config", "", "path to an engineconfig YAML file (defaults built in if omitted)")
		only       = flag.String("only", "", "run a single demo by name instead of all of them")
		listFlag   = flag.Bool("list", false, "list available demos and exit")
	)
	flag.Parse()

	if *listFlag {
		for _, d := range demos() {
			fmt.Printf("  %s — %s\n", bold(d.Name), d.Description)
		}
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}
	fmt.Printf("%s max_query_iterations=%d cache_buckets=%d worker_count=%d\n\n",
		faint("engine config:"), cfg.MaxQueryIterations, cfg.CacheBuckets, cfg.WorkerCount)

	failed := false
	for _, d := range demos() {
		if *only != "" && d.Name != *only {
			continue
		}
		fmt.Println(bold(d.Name) + " — " + d.Description)
		out := d.Run()
		for _, te := range out.Types {
			fmt.Printf("  %s : %s\n", cyan(te.Label), te.Type.String())
		}
		for _, rep := range out.Diagnostics {
			if rep.Severity == diag.SeverityError {
				failed = true
			}
			fmt.Printf("  %s\n", renderDiagnostic(rep))
		}
		if len(out.Diagnostics) == 0 {
			fmt.Println("  " + green("no diagnostics"))
		}
		fmt.Println()
	}

	if failed {
		os.Exit(1)
	}
}

// loadConfig reads an engineconfig YAML file if path is non-empty, falling
// back to engineconfig.Default() otherwise.
func loadConfig(path string) (engineconfig.Config, error) {
	if path == "" {
		return engineconfig.Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return engineconfig.Config{}, fmt.Errorf("read config: %w", err)
	}
	return engineconfig.Load(data)
}

// renderDiagnostic colorizes a report by severity, the same red/yellow/cyan
// convention cmd/ailang/main.go uses for its own CLI output.
func renderDiagnostic(rep *diag.Report) string {
	switch rep.Severity {
	case diag.SeverityError:
		return fmt.Sprintf("%s [%s] %s", red("error"), rep.Code, rep.Message)
	case diag.SeverityWarning:
		return fmt.Sprintf("%s [%s] %s", yellow("warning"), rep.Code, rep.Message)
	default:
		return fmt.Sprintf("%s [%s] %s", cyan("info"), rep.Code, rep.Message)
	}
}
