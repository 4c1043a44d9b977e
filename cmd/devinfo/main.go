package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	devinfo "github.com/anhprgm/dev-info"
	"github.com/anhprgm/dev-info/internal/tui"
)

const defaultConfigPath = "./data/config.yaml"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	var err error

	switch cmd {
	case "run":
		err = runCommand(os.Args[2:])
	case "tui":
		err = tuiCommand(os.Args[2:])
	case "bench":
		err = benchCommand(os.Args[2:])
	case "history":
		err = historyCommand(os.Args[2:])
	case "validate":
		err = validateCommand(os.Args[2:])
	case "stats":
		err = statsCommand(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		printUsage()
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		log.Fatalf("devinfo %s: %v", cmd, err)
	}
}

// loadConfig falls back to the built-in defaults when the default path is
// missing, so the binary works without any setup.
func loadConfig(path string) (*devinfo.Config, error) {
	cfg, err := devinfo.LoadConfig(path)
	if err == nil {
		return cfg, nil
	}
	if path == defaultConfigPath && errors.Is(err, os.ErrNotExist) {
		return devinfo.DefaultConfig(), nil
	}
	return nil, fmt.Errorf("load config: %w", err)
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", defaultConfigPath, "Path to configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	dash, err := devinfo.NewDashboard(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return dash.Run(ctx)
}

func tuiCommand(args []string) error {
	fs := flag.NewFlagSet("tui", flag.ExitOnError)
	cfgPath := fs.String("config", defaultConfigPath, "Path to configuration file")
	serve := fs.Bool("serve", false, "Also start the metrics and HTTP API listeners")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	cfg.Log.Quiet = true
	if !*serve {
		cfg.Metrics.Addr = "off"
		cfg.HTTP.Addr = "off"
	}

	dash, err := devinfo.NewDashboard(cfg)
	if err != nil {
		return err
	}
	if err := dash.Start(); err != nil {
		return err
	}

	uiErr := tui.Run(dash, cfg.Policy.SampleInterval)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return errors.Join(uiErr, dash.Shutdown(ctx))
}

func benchCommand(args []string) error {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	cfgPath := fs.String("config", defaultConfigPath, "Path to configuration file")
	asJSON := fs.Bool("json", false, "Print the result as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	cfg.Log.Quiet = true
	dash, err := devinfo.NewDashboard(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := dash.RunBenchmark(ctx)
	if err != nil {
		return err
	}
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	fmt.Printf("single-core  %4d\n", res.SingleCoreScore)
	fmt.Printf("multi-core   %4d\n", res.MultiCoreScore)
	fmt.Printf("memory       %4d\n", res.MemoryScore)
	fmt.Printf("cpu          %4d\n", res.CPUScore)
	fmt.Printf("overall      %4d\n", res.OverallScore)
	fmt.Printf("duration     %d ms\n", res.DurationMillis())
	return nil
}

func historyCommand(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("history needs a subcommand: list, clear or export")
	}
	sub := args[0]

	fs := flag.NewFlagSet("history "+sub, flag.ExitOnError)
	cfgPath := fs.String("config", defaultConfigPath, "Path to configuration file")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	cfg.Log.Quiet = true
	dash, err := devinfo.NewDashboard(cfg)
	if err != nil {
		return err
	}

	switch sub {
	case "list":
		for _, s := range dash.History() {
			fmt.Println(s.Line())
		}
		return nil
	case "clear":
		dash.ClearHistory()
		fmt.Println("history cleared")
		return nil
	case "export":
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sink, closeSink, err := devinfo.OpenExportSink(ctx, cfg.Export)
		if err != nil {
			return err
		}
		defer closeSink()

		n, err := dash.Export(ctx, sink)
		if err != nil {
			return err
		}
		fmt.Printf("exported %d samples to %s\n", n, sink.Name())
		return nil
	default:
		return fmt.Errorf("unknown history subcommand %q", sub)
	}
}

func validateCommand(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cfgPath := fs.String("config", defaultConfigPath, "Path to configuration file to validate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := devinfo.LoadConfig(*cfgPath); err != nil {
		return err
	}
	fmt.Printf("config %s looks good\n", *cfgPath)
	return nil
}

func statsCommand(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	url := fs.String("url", "http://localhost:9100/metrics", "Prometheus metrics endpoint")
	interval := fs.Duration("interval", 2*time.Second, "Refresh interval")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	fmt.Printf("Streaming metrics from %s (Ctrl+C to stop)\n", *url)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := printMetricsSnapshot(*url); err != nil {
				fmt.Fprintf(os.Stderr, "stats error: %v\n", err)
			}
		}
	}
}

func printMetricsSnapshot(url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	targets := map[string]float64{
		"devinfo_battery_level_percent": 0,
		"devinfo_cpu_usage_percent":     0,
		"devinfo_available_ram_bytes":   0,
		"devinfo_history_entries":       0,
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		for key := range targets {
			if strings.HasPrefix(line, key+" ") {
				var value float64
				if _, err := fmt.Sscanf(line, key+" %g", &value); err == nil {
					targets[key] = value
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	fmt.Printf("[%s] battery=%.0f%% cpu=%.1f%% ram_free=%.0f history=%.0f\n",
		time.Now().Format(time.RFC3339),
		targets["devinfo_battery_level_percent"],
		targets["devinfo_cpu_usage_percent"],
		targets["devinfo_available_ram_bytes"],
		targets["devinfo_history_entries"],
	)
	return nil
}

func printUsage() {
	fmt.Printf(`devinfo CLI

Usage:
  devinfo <command> [flags]

Commands:
  run        Record samples and serve the metrics and HTTP API listeners
  tui        Open the terminal dashboard (sampling runs in the background)
  bench      Run the synthetic benchmark once and print the scores
  history    list | clear | export the recorded samples
  validate   Load and validate a config file
  stats      Poll the Prometheus metrics endpoint and print live gauges

Examples:
  devinfo run -config ./data/config.yaml
  devinfo tui
  devinfo bench -json
  devinfo history export -config ./data/config.yaml
  devinfo stats -url http://localhost:9100/metrics -interval 1s
`)
}
