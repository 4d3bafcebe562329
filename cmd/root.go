// Package cmd implements the CLI command structure for planloop.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/planloop/planloop/internal/config"
	"github.com/planloop/planloop/internal/engine"
	"github.com/planloop/planloop/internal/logging"
	"github.com/planloop/planloop/internal/loop"
	"github.com/planloop/planloop/internal/plan"
	"github.com/planloop/planloop/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the planloop CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("planloop", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")

	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Determine the subcommand; bare invocation shows the plan.
	subcommand := "show"
	remaining := fs.Args()
	if len(remaining) > 0 && !strings.HasPrefix(remaining[0], "-") {
		subcommand = remaining[0]
		remaining = remaining[1:]
	}

	logger := logging.NewLogger(os.Stderr, cfg)

	switch subcommand {
	case "show":
		return showCommand(cfg)
	case "upsert":
		return upsertCommand(cfg, logger, remaining)
	case "remove":
		return removeCommand(cfg, logger, remaining)
	case "patch":
		return patchCommand(cfg, logger, remaining)
	case "next":
		return nextCommand(cfg, logger)
	case "start":
		return startCommand(cfg, logger)
	case "done":
		return transitionCommand(cfg, logger, remaining, plan.StatusDone)
	case "abort":
		return transitionCommand(cfg, logger, remaining, plan.StatusAborted)
	case "tui":
		return tuiCommand(ctx, cfg, logger)
	case "version":
		return versionCommand()
	default:
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// editor returns the structure-only surface; this is all the edit
// subcommands get.
func editor(cfg *config.Config, logger *log.Logger) engine.Editor {
	return engine.NewEditor(cfg.PlanPath(), engine.WithLogger(logger))
}

// supervisor returns the trusted surface used by the transition and
// read commands.
func supervisor(cfg *config.Config, logger *log.Logger) *engine.Engine {
	return engine.New(cfg.PlanPath(), engine.WithLogger(logger))
}

func showCommand(cfg *config.Config) error {
	eng := engine.New(cfg.PlanPath())
	res, err := eng.Snapshot()
	if err != nil {
		return err
	}
	fmt.Print(res.CanonicalText)
	return nil
}

func upsertCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	payload, err := readInput(args)
	if err != nil {
		return err
	}
	res, err := editor(cfg, logger).UpsertJSON(payload)
	if err != nil {
		return err
	}
	fmt.Print(res.CanonicalText)
	return nil
}

func removeCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	if len(args) == 0 {
		return errors.New("remove requires ids, e.g. 'planloop remove 2,4'")
	}
	ids, err := parseIDList(strings.Join(args, ","))
	if err != nil {
		return err
	}
	res, err := editor(cfg, logger).Remove(ids)
	if err != nil {
		return err
	}
	fmt.Print(res.CanonicalText)
	return nil
}

func patchCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	patchText, err := readInput(args)
	if err != nil {
		return err
	}
	res, err := editor(cfg, logger).Patch(string(patchText))
	if err != nil {
		return err
	}
	fmt.Print(res.CanonicalText)
	return nil
}

func nextCommand(cfg *config.Config, logger *log.Logger) error {
	runner := loop.New(supervisor(cfg, logger), logger)
	item, err := runner.Next()
	if err != nil {
		return err
	}
	if item == nil {
		fmt.Println("no todo items left")
		return nil
	}
	fmt.Printf("- [%s][%d] %s\n", item.Status, item.ID, item.Title)
	return nil
}

func startCommand(cfg *config.Config, logger *log.Logger) error {
	runner := loop.New(supervisor(cfg, logger), logger)
	item, err := runner.Start()
	if err != nil {
		return err
	}
	if item == nil {
		fmt.Println("no todo items left")
		return nil
	}
	fmt.Printf("- [%s][%d] %s\n", item.Status, item.ID, item.Title)
	return nil
}

func transitionCommand(cfg *config.Config, logger *log.Logger, args []string, target plan.Status) error {
	if len(args) != 1 {
		return fmt.Errorf("%s requires exactly one id", target)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id < 1 {
		return fmt.Errorf("invalid id: %q", args[0])
	}

	runner := loop.New(supervisor(cfg, logger), logger)
	var item *plan.Item
	if target == plan.StatusDone {
		item, err = runner.Finish(id)
	} else {
		item, err = runner.Abort(id)
	}
	if err != nil {
		return err
	}
	fmt.Printf("- [%s][%d] %s\n", item.Status, item.ID, item.Title)
	return nil
}

func tuiCommand(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	return ui.RunTUI(ctx, supervisor(cfg, logger), cfg.PlanPath())
}

func versionCommand() error {
	fmt.Printf("planloop %s (%s/%s)\n", Version, runtime.GOOS, runtime.GOARCH)
	return nil
}

// readInput reads payload text from the file named by the first
// argument, or from stdin when no argument (or "-") is given.
func readInput(args []string) ([]byte, error) {
	if len(args) > 1 {
		return nil, fmt.Errorf("unexpected arguments: %v", args[1:])
	}
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", args[0], err)
	}
	return data, nil
}

// parseIDList parses a comma-separated id list: positive integers, no
// duplicates.
func parseIDList(s string) ([]int, error) {
	var ids []int
	seen := make(map[int]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil || id < 1 {
			return nil, fmt.Errorf("invalid id: %q", part)
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate id: %d", id)
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, errors.New("ids must contain at least one id")
	}
	return ids, nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, `planloop - deterministic plan file engine

Usage:
  planloop [flags] [command] [args]

Commands:
  show             Print the canonical plan (default)
  upsert [file]    Apply a JSON upsert batch from file or stdin
  remove <ids>     Remove items by comma-separated ids
  patch [file]     Apply SEARCH/REPLACE patch text from file or stdin
  next             Print the first todo item
  start            Transition the first todo item to doing
  done <id>        Transition a doing item to done
  abort <id>       Transition a doing item to aborted
  tui              Watch the plan in a terminal UI
  version          Show version

Flags:
`)
	fs.SetOutput(w)
	fs.PrintDefaults()
}
