// Command dpscalc computes melee and ranged DPS against a monster, simulates
// time to kill and searches the item catalog for cost-effective upgrades.
//
// Usage:
//
//	dpscalc fetch -player Zezima
//	dpscalc calc -player Zezima -target Vorkath -buffs piety,super_combat
//	dpscalc simulate -gear "Abyssal whip,Amulet of torture" -levels attack=99,strength=99 -target "Abyssal demon"
//	dpscalc upgrades -player Zezima -target Zulrah -max-price 50000000
//	dpscalc history
//	dpscalc --list
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/udisondev/dpscalc/internal/config"
	"github.com/udisondev/dpscalc/internal/logger"
)

type command struct {
	name string
	desc string
	run  func(ctx context.Context, a *app, args []string) error
}

var commands []command

func registerCommand(name, desc string, fn func(ctx context.Context, a *app, args []string) error) {
	commands = append(commands, command{name: name, desc: desc, run: fn})
}

func init() {
	registerCommand("calc", "Best style, max hit, accuracy and DPS against a target", runCalc)
	registerCommand("simulate", "Simulated time-to-kill distribution", runSimulate)
	registerCommand("upgrades", "Cost-effective single and paired gear upgrades", runUpgrades)
	registerCommand("fetch", "Fetch levels from the hiscores and gear from WikiSync", runFetch)
	registerCommand("history", "Recent upgrade searches", runHistory)
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}
	switch args[0] {
	case "--list", "-h", "-help", "--help", "help":
		printList()
		return
	}

	cmd, ok := findCommand(args[0])
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printList()
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, cmd, args[1:]); err != nil {
		slog.Error("fatal", "cmd", cmd.name, "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd command, args []string) error {
	cfg, err := config.LoadCalculator(config.Path())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, closer, err := logger.New(cfg.Log, os.Stderr)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer closer.Close()
	slog.SetDefault(log)

	a := newApp(cfg, log, os.Stdout)
	defer a.close()

	slog.Debug("dpscalc starting", "cmd", cmd.name, "config", config.Path())
	return cmd.run(ctx, a, args)
}

func findCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: dpscalc <command> [flags]")
	fmt.Fprintln(os.Stderr, "       dpscalc --list")
}

func printList() {
	sorted := make([]command, len(commands))
	copy(sorted, commands)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].name < sorted[j].name })

	maxLen := 0
	for _, c := range sorted {
		maxLen = max(maxLen, len(c.name))
	}
	fmt.Fprintln(os.Stderr, "Commands:")
	for _, c := range sorted {
		fmt.Fprintf(os.Stderr, "  %s%s  %s\n", c.name, strings.Repeat(" ", maxLen-len(c.name)), c.desc)
	}
	fmt.Fprintln(os.Stderr, "\nRun dpscalc <command> -h for the flags of a command.")
}
