package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/x1thexxx-lgtm/fleetinv/pkg/config"
	"github.com/x1thexxx-lgtm/fleetinv/pkg/inventory"
	"github.com/x1thexxx-lgtm/fleetinv/pkg/logging"
	"github.com/x1thexxx-lgtm/fleetinv/pkg/pure1"
	"github.com/x1thexxx-lgtm/fleetinv/pkg/scheduler"
)

func main() {
	var configPath string
	var command string
	var outputPath string
	flag.StringVar(&configPath, "config", "fleetinv.yaml", "path to config file")
	flag.StringVar(&command, "command", "inventory", "command to run (inventory|hosts|watch)")
	flag.StringVar(&outputPath, "output", "", "write inventory JSON here instead of stdout")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if outputPath != "" {
		cfg.Output.Path = outputPath
	}
	logger, err := logging.New(cfg.Logging.Path, logging.ParseLevel(cfg.Logging.Level))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	builder := inventory.NewBuilder(pure1.NewClient(cfg.Pure1), cfg, logger)

	switch command {
	case "inventory":
		if err := runOnce(cfg, builder, logger); err != nil {
			fatal(logger, err)
		}
	case "hosts":
		if err := listHosts(cfg, builder); err != nil {
			fatal(logger, err)
		}
	case "watch":
		if err := runWatch(cfg, builder, logger); err != nil {
			fatal(logger, err)
		}
	default:
		fmt.Fprintln(os.Stderr, "unknown command", command)
		os.Exit(1)
	}
}

func fatal(logger *logging.Logger, err error) {
	logger.Errorf("%v", err)
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func runOnce(cfg *config.Config, builder *inventory.Builder, logger *logging.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()
	inv, err := builder.Build(ctx)
	if err != nil {
		return err
	}
	logger.Infof("assembled %d hosts in %d groups", len(inv.Hosts()), len(inv.Groups()))
	return writeInventory(inv, cfg.Output.Path)
}

func listHosts(cfg *config.Config, builder *inventory.Builder) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()
	inv, err := builder.Build(ctx)
	if err != nil {
		return err
	}
	for _, name := range inv.Hosts() {
		fmt.Println(name)
	}
	return nil
}

func runWatch(cfg *config.Config, builder *inventory.Builder, logger *logging.Logger) error {
	if !cfg.Scheduler.Enabled {
		return fmt.Errorf("watch requires scheduler.enabled in config")
	}
	if cfg.Output.Path == "" {
		return fmt.Errorf("watch requires an output path")
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	task := &rebuildTask{cfg: cfg, builder: builder, logger: logger}
	err := scheduler.New(cfg.Scheduler, task, logger).Start(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// rebuildTask writes a fresh inventory snapshot on every scheduler tick.
type rebuildTask struct {
	cfg     *config.Config
	builder *inventory.Builder
	logger  *logging.Logger
}

func (t *rebuildTask) Run(ctx context.Context) error {
	runCtx, cancel := context.WithTimeout(ctx, t.cfg.Timeout())
	defer cancel()
	start := time.Now()
	inv, err := t.builder.Build(runCtx)
	if err != nil {
		return err
	}
	if err := writeInventory(inv, t.cfg.Output.Path); err != nil {
		return err
	}
	t.logger.Infof("wrote %d hosts to %s in %s", len(inv.Hosts()), t.cfg.Output.Path, time.Since(start).Round(time.Millisecond))
	return nil
}

func writeInventory(inv *inventory.Inventory, path string) error {
	data, err := inv.Render()
	if err != nil {
		return err
	}
	if path == "" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
