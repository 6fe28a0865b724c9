// Package cli implements the command-line surface on top of cobra, named
// internal/cli rather than internal/cobra so the package name doesn't
// collide with the github.com/spf13/cobra import it wraps.
package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/Anthya1104/striped-blockdev/internal/config"
	"github.com/Anthya1104/striped-blockdev/internal/logger"
	"github.com/Anthya1104/striped-blockdev/internal/raid"
	"github.com/Anthya1104/striped-blockdev/internal/rebuild"
	"github.com/Anthya1104/striped-blockdev/internal/transport"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbose bool

// NewRootCommand builds the striped-blockdevd command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "striped-blockdevd",
		Short: "Serve a striped or parity-protected virtual block device",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := logger.LevelInfo
			if verbose {
				level = logger.LevelDebug
			}
			return logger.Init(level)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug diagnostics")

	root.AddCommand(newServeCommand())
	root.AddCommand(newStatusCommand())
	return root
}

// Execute runs the root command, returning the error cobra produced (if
// any) so main can map it to a non-zero exit code.
func Execute() error {
	return NewRootCommand().Execute()
}

// buildArray parses BLOCKSIZE RAIDDEVICE DEVICE1..DEVICEN and builds a
// fully validated Config, the device handles to close on shutdown, and the
// exported device name (the RAIDDEVICE token; connecting it to a real nbd
// export is out of scope here).
func buildArray(args []string) (*config.Config, string, []*os.File, error) {
	if len(args) < 4 {
		return nil, "", nil, fmt.Errorf("cli: usage: BLOCKSIZE RAIDDEVICE DEVICE1 DEVICE2 [DEVICE3 ... DEVICEN]")
	}

	blockSize, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, "", nil, fmt.Errorf("cli: invalid BLOCKSIZE %q: %w", args[0], err)
	}
	raidDevice := args[1]
	deviceArgs := args[2:]

	tokens, err := parseDeviceTokens(deviceArgs)
	if err != nil {
		return nil, "", nil, err
	}

	var mode config.Mode
	switch {
	case len(tokens) == 2:
		mode = config.RAID0
		for _, t := range tokens {
			if t.Missing || t.Rebuild {
				return nil, "", nil, fmt.Errorf("cli: raid0 does not support MISSING or rebuild devices")
			}
		}
	case len(tokens) >= 3 && len(tokens) <= 16:
		mode = config.RAID4
	default:
		return nil, "", nil, fmt.Errorf("cli: expected 2 devices (raid0) or 3-16 devices (raid4), got %d", len(tokens))
	}

	opened, err := openSlots(tokens)
	if err != nil {
		return nil, "", nil, err
	}

	cfg, err := config.New(blockSize, mode, opened.Slots)
	if err != nil {
		closeAll(opened.Handles)
		return nil, "", nil, err
	}

	logrus.Infof("cli: array ready: mode=%v blockSize=%d devices=%d virtualSize=%d degraded=%v",
		cfg.Mode, cfg.BlockSize, len(cfg.Slots), cfg.VirtualSize, cfg.Degraded)

	return cfg, raidDevice, opened.Handles, nil
}

// runRebuildIfNeeded runs the rebuild driver to completion before the
// transport is allowed to start.
func runRebuildIfNeeded(cfg *config.Config) error {
	if cfg.RebuildSlot < 0 {
		return nil
	}
	driver, err := rebuild.New(cfg)
	if err != nil {
		return err
	}
	return driver.Run()
}

// waitForShutdown blocks until SIGINT/SIGTERM, the stand-in here for the
// transport itself initiating shutdown, since the real kernel nbd
// disconnect path is out of scope.
func waitForShutdown() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
}

// newEngine is a small indirection so serve.go uses the same mode-to-engine
// dispatch as the rest of the core.
func newEngine(cfg *config.Config) (raid.Engine, error) {
	return raid.New(cfg)
}

// bindingFor wires a Binding on top of a freshly built engine.
func bindingFor(cfg *config.Config) (*transport.Binding, error) {
	eng, err := newEngine(cfg)
	if err != nil {
		return nil, err
	}
	return transport.New(cfg, eng), nil
}
