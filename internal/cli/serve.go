package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// newServeCommand wires: parse -> open -> config.New -> rebuild (if
// requested) -> engine -> binding -> block until shutdown. Wiring the binding to
// an actual kernel-facing nbd transport is out of scope; serve treats a
// shutdown signal as the transport-initiated disconnect, exiting 0.
func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve BLOCKSIZE RAIDDEVICE DEVICE1 DEVICE2 [DEVICE3 ... DEVICEN]",
		Short: "Validate and serve a virtual block device array",
		Args:  cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, raidDevice, handles, err := buildArray(args)
			if err != nil {
				return err
			}
			defer closeAll(handles)

			if err := runRebuildIfNeeded(cfg); err != nil {
				return err
			}

			binding, err := bindingFor(cfg)
			if err != nil {
				return err
			}

			logrus.Infof("cli: serving %s (%v, %d bytes)", raidDevice, cfg.Mode, binding.Size())
			waitForShutdown()

			logrus.Infof("cli: shutdown requested, disconnecting %s", raidDevice)
			binding.Disconnect()
			return nil
		},
	}
}
