package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/journal/risk"
)

var unblockCmd = &cobra.Command{
	Use:   "unblock",
	Short: "Manually clear a temporary lockout",
	Args:  cobra.NoArgs,
	RunE:  runUnblock,
}

func init() {
	rootCmd.AddCommand(unblockCmd)
}

func runUnblock(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if !risk.LockedOut(cfg.Lockout, time.Now()) {
		// Tidy an expired deadline if one is still stored.
		cfg.Lockout = risk.ExpireLockout(cfg.Lockout, time.Now())
		if err := saveConfig(cfg); err != nil {
			return err
		}
		fmt.Println("no active lockout")
		return nil
	}

	until := *cfg.Lockout.BlockedUntil
	cfg.Lockout = risk.ClearLockout(cfg.Lockout)
	if err := saveConfig(cfg); err != nil {
		return err
	}

	log.Info().Time("was_until", until).Msg("lockout cleared manually")
	fmt.Println("lockout cleared")
	return nil
}
