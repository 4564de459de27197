package client

import (
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-dungeon/internal/handlers/dungeon/v1alpha1"
)

var unlocksCmd = &cobra.Command{
	Use:   "unlocks",
	Short: "List the unlock catalog with owned unlocks marked",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return call(cmd, v1alpha1.MethodListUnlocks, withProfile(map[string]any{}))
	},
}

var buyCmd = &cobra.Command{
	Use:   "buy [unlock-id]",
	Short: "Spend currency on an unlock",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, v1alpha1.MethodPurchaseUnlock, withProfile(map[string]any{"unlock_id": args[0]}))
	},
}
