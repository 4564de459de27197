package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
	"github.com/KirkDiggler/rpg-dungeon/internal/services/progression"
)

var progressionJSON bool

var progressionCmd = &cobra.Command{
	Use:   "progression",
	Short: "Inspect and change the local progression record",
	Long:  `Work directly against the configured progression store, without a server.`,
}

var progressionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the progression record",
	RunE:  runProgressionShow,
}

var progressionUnlocksCmd = &cobra.Command{
	Use:   "unlocks",
	Short: "List the unlock catalog",
	RunE:  runProgressionUnlocks,
}

var progressionBuyCmd = &cobra.Command{
	Use:   "buy [unlock-id]",
	Short: "Spend currency on an unlock",
	Args:  cobra.ExactArgs(1),
	RunE:  runProgressionBuy,
}

var progressionResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the progression record",
	RunE:  runProgressionReset,
}

func init() {
	progressionShowCmd.Flags().BoolVar(&progressionJSON, "json", false, "Output as JSON")

	progressionCmd.AddCommand(progressionShowCmd)
	progressionCmd.AddCommand(progressionUnlocksCmd)
	progressionCmd.AddCommand(progressionBuyCmd)
	progressionCmd.AddCommand(progressionResetCmd)
}

// withProgression opens the store for one command
func withProgression(cmd *cobra.Command, fn func(ctx context.Context, svc progression.Service, profile string) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc, release, err := newProgression(ctx, cfg, newLogger(cfg))
	if err != nil {
		return err
	}
	defer release()
	return fn(ctx, svc, cfg.Profile)
}

func runProgressionShow(cmd *cobra.Command, _ []string) error {
	return withProgression(cmd, func(ctx context.Context, svc progression.Service, profile string) error {
		out, err := svc.Load(ctx, &progression.LoadInput{ProfileID: profile})
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if out.Warning != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", out.Warning)
		}

		if progressionJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(out.Record)
		}

		r := out.Record
		fmt.Fprintf(w, "Profile:   %s\n", profile)
		fmt.Fprintf(w, "Currency:  %d (%d earned)\n", r.Currency, r.CurrencyEarned)
		fmt.Fprintf(w, "Runs:      %d (%d won, %d died)\n", r.RunCount, r.Best.Victories, r.Best.Deaths)
		fmt.Fprintf(w, "Deepest:   %d\n", r.Best.DeepestDepth)
		fmt.Fprintf(w, "Most kills: %d\n", r.Best.MostKills)
		fmt.Fprintf(w, "Unlocks:   %v\n", r.Unlocks)
		return nil
	})
}

func runProgressionUnlocks(cmd *cobra.Command, _ []string) error {
	return withProgression(cmd, func(ctx context.Context, svc progression.Service, profile string) error {
		out, err := svc.Load(ctx, &progression.LoadInput{ProfileID: profile})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Currency: %d\n\n", out.Record.Currency)
		fmt.Fprintln(w, "ID\tNAME\tCOST\tOWNED\tEFFECT")
		for _, u := range entities.Catalog() {
			cost := "earned"
			if u.Purchasable() {
				cost = fmt.Sprint(u.Cost)
			}
			owned := ""
			if out.Record.HasUnlock(u.ID) {
				owned = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Name, cost, owned, u.Description)
		}
		return w.Flush()
	})
}

func runProgressionBuy(cmd *cobra.Command, args []string) error {
	return withProgression(cmd, func(ctx context.Context, svc progression.Service, profile string) error {
		out, err := svc.Purchase(ctx, &progression.PurchaseInput{ProfileID: profile, UnlockID: args[0]})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Bought %s for %d, %d currency left\n",
			out.Unlock.Name, out.Unlock.Cost, out.Record.Currency)
		return nil
	})
}

func runProgressionReset(cmd *cobra.Command, _ []string) error {
	return withProgression(cmd, func(ctx context.Context, svc progression.Service, profile string) error {
		out, err := svc.Reset(ctx, &progression.ResetInput{ProfileID: profile})
		if err != nil {
			return err
		}
		if out.Existed {
			fmt.Fprintf(cmd.OutOrStdout(), "Progression for %s reset\n", profile)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "No progression stored for %s\n", profile)
		}
		return nil
	})
}
