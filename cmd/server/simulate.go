package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-dungeon/internal/engine/simulation"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/orchestrators/run"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/idgen"
)

var (
	simulateSeed     int64
	simulateRuns     int
	simulateMaxTicks int
	simulateRender   bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play runs headlessly with the autopilot",
	Long: `Play one or more runs with the autopilot, starting at --seed and
incrementing it per run. Each finished run is committed to the configured
progression store, so unlocks earned by one run apply to the next.`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().Int64Var(&simulateSeed, "seed", 1, "seed of the first run")
	simulateCmd.Flags().IntVar(&simulateRuns, "runs", 1, "number of runs to play")
	simulateCmd.Flags().IntVar(&simulateMaxTicks, "max-ticks", run.DefaultMaxTicks, "abort a run after this many ticks")
	simulateCmd.Flags().BoolVar(&simulateRender, "render", false, "print the final floor of each run")
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if simulateRuns < 1 {
		return errors.InvalidArgument("--runs must be at least 1")
	}
	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	progressionService, release, err := newProgression(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer release()

	runService, err := run.NewOrchestrator(&run.Config{
		Progression: progressionService,
		IDGenerator: idgen.NewSequential("sim"),
		Clock:       clock.New(),
		Profile:     cfg.Profile,
		MaxDepth:    cfg.MaxDepth,
		Logger:      log,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tRESULT\tDEPTH\tTICKS\tKILLS\tCORRUPTION\tCURRENCY\tUNLOCKS")

	for i := 0; i < simulateRuns; i++ {
		seed := simulateSeed + int64(i)
		out, err := runService.Autoplay(ctx, &run.AutoplayInput{
			StartInput: run.StartInput{ProfileID: cfg.Profile, Seed: &seed},
			MaxTicks:   simulateMaxTicks,
		})
		if errors.GetCode(err) == errors.CodeAborted {
			fmt.Fprintf(w, "%d\taborted\t-\t%d\t-\t-\t-\t-\n", seed, simulateMaxTicks)
			continue
		}
		if err != nil {
			_ = w.Flush()
			return err
		}

		o := out.Outcome
		result := "died"
		if o.Victory {
			result = "victory"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%v\n",
			seed, result, o.DepthReached, o.Ticks, o.Kills, o.MaxCorruption, o.CurrencyEarned, out.Commit.NewUnlocks)

		if simulateRender {
			_ = w.Flush()
			fmt.Fprintln(cmd.OutOrStdout(), renderFinal(out.Snapshot))
		}
	}
	return w.Flush()
}

func renderFinal(snap *simulation.Snapshot) string {
	return fmt.Sprintf("depth %d, tick %d, %s\n%s", snap.Depth, snap.Tick, snap.Status, snap.Render())
}
