package client

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-dungeon/internal/handlers/dungeon/v1alpha1"
)

var (
	startSeed     string
	autoplayTicks int
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a run",
	RunE: func(cmd *cobra.Command, _ []string) error {
		req := withProfile(map[string]any{})
		if startSeed != "" {
			req["seed"] = startSeed
		}
		return call(cmd, v1alpha1.MethodStartRun, req)
	},
}

var stepCmd = &cobra.Command{
	Use:   "step [run-id] [wait | n|ne|e|se|s|sw|w|nw | attack <id> | use <potion|salt>]",
	Short: "Advance a run one tick",
	Long: `Advance a run one tick with the given intent. Compass directions move,
bumping into enemies attacks them.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		intent, err := parseIntent(args[1:])
		if err != nil {
			return err
		}
		return call(cmd, v1alpha1.MethodStep, map[string]any{"run_id": args[0], "intent": intent})
	},
}

var autoplayCmd = &cobra.Command{
	Use:   "autoplay",
	Short: "Play a whole run on the server with the autopilot",
	RunE: func(cmd *cobra.Command, _ []string) error {
		req := withProfile(map[string]any{"max_ticks": autoplayTicks})
		if startSeed != "" {
			req["seed"] = startSeed
		}
		return call(cmd, v1alpha1.MethodAutoplay, req)
	},
}

var getCmd = &cobra.Command{
	Use:   "get [run-id]",
	Short: "Show a run's snapshot and combat log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, v1alpha1.MethodGetRun, map[string]any{"run_id": args[0]})
	},
}

var abortCmd = &cobra.Command{
	Use:   "abort [run-id]",
	Short: "Discard a run without committing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, v1alpha1.MethodAbortRun, map[string]any{"run_id": args[0]})
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List live runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return call(cmd, v1alpha1.MethodListRuns, nil)
	},
}

func init() {
	startCmd.Flags().StringVar(&startSeed, "seed", "", "run seed, random when empty")
	autoplayCmd.Flags().StringVar(&startSeed, "seed", "", "run seed, random when empty")
	autoplayCmd.Flags().IntVar(&autoplayTicks, "max-ticks", 0, "abort after this many ticks")
}

var compass = map[string][2]int{
	"n": {0, -1}, "ne": {1, -1}, "e": {1, 0}, "se": {1, 1},
	"s": {0, 1}, "sw": {-1, 1}, "w": {-1, 0}, "nw": {-1, -1},
}

// parseIntent turns step arguments into a wire intent
func parseIntent(args []string) (map[string]any, error) {
	if len(args) == 0 {
		return map[string]any{"kind": "wait"}, nil
	}

	word := strings.ToLower(args[0])
	if d, ok := compass[word]; ok {
		return map[string]any{"kind": "move", "dir": map[string]any{"x": d[0], "y": d[1]}}, nil
	}

	switch word {
	case "wait":
		return map[string]any{"kind": "wait"}, nil
	case "attack":
		if len(args) != 2 {
			return nil, fmt.Errorf("attack needs a target id")
		}
		id, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("invalid target id %q", args[1])
		}
		return map[string]any{"kind": "attack", "target": id}, nil
	case "use":
		if len(args) != 2 {
			return nil, fmt.Errorf("use needs an item")
		}
		return map[string]any{"kind": "use_item", "item": args[1]}, nil
	default:
		return nil, fmt.Errorf("unknown intent %q", args[0])
	}
}
