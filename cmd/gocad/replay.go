package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/philipparndt/gocad/pkg/watcher"
	"github.com/spf13/cobra"
)

var watch bool

var replayCmd = &cobra.Command{
	Use:   "replay <script.yaml>",
	Short: "Replay an event script and print the resulting view",
	Long: `Replay a YAML event script against a fresh project. Events that fail are
reported and the replay continues. With --watch the script is replayed
whenever it changes until interrupted, printing only the lines of the
view that changed.`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().BoolVar(&watch, "watch", false, "replay again when the script changes")
}

func runReplay(cmd *cobra.Command, args []string) {
	path := args[0]
	last, ok := replayText(path)
	if ok {
		fmt.Print(last)
	}
	if !watch {
		if !ok {
			os.Exit(1)
		}
		return
	}

	fw, err := watcher.NewFileWatcher(cfg.Watch.Debounce, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer fw.Close()

	changed := make(chan struct{}, 1)
	if err := fw.Watch([]string{path}, func(string) {
		select {
		case changed <- struct{}{}:
		default:
		}
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fw.Start()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "Watching %s, press Ctrl+C to stop\n", path)
	for {
		select {
		case <-ctx.Done():
			return
		case <-changed:
			text, ok := replayText(path)
			if !ok {
				continue
			}
			changes := lineDiff(last, text)
			last = text
			if len(changes) == 0 {
				fmt.Println("No changes.")
				continue
			}
			fmt.Println("Changes:")
			fmt.Println(strings.Join(changes, "\n"))
		}
	}
}

// replayText replays the script and renders the resulting view. It reports
// whether the script could be loaded.
func replayText(path string) (string, bool) {
	a, err := openApp(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return "", false
	}
	var b strings.Builder
	printView(&b, a.View())
	return b.String(), true
}
