package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/oxygn-cloud-ai/cascade"
	"github.com/oxygn-cloud-ai/cascade/internal/tui"
	"github.com/oxygn-cloud-ai/cascade/pkg/adapters/file"
	"github.com/oxygn-cloud-ai/cascade/pkg/adapters/stub"
	"github.com/oxygn-cloud-ai/cascade/pkg/domain"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a cascade over a YAML tree with the scripted demo generator",
	Long: `Loads the prompt tree, plans the levels below the root and executes one
scripted generation per node. Press Ctrl+C once to cancel gracefully: the
node in flight settles and the partial results are kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		treePath, _ := cmd.Flags().GetString("tree")
		if !cmd.Flags().Changed("tree") && len(args) > 0 {
			treePath = args[0]
		}
		rootFlag, _ := cmd.Flags().GetString("root")
		nodeDelay, _ := cmd.Flags().GetDuration("node-delay")
		failNodes, _ := cmd.Flags().GetStringSlice("fail")
		skipPreviews, _ := cmd.Flags().GetBool("skip-previews")

		logger := newLogger(cmd)
		isTTY := term.IsTerminal(int(os.Stdout.Fd()))

		if isTTY {
			tui.PrintBanner(cascade.Version)
		}

		provider, rootID, err := file.Load(treePath)
		if err != nil {
			return err
		}
		if rootFlag != "" {
			rootID = domain.NodeID(rootFlag)
		}

		genOpts := []stub.Option{stub.WithDelay(nodeDelay)}
		for _, id := range failNodes {
			genOpts = append(genOpts, stub.WithScript(domain.NodeID(id), stub.Script{
				Err: errors.New("injected failure"),
			}))
		}
		generator := stub.New(genOpts...)

		engine, err := cascade.New(provider, generator,
			cascade.WithLogger(logger),
			cascade.WithHooks(progressHooks()),
		)
		if err != nil {
			return err
		}
		engine.SetSkipAllPreviews(skipPreviews)

		// First Ctrl+C cancels the run gracefully, a second one kills us.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		go func() {
			<-sigCh
			fmt.Println("\nCancelling... (current node will finish)")
			engine.Cancel()
			<-sigCh
			os.Exit(1)
		}()

		if err := engine.Start(context.Background(), rootID); err != nil {
			return err
		}
		<-engine.Done()

		snap := engine.Snapshot()
		report := tui.BuildReport(snap)
		if isTTY {
			render := tui.NewRenderer()
			if pretty, err := render(report); err == nil {
				fmt.Print(pretty)
			} else {
				fmt.Print(report)
			}
		} else {
			fmt.Print(report)
		}

		if snap.Status == domain.StatusFailed {
			return fmt.Errorf("run failed: %s", snap.Error)
		}
		return nil
	},
}

// progressHooks prints one line per node event.
func progressHooks() domain.RunHooks {
	return domain.RunHooks{
		OnNodeStart: func(_ context.Context, ev *domain.NodeEvent) {
			fmt.Printf("  [L%d] %s ...\n", ev.Level, ev.NodeName)
		},
		OnNodeComplete: func(_ context.Context, ev *domain.NodeEvent) {
			latency := time.Duration(0)
			if ev.Output != nil {
				latency = ev.Output.Usage.Latency
			}
			fmt.Printf("  [L%d] %s done (%s)\n", ev.Level, ev.NodeName, latency.Round(time.Millisecond))
		},
		OnNodeFailed: func(_ context.Context, ev *domain.NodeEvent) {
			fmt.Printf("  [L%d] %s FAILED: %s\n", ev.Level, ev.NodeName, ev.Error)
		},
		OnNodeSkipped: func(_ context.Context, ev *domain.NodeEvent) {
			fmt.Printf("  skip %s (%s)\n", ev.NodeName, ev.Reason)
		},
	}
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("root", "", "Root node ID (defaults to the document root)")
	runCmd.Flags().Duration("node-delay", 300*time.Millisecond, "Simulated generation latency per node")
	runCmd.Flags().StringSlice("fail", nil, "Node IDs whose generation should fail")
	runCmd.Flags().Bool("skip-previews", false, "Suppress previews for all nodes")

	// Make 'run' the default command.
	rootCmd.RunE = runCmd.RunE
}
