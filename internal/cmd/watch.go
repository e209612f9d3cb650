package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/darkron008/tipsplit/internal/hub"
	"github.com/darkron008/tipsplit/internal/output"
	"github.com/darkron008/tipsplit/internal/pipeline"
	"github.com/darkron008/tipsplit/internal/server"
	"github.com/darkron008/tipsplit/internal/watcher"
	"github.com/spf13/cobra"
)

var (
	watchOut   string
	watchServe string
)

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Recompute the distribution whenever an input changes",
	Long: `Watch one or more spreadsheets (or glob patterns) and rerun the
distribution every time a file is saved. Optionally keep an xlsx summary
up to date and stream results to websocket clients.

Examples:
  tipsplit watch shifts.xlsx
  tipsplit watch "uploads/**/*.csv" --out summary.xlsx
  tipsplit watch shifts.xlsx --serve 8080`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchOut, "out", "", "keep an xlsx summary workbook at this path")
	watchCmd.Flags().StringVar(&watchServe, "serve", "", "also serve the API and websocket stream on this port")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	// --- Set up context with graceful shutdown ---
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\n💰 tipsplit shutting down...")
		cancel()
	}()

	// --- Initialize watcher ---
	w, err := watcher.New(args)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	watched := w.Paths()
	if len(watched) == 0 {
		return fmt.Errorf("no files matched the given patterns: %v", args)
	}

	fmt.Fprintf(os.Stderr, "💰 tipsplit watching %d file(s):\n", len(watched))
	for _, p := range watched {
		fmt.Fprintf(os.Stderr, "   • %s\n", p)
	}
	fmt.Fprintln(os.Stderr)

	// --- Initialize checkpoint ---
	ckptPath := filepath.Join(".", ".tipsplit-state.json")
	ckpt, err := watcher.NewCheckpoint(ckptPath)
	if err != nil {
		return fmt.Errorf("failed to load checkpoint: %w", err)
	}

	h := hub.New()
	defer h.Close()

	// --- Optionally serve the API alongside ---
	if watchServe != "" {
		s := server.New(h, runOptions(), watchServe)
		go func() {
			fmt.Fprintf(os.Stderr, "💰 tipsplit listening on :%s\n", watchServe)
			if err := s.Start(); err != nil {
				log.Printf("server stopped: %v", err)
			}
		}()
	}

	renderer := newRenderer()
	opts := runOptions()

	recompute := func() {
		res := pipeline.Run(watched, opts)
		h.Publish(res)
		if err := renderer.Render(res); err != nil {
			log.Printf("render error: %v", err)
		}
		if watchOut != "" {
			if err := output.WriteWorkbook(res.Result, watchOut); err != nil {
				log.Printf("failed to write %s: %v", watchOut, err)
			}
		}
	}

	// Prime the checkpoint and compute once up front.
	for _, p := range watched {
		ckpt.Changed(p)
	}
	recompute()

	go w.Start(ctx)

	// --- React to file changes ---
	for ev := range w.Events {
		// Editors often replace files on save; re-add the path so the
		// next save is still seen.
		if err := w.ReWatch(ev.Path); err != nil {
			log.Printf("cannot re-watch %s: %v", ev.Path, err)
		}
		if !ckpt.Changed(ev.Path) {
			continue
		}
		if err := ckpt.Save(); err != nil {
			log.Printf("checkpoint save failed: %v", err)
		}
		recompute()
	}

	return nil
}
