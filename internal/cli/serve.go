package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/buildmill/buildmill/internal/core"
	"github.com/buildmill/buildmill/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a built dist target with the development server",
	Long: `Start the long-running development server over one dist target
(default: dist-dev). The server runs until interrupted.

With --watch, changes under the source tree trigger a rebuild of the
core assets for the served target.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Runner == nil || ConfigMgr == nil {
			return fmt.Errorf("pipeline not initialized")
		}
		opts := flagOptions{cmd}

		ws, err := ConfigMgr.LoadWorkspace()
		if err != nil {
			return fmt.Errorf("%w: %v", core.ErrConfigLoad, err)
		}
		if tz := ws.Get("system.timezone").String(); tz != "" {
			_ = os.Setenv("TZ", tz)
		}

		target := opts.OptionDefault("target", Settings.Server.DistTarget)
		port := Settings.Server.Port
		if p, ok := opts.Option("port"); ok {
			parsed, err := parsePort(p)
			if err != nil {
				return err
			}
			port = parsed
		}
		logLevel := opts.OptionDefault("log-level", Settings.Server.LogLevel)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if watch, _ := cmd.Flags().GetBool("watch"); watch {
			if err := watchableTarget(target, Settings.DefaultTargets); err != nil {
				return err
			}
			watcher := server.NewWatcher(Builder.SourceDir(), func(ctx context.Context) error {
				_, err := Runner.Run(ctx, "build", "core", core.MapOptions{"targets": target})
				return err
			})
			go func() {
				if err := watcher.Run(ctx); err != nil {
					log.Printf("watcher stopped: %v", err)
				}
			}()
		}

		srv := server.New(port, logLevel, Builder.DistDir(target))
		if err := srv.Run(ctx); err != nil {
			log.Printf("server failed: %v", err)
			return err
		}
		return nil
	},
}

// parsePort parses a listen port, rejecting trailing garbage and values
// outside the valid range.
func parsePort(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 65535 {
		return 0, fmt.Errorf("%w: invalid port %q", core.ErrInvalidArgument, s)
	}
	return n, nil
}

// watchableTarget checks the served target against the configured target
// list. Watch rebuilds resolve targets strictly, which would silently
// substitute all default targets for an unknown one.
func watchableTarget(target string, defaults []string) error {
	if slices.Contains(defaults, target) {
		return nil
	}
	return fmt.Errorf("%w: cannot watch target %q, not in configured targets %v", core.ErrInvalidArgument, target, defaults)
}

func init() {
	serveCmd.Flags().String("target", "", "Dist target to serve (default: configured server target)")
	serveCmd.Flags().String("port", "", "Port to listen on")
	serveCmd.Flags().String("log-level", "", "Server log level (info, debug)")
	serveCmd.Flags().Bool("watch", false, "Rebuild core assets when the source tree changes")
	rootCmd.AddCommand(serveCmd)
}
