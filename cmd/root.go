// Package cmd expresses the command-line interface.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Oloruntobi1/flametop/internal/config"
	"github.com/Oloruntobi1/flametop/internal/ingest"
	"github.com/Oloruntobi1/flametop/internal/log"
	"github.com/Oloruntobi1/flametop/internal/otlp"
	"github.com/Oloruntobi1/flametop/internal/pprofsrc"
	"github.com/Oloruntobi1/flametop/internal/session"
	"github.com/Oloruntobi1/flametop/internal/tui"
)

var rootViper = config.NewViper()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "flametop",
	Short: "Live terminal flame graph for OTLP profiles",
	Long: `flametop accepts OpenTelemetry profile exports over gRPC and renders
every sample it receives as one continuously updating flame graph.

Optionally a pprof file or HTTP endpoint is merged into the same graph.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(rootViper)
		if err != nil {
			return err
		}
		return run(cmd.Context(), cfg)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cobra.CheckErr(rootCmd.ExecuteContext(ctx))
}

func init() {
	config.DefineFlags(rootCmd)
	if err := rootViper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		logrus.WithError(err).Fatal("Failed to set up flags")
	}
}

// run serves OTLP, feeds the optional pprof source and drives the UI until
// the user quits or one of them fails.
func run(ctx context.Context, cfg config.Config) error {
	logger := logrus.New()
	closer, err := log.Setup(logger, cfg.LogFile, cfg.Verbose)
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}
	defer closer.Close()

	lis, err := net.Listen("tcp", cfg.ListenAddr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.ListenAddr(), err)
	}

	queue := ingest.NewQueue()
	server := otlp.NewServer(queue, logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Serve(ctx, lis)
	})

	if cfg.Pprof != "" {
		src := &pprofsrc.Source{
			Target:     cfg.Pprof,
			Interval:   cfg.PprofInterval,
			SampleType: cfg.PprofSampleType,
			Log:        logger,
		}
		g.Go(func() error {
			return src.Run(ctx, queue)
		})
	}

	g.Go(func() error {
		// Quitting the UI ends everything else.
		defer cancel()
		defer queue.Close()

		m := tui.New(ctx, tui.Options{
			ListenAddr: cfg.ListenAddr(),
			Tick:       cfg.Tick,
			Queue:      queue,
			Session:    session.New(),
			Log:        logger,
		})
		_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("run ui: %w", err)
		}
		return nil
	})

	err = g.Wait()
	logger.WithError(err).Info("shut down")
	return err
}
