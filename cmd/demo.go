package cmd

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Oloruntobi1/flametop/internal/config"
	"github.com/Oloruntobi1/flametop/internal/log"
	"github.com/Oloruntobi1/flametop/internal/otlp"
)

var demoViper = viper.New()

const exportTimeout = 10 * time.Second

// demoCmd is the `flametop demo` command.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Send synthetic profiles to a running flametop",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logrus.New()
		logger.SetLevel(log.Level(rootViper.GetInt(config.KeyVerbose)))

		interval := demoViper.GetDuration("interval")
		if interval <= 0 {
			return fmt.Errorf("%w: interval must be positive, got %s", config.ErrInvalid, interval)
		}
		return runDemo(cmd.Context(), logger, demoOptions{
			target:   demoViper.GetString("target"),
			interval: interval,
			count:    demoViper.GetInt("count"),
			gzip:     demoViper.GetBool("gzip"),
		})
	},
}

func init() {
	demoCmd.Flags().String("target", "localhost:4317", "flametop OTLP address")
	demoCmd.Flags().Duration("interval", time.Second, "time between exports")
	demoCmd.Flags().Int("count", 0, "number of exports to send (0 sends until interrupted)")
	demoCmd.Flags().Bool("gzip", false, "compress requests")
	demoViper.AutomaticEnv()
	if err := demoViper.BindPFlags(demoCmd.Flags()); err != nil {
		logrus.WithError(err).Fatal("Failed to set up flags")
	}
	rootCmd.AddCommand(demoCmd)
}

type demoOptions struct {
	target   string
	interval time.Duration
	count    int
	gzip     bool
}

func runDemo(ctx context.Context, logger logrus.FieldLogger, opts demoOptions) error {
	client, err := otlp.NewClient(opts.target, opts.gzip)
	if err != nil {
		return err
	}
	defer client.Close()

	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	ticker := time.NewTicker(opts.interval)
	defer ticker.Stop()

	log := logger.WithField("target", opts.target)
	for sent := 0; opts.count <= 0 || sent < opts.count; sent++ {
		req := demoRequest(rng)
		exportCtx, cancel := context.WithTimeout(ctx, exportTimeout)
		err := client.Export(exportCtx, req)
		cancel()
		if err != nil {
			log.WithError(err).Warn("export failed")
		} else {
			log.WithField("samples", req.SampleCount()).Info("exported")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
	return nil
}

// demoRequest builds one batch resembling a mixed-language service: a Go
// scheduler, a Python request handler calling into native code, kernel
// time, inlined frames and a library without symbols.
func demoRequest(rng *rand.Rand) *otlp.ExportRequest {
	b := otlp.NewBuilder()
	weight := func(limit int64) int64 { return rng.Int64N(limit) + 1 }

	goMain := b.Location("go", "main.main")
	serve := b.Location("go", "net/http.(*Server).Serve")
	handler := b.Location("go", "main.handleOrder")
	// Encode was inlined into writeResponse.
	write := b.Location("go", "encoding/json.(*Encoder).Encode", "main.writeResponse")
	query := b.Location("go", "database/sql.(*DB).QueryContext")
	syscall := b.Location("kernel", "entry_SYSCALL_64")
	tcpSend := b.Location("kernel", "tcp_sendmsg")
	gcWorker := b.Location("go", "runtime.gcBgMarkWorker")
	markRoot := b.Location("go", "runtime.markroot", "runtime.gcDrain")

	pyMain := b.Location("cpython", "<module>")
	pyHandle := b.Location("cpython", "handle_request")
	pyParse := b.Location("cpython", "json.loads")
	libssl := b.UnsymbolizedLocation("/usr/lib/x86_64-linux-gnu/libssl.so.3", 0x3a2f0+uint64(rng.IntN(4))*0x40)
	native := b.Location("native", "SSL_write")

	b.Sample(b.Stack(handler, serve, goMain), "main", weight(20))
	b.Sample(b.Stack(write, handler, serve, goMain), "main", weight(40))
	b.Sample(b.Stack(query, handler, serve, goMain), "main", weight(30))
	b.Sample(b.Stack(tcpSend, syscall, write, handler, serve, goMain), "main", weight(15))
	b.Sample(b.Stack(markRoot, gcWorker), "gc-worker", weight(25))
	b.Sample(b.Stack(gcWorker), "gc-worker", weight(5))

	for _, thread := range []string{"worker-1", "worker-2"} {
		b.Sample(b.Stack(pyParse, pyHandle, pyMain), thread, weight(30))
		b.Sample(b.Stack(libssl, native, pyHandle, pyMain), thread, weight(10))
		b.Sample(b.Stack(pyHandle, pyMain), thread, weight(8))
	}

	// No thread attribute: lands under the unknown thread.
	b.Sample(b.Stack(syscall), "", weight(3))
	return b.Request()
}
