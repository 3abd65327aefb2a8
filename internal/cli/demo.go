package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/strutlabs/hatchery"
	"github.com/strutlabs/hatchery/internal/proclog"
)

// echoEntry runs in the worker process: it reads values off its input
// endpoint, prefixes them, and writes them back until the parent closes its
// side. Registration happens at package initialization so the entry exists
// before main calls hatchery.CheckEntryPoint.
var echoEntry = hatchery.Register("hatchctl-echo", func(prefix string, pair *hatchery.ChannelPair) {
	for {
		var msg string
		if err := pair.In.Recv(&msg); err != nil {
			return
		}
		if err := pair.Out.Send(prefix + msg); err != nil {
			return
		}
	}
})

var demoMessage string

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Spawn an echo worker and round-trip a message through it",
	Long: `Spawn a worker process running the built-in echo entry, send it one
message over the channel, and print the reply. The spawn is recorded in the
process log; see 'hatchctl ps'.`,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().StringVar(&demoMessage, "message", "hello", "message to round-trip")
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	plog, err := proclog.Open(cfg.ProcessLog)
	if err != nil {
		return err
	}
	defer plog.Close()
	hatchery.SetProcessRecorder(plog)

	mode, err := cfg.Mode()
	if err != nil {
		return err
	}
	logMode, err := cfg.Stdio()
	if err != nil {
		return err
	}

	h, err := hatchery.Spawn(echoEntry, "echo: ", hatchery.SpawnOptions{
		Reason:  "hatchctl demo",
		LogFile: filepath.Join(cfg.LogDir, "echo.log"),
		Mode:    mode,
		LogMode: logMode,
	})
	if err != nil {
		return fmt.Errorf("failed to spawn echo worker: %w", err)
	}
	defer h.Kill()

	if err := h.Pair.Out.Send(demoMessage); err != nil {
		return fmt.Errorf("failed to send to worker: %w", err)
	}

	h.Pair.In.SetReadTimeout(10 * time.Second)
	var reply string
	if err := h.Pair.In.Recv(&reply); err != nil {
		return fmt.Errorf("failed to read from worker: %w", err)
	}

	fmt.Printf("worker %d replied: %s\n", h.PID, reply)
	return nil
}
