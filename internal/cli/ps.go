package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/strutlabs/hatchery/internal/proclog"
)

var psLimit int

var psCmd = &cobra.Command{
	Use:   "ps",
	Short: "List recently recorded worker spawns",
	RunE:  runPs,
}

func init() {
	rootCmd.AddCommand(psCmd)
	psCmd.Flags().IntVar(&psLimit, "limit", 20, "maximum entries to show")
}

func runPs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	plog, err := proclog.Open(cfg.ProcessLog)
	if err != nil {
		return err
	}
	defer plog.Close()

	spawns, err := plog.Recent(psLimit)
	if err != nil {
		return err
	}
	if len(spawns) == 0 {
		fmt.Println("no recorded spawns")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PID\tSTARTED\tREASON")
	for _, s := range spawns {
		fmt.Fprintf(w, "%d\t%s\t%s\n", s.PID, s.StartedAt.Local().Format(time.RFC3339), s.Reason)
	}
	return w.Flush()
}
