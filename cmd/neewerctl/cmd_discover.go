package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/neewerctl/neewerctl/pkg/audit"
	"github.com/neewerctl/neewerctl/pkg/cliutil"
	"github.com/neewerctl/neewerctl/pkg/discovery"
)

var discoverExhaustive bool

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Scan for nearby Neewer fixtures",
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		retries := app.scanRetries - 1
		if retries < 0 {
			retries = 0
		}
		found, err := discovery.Discover(cmd.Context(), app.dialer, discovery.Options{
			Window:     app.scanTimeout,
			Retries:    retries,
			Exhaustive: discoverExhaustive,
		})

		event := audit.NewEvent(currentUser(), "ALL", "discover").WithDuration(time.Since(start))
		if err != nil {
			event.WithError(err)
			audit.Log(event)
			return err
		}

		addrs := make([]string, 0, len(found))
		for addr := range found {
			addrs = append(addrs, addr)
		}
		event.WithAddresses(addrs).WithSuccess()
		audit.Log(event)

		if len(found) == 0 {
			fmt.Println("no fixtures found")
			exit(exitNothingToDo)
			return nil
		}

		t := cliutil.NewTable("ADDRESS", "NAME", "RSSI", "DIALECT", "CCT-ONLY")
		for _, addr := range addrs {
			d := found[addr]
			cctOnly := "no"
			if d.CCTOnly {
				cctOnly = "yes"
			}
			t.Row(d.Address, d.DisplayName, fmt.Sprintf("%d", d.SignalStrength), d.Dialect.String(), cctOnly)
		}
		t.Flush()

		exit(exitSuccess)
		return nil
	},
}

func init() {
	discoverCmd.Flags().BoolVar(&discoverExhaustive, "exhaustive", false, "Scan the full retry budget instead of stopping at the first sighting")
}
