package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/neewerctl/neewerctl/pkg/audit"
	"github.com/neewerctl/neewerctl/pkg/cliutil"
	"github.com/neewerctl/neewerctl/pkg/connection"
	"github.com/neewerctl/neewerctl/pkg/statusquery"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Query power and channel status of the selected fixture(s)",
	RunE: func(cmd *cobra.Command, args []string) error {
		targets, err := resolveTargets()
		if err != nil {
			return err
		}
		if len(targets) == 0 {
			fmt.Println("no fixtures match the current selector")
			exit(exitNothingToDo)
			return nil
		}

		start := time.Now()
		event := audit.NewEvent(currentUser(), selectorOrDefault(), "status_query")

		t := cliutil.NewTable("ADDRESS", "NAME", "POWER", "CHANNEL")
		results := make(map[string]string, len(targets))
		addrs := make([]string, len(targets))

		for i, f := range targets {
			addrs[i] = f.Address
			if !f.SupportsStatusQuery {
				results[f.Address] = "status query not supported by this fixture"
				t.Row(f.Address, f.DisplayName, "UNSUPPORTED", "---")
				continue
			}
			if err := app.conn.Connect(cmd.Context(), f); err != nil {
				results[f.Address] = err.Error()
				t.Row(f.Address, f.DisplayName, "ERROR", "---")
				continue
			}
			session, ok := f.Session().(*connection.Session)
			if !ok || session == nil {
				results[f.Address] = "not connected"
				t.Row(f.Address, f.DisplayName, "ERROR", "---")
				continue
			}
			st, err := statusquery.Query(cmd.Context(), session.Conn(), statusquery.Options{})
			if err != nil {
				results[f.Address] = err.Error()
				t.Row(f.Address, f.DisplayName, "ERROR", "---")
				continue
			}
			t.Row(f.Address, f.DisplayName, st.Power.String(), st.ChannelString())
		}
		t.Flush()

		errs := make(map[string]string)
		for addr, msg := range results {
			errs[addr] = msg
		}
		event.WithAddresses(addrs).WithResults(errs).WithDuration(time.Since(start))
		if len(errs) == 0 {
			event.WithSuccess()
		} else {
			event.WithError(fmt.Errorf("%d of %d fixtures failed", len(errs), len(targets)))
		}
		audit.Log(event)

		exit(exitCodeForDelivery(len(targets), errs))
		return nil
	},
}
