package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/neewerctl/neewerctl/pkg/audit"
	"github.com/neewerctl/neewerctl/pkg/command"
	"github.com/neewerctl/neewerctl/pkg/fixture"
	"github.com/neewerctl/neewerctl/pkg/protocol"
)

var onCmd = &cobra.Command{
	Use:   "on",
	Short: "Power on the selected fixture(s)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDelivery(cmd.Context(), "on", command.Intent{On: boolPtr(true)})
	},
}

var offCmd = &cobra.Command{
	Use:   "off",
	Short: "Power off the selected fixture(s)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDelivery(cmd.Context(), "off", command.Intent{On: boolPtr(false)})
	},
}

var (
	cctTemp int
	cctBri  int
	cctGM   int
)

var cctCmd = &cobra.Command{
	Use:   "cct",
	Short: "Set color temperature mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		intent := command.Intent{Mode: strPtr(command.ModeCCT)}
		if cmd.Flags().Changed("temp") {
			intent.Temp = intPtr(cctTemp)
		}
		if cmd.Flags().Changed("bri") {
			intent.Bri = intPtr(cctBri)
		}
		if cmd.Flags().Changed("gm") {
			intent.GM = intPtr(cctGM)
		}
		return runDelivery(cmd.Context(), "cct", intent)
	},
}

var (
	hsiHue int
	hsiSat int
	hsiBri int
)

var hsiCmd = &cobra.Command{
	Use:   "hsi",
	Short: "Set hue/saturation/intensity mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		intent := command.Intent{Mode: strPtr(command.ModeHSI)}
		if cmd.Flags().Changed("hue") {
			intent.Hue = intPtr(hsiHue)
		}
		if cmd.Flags().Changed("sat") {
			intent.Sat = intPtr(hsiSat)
		}
		if cmd.Flags().Changed("bri") {
			intent.Bri = intPtr(hsiBri)
		}
		return runDelivery(cmd.Context(), "hsi", intent)
	},
}

var (
	sceneFx      int
	sceneBri     int
	sceneSpeed   int
	sceneSparks  int
	sceneSpecial int
)

var sceneCmd = &cobra.Command{
	Use:   "scene",
	Short: "Run an animated scene",
	RunE: func(cmd *cobra.Command, args []string) error {
		intent := command.Intent{Mode: strPtr(command.ModeScene)}
		if cmd.Flags().Changed("fx") {
			intent.Scene = intPtr(sceneFx)
		}
		if cmd.Flags().Changed("bri") {
			intent.Bri = intPtr(sceneBri)
		}
		if cmd.Flags().Changed("speed") {
			intent.SceneSpeed = intPtr(sceneSpeed)
		}
		if cmd.Flags().Changed("sparks") {
			intent.SceneSparks = intPtr(sceneSparks)
		}
		if cmd.Flags().Changed("special") {
			intent.SceneSpecial = intPtr(sceneSpecial)
		}
		return runDelivery(cmd.Context(), "scene", intent)
	},
}

func init() {
	cctCmd.Flags().IntVar(&cctTemp, "temp", 0, "Color temperature in Kelvin (e.g. 5600) or the two-digit code (56)")
	cctCmd.Flags().IntVar(&cctBri, "bri", 0, "Brightness 0-100")
	cctCmd.Flags().IntVar(&cctGM, "gm", 0, "Green/magenta tint, -50..50")

	hsiCmd.Flags().IntVar(&hsiHue, "hue", 0, "Hue 0-360")
	hsiCmd.Flags().IntVar(&hsiSat, "sat", 0, "Saturation 0-100")
	hsiCmd.Flags().IntVar(&hsiBri, "bri", 0, "Brightness 0-100")

	sceneCmd.Flags().IntVar(&sceneFx, "fx", 0, "Scene/effect number")
	sceneCmd.Flags().IntVar(&sceneBri, "bri", 0, "Brightness 0-100")
	sceneCmd.Flags().IntVar(&sceneSpeed, "speed", 0, "Scene speed")
	sceneCmd.Flags().IntVar(&sceneSparks, "sparks", 0, "Scene sparks")
	sceneCmd.Flags().IntVar(&sceneSpecial, "special", 0, "Scene special-options flags")
}

// runDelivery overlays intent onto the config document's defaults, resolves
// the current selector, builds one protocol.BaseCommand per fixture
// (scene encoding depends on each fixture's capability), delivers, reports
// results, logs an audit event, and exits with spec.md §6's exit code.
func runDelivery(ctx context.Context, operation string, intent command.Intent) error {
	base, err := app.doc.DefaultsIntent()
	if err != nil {
		return err
	}
	effective := command.Overlay(command.Overlay(command.Default(), base.Intent), intent)

	targets, err := resolveTargets()
	if err != nil {
		return err
	}

	start := time.Now()
	event := audit.NewEvent(currentUser(), selectorOrDefault(), operation)

	if len(targets) == 0 {
		event.WithAddresses(nil).WithSuccess().WithExecuteMode(true).WithDuration(time.Since(start))
		audit.Log(event)
		fmt.Println("no fixtures match the current selector")
		exit(exitCodeForDelivery(0, nil))
		return nil
	}

	overrides := make(map[string]protocol.BaseCommand, len(targets))
	var defaultCmd protocol.BaseCommand
	for i, f := range targets {
		cmd, err := command.ToBaseCommand(effective, f.SupportsExtendedScene)
		if err != nil {
			return err
		}
		overrides[f.Address] = cmd
		if i == 0 {
			defaultCmd = cmd
		}
	}

	errs := app.eng.Deliver(ctx, targets, defaultCmd, overrides)
	reportDeliveryResults(targets, errs)

	addrs := make([]string, len(targets))
	for i, f := range targets {
		addrs[i] = f.Address
	}
	event.WithAddresses(addrs).WithResults(errs).WithExecuteMode(true).WithDuration(time.Since(start))
	if len(errs) == 0 {
		event.WithSuccess()
	} else {
		event.WithError(fmt.Errorf("%d of %d fixtures failed", len(errs), len(targets)))
	}
	audit.Log(event)

	exit(exitCodeForDelivery(len(targets), errs))
	return nil
}

func reportDeliveryResults(targets []*fixture.Descriptor, errs map[string]string) {
	if len(errs) == 0 {
		fmt.Printf("ok: %d fixture(s) updated\n", len(targets))
		return
	}
	for _, f := range targets {
		if msg, failed := errs[f.Address]; failed {
			fmt.Printf("  %s: FAILED: %s\n", f.Address, msg)
		} else {
			fmt.Printf("  %s: ok\n", f.Address)
		}
	}
}

func selectorOrDefault() string {
	if app.selector != "" {
		return app.selector
	}
	if app.settings != nil && app.settings.DefaultSelector != "" {
		return app.settings.DefaultSelector
	}
	return "ALL"
}

func currentUser() string {
	if u := osUserName(); u != "" {
		return u
	}
	return "unknown"
}

func boolPtr(b bool) *bool   { return &b }
func strPtr(s string) *string { return &s }
func intPtr(i int) *int      { return &i }
