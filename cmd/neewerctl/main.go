// neewerctl - BLE Lighting Fixture CLI Controller
//
// A CLI tool for driving Neewer BLE lighting fixtures, offering:
//   - A noun-group, selector-first command line (neewerctl <selector> <verb> ...)
//   - Discovery, one-shot commands, status queries, and an interactive session
//   - A JSON/YAML configuration document for named lights, groups, and presets
//   - Audit logging of every delivery attempt
//
// Examples:
//
//	neewerctl discover                               # scan for nearby fixtures
//	neewerctl ALL on                                 # power on every known fixture
//	neewerctl group:studio cct --temp 5600 --bri 80  # set CCT on a group
//	neewerctl AA:BB:CC:DD:EE:FF status               # query one fixture's status
//	neewerctl serve                                  # interactive session
//	neewerctl settings show                          # no selector needed
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/neewerctl/neewerctl/pkg/audit"
	"github.com/neewerctl/neewerctl/pkg/config"
	"github.com/neewerctl/neewerctl/pkg/connection"
	"github.com/neewerctl/neewerctl/pkg/delivery"
	"github.com/neewerctl/neewerctl/pkg/fixture"
	"github.com/neewerctl/neewerctl/pkg/settings"
	"github.com/neewerctl/neewerctl/pkg/transport"
	"github.com/neewerctl/neewerctl/pkg/transport/blegatt"
	"github.com/neewerctl/neewerctl/pkg/util"
)

// App holds CLI state shared across all commands.
type App struct {
	// Context flags
	selector string

	// Option flags
	configPath string
	verbose    bool
	jsonOutput bool

	scanTimeout    time.Duration
	scanRetries    int
	connectRetries int
	writeRetries   int
	passes         int
	parallel       int
	settleDelay    time.Duration
	powerRequireAck bool

	// Initialized state (set in PersistentPreRunE)
	settings *settings.Settings
	doc      *config.Document
	dialer   transport.Transport
	conn     *connection.Manager
	eng      *delivery.Engine
	closer   func() error
}

var app = &App{}

func main() {
	// Implicit selector: if the first arg is not a known command or flag,
	// treat it as the fixture selector. This lets users write
	//   neewerctl ALL on
	// instead of
	//   neewerctl --target ALL on
	if len(os.Args) > 1 && !strings.HasPrefix(os.Args[1], "-") && !isKnownCommand(os.Args[1]) {
		os.Args = append([]string{os.Args[0], "--target", os.Args[1]}, os.Args[2:]...)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeForError(err))
	}
}

func isKnownCommand(name string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name {
			return true
		}
		for _, alias := range cmd.Aliases {
			if alias == name {
				return true
			}
		}
	}
	return name == "help" || name == "completion"
}

var rootCmd = &cobra.Command{
	Use:               "neewerctl",
	Short:             "BLE lighting fixture CLI controller",
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	Long: `neewerctl drives Neewer BLE lighting fixtures from the command line.

Commands take a fixture selector (ALL, *, a comma-separated address list, or
group:<name>) as their first argument, followed by a verb:

  neewerctl <selector> on|off
  neewerctl <selector> cct --temp 5600 --bri 80 [--gm 0]
  neewerctl <selector> hsi --hue 240 --sat 100 --bri 50
  neewerctl <selector> scene --fx 22 --bri 60
  neewerctl discover                          # no selector needed
  neewerctl <selector> status
  neewerctl <selector> serve                  # interactive session
  neewerctl settings show                     # no selector needed`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if isSettingsHelpOrVersion(cmd) {
			return nil
		}

		var err error
		app.settings, err = settings.Load()
		if err != nil {
			util.Logger.Warnf("could not load settings: %v", err)
			app.settings = &settings.Settings{}
		}

		if app.configPath == "" {
			app.configPath = app.settings.GetConfigPath()
		}
		app.doc, err = config.Load(app.configPath)
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		applyConfigDefaults(app)

		if app.verbose {
			util.SetLogLevel("debug")
		} else {
			util.SetLogLevel("warn")
		}

		adapter, err := blegatt.NewAdapter()
		if err != nil {
			return fmt.Errorf("opening BLE adapter: %w", err)
		}
		app.dialer = adapter
		app.closer = adapter.Close

		app.conn = connection.NewManager(app.dialer, app.parallel, app.connectRetries)
		app.eng = delivery.NewEngine(app.conn, app.passes, app.writeRetries, app.settleDelay, app.powerRequireAck)

		auditPath := app.settings.GetAuditLogPath()
		auditLogger, err := audit.NewFileLogger(auditPath, audit.RotationConfig{
			MaxSize:    int64(app.settings.GetAuditMaxSizeMB()) * 1024 * 1024,
			MaxBackups: app.settings.GetAuditMaxBackups(),
		})
		if err != nil {
			util.Logger.Warnf("could not initialize audit logging: %v", err)
		} else {
			audit.SetDefaultLogger(auditLogger)
		}

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if app.closer != nil {
			return app.closer()
		}
		return nil
	},
}

// applyConfigDefaults pulls engine-tuning defaults from the config
// document's `defaults` block for any flag the caller left at its zero
// value, matching spec.md §6's "applied only when the caller did not
// supply them."
func applyConfigDefaults(app *App) {
	if app.doc == nil {
		return
	}
	if app.scanRetries == 0 {
		app.scanRetries = app.doc.Int("scan_attempts", defaultScanRetries)
	}
	if app.connectRetries == 0 {
		app.connectRetries = app.doc.Int("connect_retries", defaultConnectRetries)
	}
	if app.writeRetries == 0 {
		app.writeRetries = app.doc.Int("write_retries", defaultWriteRetries)
	}
	if app.passes == 0 {
		app.passes = app.doc.Int("passes", defaultPasses)
	}
	if app.parallel == 0 {
		app.parallel = app.doc.Int("parallel", defaultParallel)
	}
}

const (
	defaultScanTimeout    = 8 * time.Second
	defaultScanRetries    = 3
	defaultConnectRetries = 3
	defaultWriteRetries   = 2
	defaultPasses         = 2
	defaultParallel       = 2
	defaultSettleDelay    = 50 * time.Millisecond
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&app.selector, "target", "t", "", "Fixture selector (ALL, *, addr[,addr...], group:<name>)")
	rootCmd.PersistentFlags().StringVarP(&app.configPath, "config", "c", "", "Configuration document path")
	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&app.jsonOutput, "json", false, "JSON output")

	rootCmd.PersistentFlags().DurationVar(&app.scanTimeout, "scan-timeout", defaultScanTimeout, "Discovery scan window")
	rootCmd.PersistentFlags().IntVar(&app.scanRetries, "scan-attempts", 0, "Discovery scan attempts (0 = from config/default)")
	rootCmd.PersistentFlags().IntVar(&app.connectRetries, "connect-retries", 0, "Per-fixture connect attempts (0 = from config/default)")
	rootCmd.PersistentFlags().IntVar(&app.writeRetries, "write-retries", 0, "Per-frame write attempts (0 = from config/default)")
	rootCmd.PersistentFlags().IntVar(&app.passes, "passes", 0, "Delivery connect-then-write passes (0 = from config/default)")
	rootCmd.PersistentFlags().IntVar(&app.parallel, "parallel", 0, "Max concurrent connect/write operations (0 = from config/default)")
	rootCmd.PersistentFlags().DurationVar(&app.settleDelay, "settle", defaultSettleDelay, "Minimum inter-frame delay within one fixture's plan")
	rootCmd.PersistentFlags().BoolVar(&app.powerRequireAck, "power-ack", false, "Require acknowledgment for power frames")

	rootCmd.AddGroup(
		&cobra.Group{ID: "fixture", Title: "Fixture Commands:"},
		&cobra.Group{ID: "session", Title: "Session & Discovery:"},
		&cobra.Group{ID: "meta", Title: "Configuration & Meta:"},
	)

	for _, cmd := range []*cobra.Command{onCmd, offCmd, cctCmd, hsiCmd, sceneCmd, statusCmd} {
		cmd.GroupID = "fixture"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{discoverCmd, serveCmd} {
		cmd.GroupID = "session"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{settingsCmd, auditCmd, versionCmd} {
		cmd.GroupID = "meta"
		rootCmd.AddCommand(cmd)
	}
}

func isSettingsHelpOrVersion(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "version", "settings":
			return true
		}
	}
	return false
}

// resolveTargets resolves app.selector (defaulting to the saved
// default_selector, then "ALL") against the loaded fixture set.
func resolveTargets() ([]*fixture.Descriptor, error) {
	sel := app.selector
	if sel == "" {
		sel = app.settings.DefaultSelector
	}
	if sel == "" {
		sel = "ALL"
	}
	parsed, err := fixture.ParseSelector(sel)
	if err != nil {
		return nil, err
	}
	known := app.doc.Fixtures()
	byAddr := make(map[string]*fixture.Descriptor, len(known))
	for _, f := range known {
		byAddr[f.Address] = f
	}
	return fixture.Resolve(parsed, byAddr, app.doc.Groups)
}
