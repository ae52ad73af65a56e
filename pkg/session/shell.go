// Package session implements the Interactive Session Loop (spec.md §4.9): a
// REPL that keeps fixture sessions warm across multiple commands, grounded
// structurally on the teacher's cmd/newtron/shell.go (persistent connection,
// command-table dispatch, dirty-free exit drain).
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/neewerctl/neewerctl/pkg/command"
	"github.com/neewerctl/neewerctl/pkg/config"
	"github.com/neewerctl/neewerctl/pkg/connection"
	"github.com/neewerctl/neewerctl/pkg/delivery"
	"github.com/neewerctl/neewerctl/pkg/fixture"
	"github.com/neewerctl/neewerctl/pkg/protocol"
)

// Shell is the interactive "serve" loop: a warm fixture pool, a command
// table, and a persistent target selector that verbs apply against until
// the caller runs `target <selector>` again.
type Shell struct {
	fixtures map[string]*fixture.Descriptor
	groups   map[string][]string
	doc      *config.Document

	conn     *connection.Manager
	delivery *delivery.Engine

	target fixture.Selector

	reader   *bufio.Reader
	out      io.Writer
	commands map[string]func(ctx context.Context, args []string) bool // true = exit
}

// New builds a Shell over a known fixture set and the groups/presets
// available from doc (doc may be nil, meaning no config document was
// loaded). initialSelector is the default target, parsed with
// fixture.ParseSelector (empty or "ALL" selects every known fixture).
func New(
	fixtures map[string]*fixture.Descriptor,
	groups map[string][]string,
	doc *config.Document,
	conn *connection.Manager,
	eng *delivery.Engine,
	in io.Reader,
	out io.Writer,
	initialSelector string,
) (*Shell, error) {
	if initialSelector == "" {
		initialSelector = "ALL"
	}
	sel, err := fixture.ParseSelector(initialSelector)
	if err != nil {
		return nil, err
	}

	s := &Shell{
		fixtures: fixtures,
		groups:   groups,
		doc:      doc,
		conn:     conn,
		delivery: eng,
		target:   sel,
		reader:   bufio.NewReader(in),
		out:      out,
	}
	s.commands = map[string]func(ctx context.Context, args []string) bool{
		"on":     func(ctx context.Context, args []string) bool { s.cmdPower(ctx, true); return false },
		"off":    func(ctx context.Context, args []string) bool { s.cmdPower(ctx, false); return false },
		"cct":    func(ctx context.Context, args []string) bool { s.cmdCCT(ctx, args); return false },
		"hsi":    func(ctx context.Context, args []string) bool { s.cmdHSI(ctx, args); return false },
		"scene":  func(ctx context.Context, args []string) bool { s.cmdScene(ctx, args); return false },
		"preset": func(ctx context.Context, args []string) bool { s.cmdPreset(ctx, args); return false },
		"target": func(ctx context.Context, args []string) bool { s.cmdTarget(args); return false },
		"help":   func(ctx context.Context, args []string) bool { s.cmdHelp(); return false },
		"?":      func(ctx context.Context, args []string) bool { s.cmdHelp(); return false },
		"exit":   func(ctx context.Context, args []string) bool { return true },
		"quit":   func(ctx context.Context, args []string) bool { return true },
	}
	return s, nil
}

// Run starts the REPL: read a line, dispatch, repeat, until EOF or `exit`.
// On exit every warm session is drained concurrently via
// connection.Manager.DisconnectAll.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "neewerctl interactive session. Type 'help' for commands.")

	for {
		fmt.Fprint(s.out, s.prompt())

		line, err := s.reader.ReadString('\n')
		if err != nil { // EOF
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		verb := strings.ToLower(fields[0])
		fn, ok := s.commands[verb]
		if !ok {
			fmt.Fprintf(s.out, "unknown command: %s (type 'help' for commands)\n", verb)
			continue
		}
		if fn(ctx, fields[1:]) {
			break
		}
	}

	s.drain()
	return nil
}

func (s *Shell) drain() {
	all := make([]*fixture.Descriptor, 0, len(s.fixtures))
	for _, f := range s.fixtures {
		all = append(all, f)
	}
	s.conn.DisconnectAll(all)
}

func (s *Shell) prompt() string {
	return "neewerctl> "
}

func (s *Shell) currentTargets() ([]*fixture.Descriptor, error) {
	return fixture.Resolve(s.target, s.fixtures, s.groups)
}

func (s *Shell) cmdTarget(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.out, "usage: target <ALL|*|addr[,addr...]|group:name>")
		return
	}
	sel, err := fixture.ParseSelector(strings.Join(args, " "))
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	if _, err := fixture.Resolve(sel, s.fixtures, s.groups); err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	s.target = sel
	fmt.Fprintln(s.out, "target updated.")
}

func (s *Shell) cmdPower(ctx context.Context, on bool) {
	s.deliverIntent(ctx, command.Intent{On: boolPtr(on)})
}

func (s *Shell) cmdCCT(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "usage: cct <temp> <bri> [gm]")
		return
	}
	temp, err1 := strconv.Atoi(args[0])
	bri, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		fmt.Fprintln(s.out, "cct: temp and bri must be integers")
		return
	}
	intent := command.Intent{Mode: strPtr(command.ModeCCT), Temp: intPtr(temp), Bri: intPtr(bri)}
	if len(args) >= 3 {
		gm, err := strconv.Atoi(args[2])
		if err != nil {
			fmt.Fprintln(s.out, "cct: gm must be an integer")
			return
		}
		intent.GM = intPtr(gm)
	}
	s.deliverIntent(ctx, intent)
}

func (s *Shell) cmdHSI(ctx context.Context, args []string) {
	if len(args) < 3 {
		fmt.Fprintln(s.out, "usage: hsi <hue> <sat> <bri>")
		return
	}
	hue, err1 := strconv.Atoi(args[0])
	sat, err2 := strconv.Atoi(args[1])
	bri, err3 := strconv.Atoi(args[2])
	if err1 != nil || err2 != nil || err3 != nil {
		fmt.Fprintln(s.out, "hsi: hue, sat, and bri must be integers")
		return
	}
	s.deliverIntent(ctx, command.Intent{Mode: strPtr(command.ModeHSI), Hue: intPtr(hue), Sat: intPtr(sat), Bri: intPtr(bri)})
}

func (s *Shell) cmdScene(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "usage: scene <fx> <bri>")
		return
	}
	fx, err1 := strconv.Atoi(args[0])
	bri, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		fmt.Fprintln(s.out, "scene: fx and bri must be integers")
		return
	}
	s.deliverIntent(ctx, command.Intent{Mode: strPtr(command.ModeScene), Scene: intPtr(fx), Bri: intPtr(bri)})
}

// cmdPreset loads a named preset from the active config document, overlays
// it onto Default() (caller-supplied shell arguments always win, but a shell
// verb is itself the caller here, so the preset is simply delivered as-is),
// and delivers it plus any per_light overrides to the current target set.
func (s *Shell) cmdPreset(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.out, "usage: preset <name>")
		return
	}
	if s.doc == nil {
		fmt.Fprintln(s.out, "preset: no config document loaded")
		return
	}
	preset, err := s.doc.ResolvePreset(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}

	intent := command.Overlay(command.Default(), preset.Intent)
	s.deliverIntentWithPerLight(ctx, intent, preset.PerLight)
}

func (s *Shell) cmdHelp() {
	fmt.Fprintln(s.out, "commands:")
	fmt.Fprintln(s.out, "  on                       power on the current target")
	fmt.Fprintln(s.out, "  off                      power off the current target")
	fmt.Fprintln(s.out, "  cct <temp> <bri> [gm]    set color temperature")
	fmt.Fprintln(s.out, "  hsi <hue> <sat> <bri>    set hue/saturation/intensity")
	fmt.Fprintln(s.out, "  scene <fx> <bri>         run an animated scene")
	fmt.Fprintln(s.out, "  preset <name>            apply a named config preset")
	fmt.Fprintln(s.out, "  target <selector>        change the current target set")
	fmt.Fprintln(s.out, "  help                     show this help")
	fmt.Fprintln(s.out, "  exit                     disconnect and quit")
}

func (s *Shell) deliverIntent(ctx context.Context, intent command.Intent) {
	s.deliverIntentWithPerLight(ctx, intent, nil)
}

// deliverIntentWithPerLight builds one protocol.BaseCommand per fixture
// address (since scene encoding depends on each fixture's
// SupportsExtendedScene, a single shared command.ToBaseCommand call is not
// enough) and hands the whole override map to the Delivery Engine in one
// call, mirroring the teacher's "resolve everything before touching the
// transport" shape.
func (s *Shell) deliverIntentWithPerLight(ctx context.Context, intent command.Intent, perLight map[string]command.Intent) {
	targets, err := s.currentTargets()
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	if len(targets) == 0 {
		fmt.Fprintln(s.out, "no fixtures match the current target")
		return
	}

	var defaultCmd protocol.BaseCommand
	overrides := make(map[string]protocol.BaseCommand, len(targets))
	for _, f := range targets {
		effective := intent
		if override, ok := perLight[f.Address]; ok {
			effective = command.Overlay(intent, override)
		}
		cmd, err := command.ToBaseCommand(effective, f.SupportsExtendedScene)
		if err != nil {
			fmt.Fprintf(s.out, "error: %s: %v\n", f.Address, err)
			return
		}
		overrides[f.Address] = cmd
	}
	if len(targets) > 0 {
		defaultCmd = overrides[targets[0].Address]
	}

	fmt.Fprintln(s.out, "delivering...")
	errs := s.delivery.Deliver(ctx, targets, defaultCmd, overrides)
	reportResults(s.out, targets, errs)
}

func reportResults(out io.Writer, targets []*fixture.Descriptor, errs map[string]string) {
	if len(errs) == 0 {
		fmt.Fprintf(out, "ok: %d fixture(s) updated\n", len(targets))
		return
	}
	for _, f := range targets {
		if msg, failed := errs[f.Address]; failed {
			fmt.Fprintf(out, "  %s: FAILED: %s\n", f.Address, msg)
		} else {
			fmt.Fprintf(out, "  %s: ok\n", f.Address)
		}
	}
}

func boolPtr(b bool) *bool { return &b }
func strPtr(s string) *string { return &s }
func intPtr(i int) *int { return &i }
