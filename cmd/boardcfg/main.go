//go:build !tinygo

// Command boardcfg prints and checks the power display board table on a host,
// optionally with revision overrides applied.
//
//	boardcfg -rev base -set "LED=13" -json -plan
package main

import (
	"encoding/json"
	"flag"
	"io"
	"os"

	"powerdisplay/board"
	"powerdisplay/errcode"
	"powerdisplay/services/config"
	"powerdisplay/services/debug"
	"powerdisplay/services/hal"
	"powerdisplay/types"

	"github.com/rs/zerolog"
)

type options struct {
	rev      string
	file     string
	set      string
	asJSON   bool
	withPlan bool
	level    string
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("boardcfg", flag.ContinueOnError)
	fs.StringVar(&o.rev, "rev", "", "Embedded board revision to apply")
	fs.StringVar(&o.file, "file", "", "File with KEY=VALUE overrides")
	fs.StringVar(&o.set, "set", "", "Inline KEY=VALUE overrides, applied last")
	fs.BoolVar(&o.asJSON, "json", false, "Print the table as JSON")
	fs.BoolVar(&o.withPlan, "plan", false, "Also print the HAL device plan")
	fs.StringVar(&o.level, "log-level", "info", "Log level (debug, info, warn, error)")
	err := fs.Parse(args)
	return o, err
}

type layer struct{ name, text string }

// resolve applies the revision, the file and the inline overrides in order.
func resolve(o options, log zerolog.Logger) (board.Table, error) {
	t := board.Defaults()
	if err := board.Validate(t); err != nil {
		return t, err
	}

	var layers []layer
	if o.rev != "" {
		text, ok := config.EmbeddedRevisionLookup(o.rev)
		if !ok {
			return t, errcode.New(errcode.UnknownRevision, "boardcfg", o.rev)
		}
		layers = append(layers, layer{"rev " + o.rev, text})
	}
	if o.file != "" {
		b, err := os.ReadFile(o.file)
		if err != nil {
			return t, &errcode.E{C: errcode.InvalidParams, Op: "boardcfg", Msg: o.file, Err: err}
		}
		layers = append(layers, layer{o.file, string(b)})
	}
	if o.set != "" {
		layers = append(layers, layer{"-set", o.set})
	}

	for _, l := range layers {
		next, err := board.Override(t, l.text)
		if err != nil {
			return t, err
		}
		log.Debug().Str("layer", l.name).Msg("overrides applied")
		t = next
	}
	return t, nil
}

type report struct {
	Table board.Table      `json:"table"`
	Plan  *types.HALConfig `json:"plan,omitempty"`
}

func run(args []string, stdout io.Writer, log zerolog.Logger) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}
	if lvl, err := zerolog.ParseLevel(o.level); err == nil {
		log = log.Level(lvl)
	} else {
		log.Warn().Str("log-level", o.level).Msg("unknown log level, using info")
	}

	t, err := resolve(o, log)
	if err != nil {
		return err
	}

	var plan *types.HALConfig
	if o.withPlan {
		p, err := hal.Plan(t, hal.NewPinRegistry())
		if err != nil {
			return err
		}
		plan = &p
	}

	log.Info().
		Str("display", t.Display.String()).
		Str("mode", t.Mode.String()).
		Bool("debug", t.Debug).
		Msg("board table valid")

	if o.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report{Table: t, Plan: plan})
	}

	debug.New(writerUART{stdout}, true).Dump(t)
	if plan != nil {
		for _, d := range plan.Devices {
			if _, err := io.WriteString(stdout, "[plan] "+d.ID+" "+d.Type+"\r\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

// writerUART adapts an io.Writer to the console's port type.
type writerUART struct{ w io.Writer }

func (u writerUART) Read(p []byte) (int, error)  { return 0, io.EOF }
func (u writerUART) Write(p []byte) (int, error) { return u.w.Write(p) }
func (u writerUART) Buffered() int               { return 0 }

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := run(os.Args[1:], os.Stdout, log); err != nil {
		if err == flag.ErrHelp {
			return
		}
		log.Error().Err(err).Str("code", string(errcode.Of(err))).Msg("board table rejected")
		os.Exit(1)
	}
}
