// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// simco runs the demonstration scenarios against the reference kernel and
// prints recorded value-change traces.
package main

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/alecthomas/kingpin.v2"

	"code.hybscloud.com/simco"
	"code.hybscloud.com/simco/internal/demo"
	"code.hybscloud.com/simco/kernel"
	"code.hybscloud.com/simco/trace"
)

type arguments struct {
	command  string
	design   string
	until    float64
	cycles   int
	trace    string
	logLevel zerolog.Level
	profile  string
	pretty   bool
}

func parseArgs(args []string) (*arguments, error) {
	app := kingpin.New("simco", "Run test scenarios on the reference simulation kernel.")
	logLevel := app.Flag("logLevel", "Minimum level of log output.").Default("info").Enum("debug", "info", "warn", "error")

	run := app.Command("run", "Run the demo scenarios.")
	design := run.Flag("design", "YAML design file (defaults to the bundled demo design).").String()
	until := run.Flag("until", "Simulated time to stop at, in nanoseconds.").Default("100").Float64()
	cycles := run.Flag("cycles", "Number of clock periods to generate.").Default("4").Int()
	tracePath := run.Flag("trace", "Directory to record value changes to.").String()
	profilePath := run.Flag("profile", "Directory to write a CPU profile to.").String()

	replay := app.Command("trace", "Print a recorded value-change trace.")
	replayPath := replay.Arg("path", "Trace directory.").Required().String()
	pretty := replay.Flag("pretty", "Style the output for a terminal.").Bool()

	command, err := app.Parse(args)
	if err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		return nil, errors.WithMessage(err, "bad log level")
	}

	a := &arguments{command: command, logLevel: level}
	switch command {
	case run.FullCommand():
		if *until < 0 {
			return nil, errors.Errorf("--until must not be negative")
		}
		if *cycles < 0 {
			return nil, errors.Errorf("--cycles must not be negative")
		}
		a.design = *design
		a.until = *until
		a.cycles = *cycles
		a.trace = *tracePath
		a.profile = *profilePath
	case replay.FullCommand():
		a.trace = *replayPath
		a.pretty = *pretty
	}
	return a, nil
}

func (a *arguments) execute(output io.Writer) error {
	zerolog.SetGlobalLevel(a.logLevel)
	if a.command == "trace" {
		show := display(plainDisplay)
		if a.pretty {
			show = prettyDisplay
		}
		return trace.Replay(a.trace, func(e trace.Entry) error {
			return show(output, e)
		})
	}

	if a.profile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(a.profile), profile.Quiet).Stop()
	}

	cfg, err := a.loadDesign()
	if err != nil {
		return err
	}

	var opts []kernel.Option
	if a.trace != "" {
		rec, err := trace.Open(a.trace)
		if err != nil {
			return err
		}
		defer func() {
			if err := rec.Close(); err != nil {
				log.Error().Err(err).Msg("could not close trace")
			}
		}()
		opts = append(opts, kernel.WithTracer(rec))
	}

	k, err := kernel.NewFromConfig(cfg, opts...)
	if err != nil {
		return err
	}

	var failed error
	b := simco.NewBench(k, cfg.Top, simco.WithFatal(func(task string, err error) {
		log.Error().Str("task", task).Err(err).Msg("scenario failed")
		if failed == nil {
			failed = errors.WithMessagef(err, "scenario %s", task)
		}
	}))

	var reg simco.Registry
	demo.Register(&reg, a.cycles)
	if err := simco.Boot(b, &reg, demo.Nets); err != nil {
		return err
	}

	k.Run(uint64(math.Round(a.until * 1e-9 / math.Pow10(cfg.Precision))))

	for _, t := range b.Tasks() {
		fmt.Fprintf(output, "%-10s %s\n", t.Name(), t.State())
	}
	fmt.Fprintf(output, "stopped at %d steps, %d tasks live, %d suspended\n", k.Now(), b.Live(), b.Pending())
	return failed
}

func (a *arguments) loadDesign() (*kernel.Config, error) {
	if a.design == "" {
		return kernel.ParseConfig(demo.Design)
	}
	return kernel.LoadConfig(a.design)
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	kingpin.Version("0.0.1")
	args, err := parseArgs(os.Args[1:])
	if err != nil {
		kingpin.Fatalf("failed to parse arguments, %s, try --help", err)
	}
	if err := args.execute(os.Stdout); err != nil {
		kingpin.Fatalf("%s", err)
	}
}
