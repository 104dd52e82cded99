// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package simco

import (
	"math"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// net is one entry of the signal table.
type net struct {
	handle Handle
	width  uint32
}

// Bench binds scenarios to one design under test on a Source.
// It owns the signal table, the simulator time unit and every live
// suspension record. A Bench is used from the Source's callback loop only,
// except for Live and Wait.
type Bench struct {
	src     Source
	dut     string
	step    float64
	nets    map[string]net
	records recordTable
	slots   int
	tasks   []*Task
	live    atomix.Uint32
	log     zerolog.Logger
	onFatal func(task string, err error)
}

// Option configures a Bench.
type Option func(b *Bench)

// WithLogger replaces the default logger.
func WithLogger(l zerolog.Logger) Option {
	return func(b *Bench) { b.log = l }
}

// WithFatal replaces the handler invoked when a task fails with an error
// that escapes its body. The default logs at fatal level, which exits.
func WithFatal(f func(task string, err error)) Option {
	return func(b *Bench) { b.onFatal = f }
}

// WithRecordSlots bounds the free list of recycled suspension record slots.
func WithRecordSlots(n int) Option {
	return func(b *Bench) { b.slots = n }
}

// NewBench returns a Bench for the design instance dut on src.
// The time unit is taken from src.Precision.
func NewBench(src Source, dut string, opts ...Option) *Bench {
	b := &Bench{
		src:  src,
		dut:  dut,
		step: math.Pow10(src.Precision()),
		nets: make(map[string]net),
		log:  log.Logger.With().Str("dut", dut).Logger(),
	}
	b.onFatal = func(task string, err error) {
		b.log.Fatal().Str("task", task).Err(err).Msg("unrecoverable scenario failure")
	}
	for _, opt := range opts {
		opt(b)
	}
	b.records.init(b.slots)
	return b
}

// DUT returns the design instance name.
func (b *Bench) DUT() string {
	return b.dut
}

// Source returns the event source the Bench registers with.
func (b *Bench) Source() Source {
	return b.src
}

// Logger returns the Bench logger.
func (b *Bench) Logger() *zerolog.Logger {
	return &b.log
}

// SetTimeUnit sets the duration of one simulator step in seconds.
func (b *Bench) SetTimeUnit(seconds float64) {
	b.step = seconds
}

// TimeUnit returns the duration of one simulator step in seconds.
func (b *Bench) TimeUnit() float64 {
	return b.step
}

// AddNet declares the signal key of width bits, resolved as "dut.key".
// A failed resolution is logged and the net is kept with a zero handle;
// writes to it are skipped and reads of it come back empty.
func (b *Bench) AddNet(key string, width uint32) {
	full := b.dut + "." + key
	h := b.src.HandleByName(full)
	if h == 0 {
		b.log.Error().Str("net", key).Str("name", full).Msg("cannot resolve net")
	} else {
		b.log.Debug().Str("net", key).Str("name", full).Uint32("width", width).Msg("registered net")
	}
	b.nets[key] = net{handle: h, width: width}
}

// NetHandle returns the handle of key. Unknown or unresolved nets are logged.
func (b *Bench) NetHandle(key string) (Handle, bool) {
	n, ok := b.nets[key]
	if !ok {
		b.log.Error().Str("net", key).Msg("net not found")
		return 0, false
	}
	if n.handle == 0 {
		b.log.Error().Str("net", key).Msg("net has no handle")
		return 0, false
	}
	return n.handle, true
}

// NetWidth returns the width of key in bits, or 0 if key is unknown.
func (b *Bench) NetWidth(key string) uint32 {
	n, ok := b.nets[key]
	if !ok {
		b.log.Error().Str("net", key).Msg("net not found")
		return 0
	}
	return n.width
}

// Tasks returns the tasks started by Boot.
func (b *Bench) Tasks() []*Task {
	return b.tasks
}

// Pending returns the number of suspension records owned by the Source.
func (b *Bench) Pending() int {
	return b.records.live
}

// Live returns the number of tasks that have neither completed nor stopped.
// Safe to call from any goroutine.
func (b *Bench) Live() int {
	return int(b.live.Load())
}

// Wait blocks until no task is live, backing off with iox.Backoff.
// It is meant for a goroutine other than the Source's callback loop.
func (b *Bench) Wait() {
	var bo iox.Backoff
	for b.live.Load() != 0 {
		bo.Wait()
	}
}

// steps converts d in unit u into simulator steps.
func (b *Bench) steps(d float64, u TimeUnit) uint64 {
	return toSteps(d, u, b.step)
}

// now returns the current simulation time in steps.
func (b *Bench) now() uint64 {
	return Now(b.src)
}

// register hands rec to the Source for one event of reason on obj.
// On refusal rec is released at once and false is returned; the caller's
// continuation is then never resumed.
func (b *Bench) register(reason Reason, obj Handle, delay uint64, routine func(cb *Callback), rec *record) bool {
	id := b.records.hold(rec)
	h, err := b.src.Register(Callback{
		Reason:   reason,
		Obj:      obj,
		Delay:    delay,
		Routine:  routine,
		UserData: id,
	})
	if err != nil {
		b.records.release(id)
		b.log.Warn().Err(err).Str("reason", reason.String()).Msg("cannot register callback")
		return false
	}
	rec.cb = h
	return true
}
