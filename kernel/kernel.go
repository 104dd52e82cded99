// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package kernel is a small discrete-event simulator implementing
// [simco.Source]. It holds four-valued nets with force and release, a
// time-ordered event queue with an active and a read-only phase per time
// step, and value-change notification. It has no model of its own: nets
// change only when written.
package kernel

import (
	"math"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/simco"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrUnknownCallback is returned by Remove for a retired or foreign handle.
var ErrUnknownCallback = errors.New("kernel: unknown callback")

// ErrUnknownNet is returned by Register for a value-change callback on a
// handle that names no net.
var ErrUnknownNet = errors.New("kernel: unknown net")

// Tracer receives every effective value change.
type Tracer interface {
	Change(time uint64, net string, bits string) error
}

// Option configures a Kernel.
type Option func(k *Kernel)

// WithLogger replaces the default logger.
func WithLogger(l zerolog.Logger) Option {
	return func(k *Kernel) { k.log = l }
}

// WithTracer records value changes to t.
func WithTracer(t Tracer) Option {
	return func(k *Kernel) { k.tracer = t }
}

// WithMaxCallbacks bounds the number of live registrations. Registrations
// beyond the bound are refused with iox.ErrWouldBlock.
func WithMaxCallbacks(n int) Option {
	return func(k *Kernel) { k.maxCallbacks = n }
}

// WithPrecision sets log10 of one time step in seconds. The default is -12.
func WithPrecision(p int) Option {
	return func(k *Kernel) { k.precision = p }
}

// change is an effective value change and the watchers registered on its
// net when it happened.
type change struct {
	net      *net
	watchers []simco.CallbackHandle
}

// registration is a live callback.
type registration struct {
	cb  simco.Callback
	net *net
}

// Kernel is the reference event source. It is not safe for concurrent use;
// every method must be called from the goroutine running Run, or before it.
type Kernel struct {
	precision    int
	maxCallbacks int
	now          uint64
	seq          uint64
	nets         []*net
	byName       map[string]simco.Handle
	regs         map[simco.CallbackHandle]*registration
	lastCB       simco.CallbackHandle
	queue        eventQueue
	starts       []simco.CallbackHandle
	started      bool
	changed      []change
	tracer       Tracer
	log          zerolog.Logger
}

// New returns an empty kernel.
func New(opts ...Option) *Kernel {
	k := &Kernel{
		precision: -12,
		byName:    make(map[string]simco.Handle),
		regs:      make(map[simco.CallbackHandle]*registration),
		log:       log.Logger.With().Str("component", "kernel").Logger(),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// NewFromConfig returns a kernel holding the nets of cfg, named "top.net".
// Options override the precision and callback bound of cfg.
func NewFromConfig(cfg *Config, opts ...Option) (*Kernel, error) {
	base := []Option{WithPrecision(cfg.Precision), WithMaxCallbacks(cfg.MaxCallbacks)}
	k := New(append(base, opts...)...)
	for _, nc := range cfg.Nets {
		h := k.AddNet(cfg.Top+"."+nc.Name, nc.Width)
		if nc.Init == "" {
			continue
		}
		bits, err := simco.HexToBin(nc.Init)
		if err != nil {
			return nil, errors.WithMessagef(err, "net %s", nc.Name)
		}
		words, err := simco.EncodeString(bits, nc.Width)
		if err != nil {
			return nil, errors.WithMessagef(err, "net %s", nc.Name)
		}
		k.nets[h-1].driven = k.nets[h-1].fit(words)
	}
	return k, nil
}

// AddNet declares a net under its fully qualified name and returns its
// handle. Declaring a name twice returns the existing handle.
func (k *Kernel) AddNet(name string, width uint32) simco.Handle {
	if h, ok := k.byName[name]; ok {
		return h
	}
	k.nets = append(k.nets, newNet(name, width))
	h := simco.Handle(len(k.nets))
	k.byName[name] = h
	k.log.Debug().Str("net", name).Uint32("width", width).Msg("declared net")
	return h
}

func (k *Kernel) net(h simco.Handle) *net {
	if h == 0 || int(h) > len(k.nets) {
		return nil
	}
	return k.nets[h-1]
}

// Register implements simco.Source.
func (k *Kernel) Register(cb simco.Callback) (simco.CallbackHandle, error) {
	if k.maxCallbacks > 0 && len(k.regs) >= k.maxCallbacks {
		return 0, iox.ErrWouldBlock
	}
	reg := &registration{cb: cb}
	switch cb.Reason {
	case simco.AfterDelay, simco.ReadOnlySynch:
	case simco.ValueChange:
		if reg.net = k.net(cb.Obj); reg.net == nil {
			return 0, ErrUnknownNet
		}
	case simco.StartOfSimulation:
		if k.started {
			return 0, errors.New("kernel: simulation already started")
		}
	default:
		return 0, errors.Errorf("kernel: unsupported reason %d", cb.Reason)
	}
	k.lastCB++
	h := k.lastCB
	k.regs[h] = reg
	switch cb.Reason {
	case simco.AfterDelay:
		k.schedule(h, k.now+cb.Delay, phaseActive)
	case simco.ReadOnlySynch:
		k.schedule(h, k.now+cb.Delay, phaseReadOnly)
	case simco.ValueChange:
		reg.net.watchers = append(reg.net.watchers, h)
	case simco.StartOfSimulation:
		k.starts = append(k.starts, h)
	}
	return h, nil
}

func (k *Kernel) schedule(h simco.CallbackHandle, at uint64, p phase) {
	k.seq++
	k.queue.schedule(event{time: at, phase: p, seq: k.seq, cb: h})
}

// Remove implements simco.Source.
func (k *Kernel) Remove(h simco.CallbackHandle) error {
	reg, ok := k.regs[h]
	if !ok {
		return ErrUnknownCallback
	}
	delete(k.regs, h)
	if reg.net != nil {
		reg.net.unwatch(h)
	}
	return nil
}

// Value implements simco.Source. Unknown handles read as nil.
func (k *Kernel) Value(h simco.Handle) []simco.Word {
	n := k.net(h)
	if n == nil {
		return nil
	}
	v := n.value()
	out := make([]simco.Word, len(v))
	copy(out, v)
	return out
}

// Put implements simco.Source. A write that changes the effective value
// notifies the watchers of the net once the current routine returns.
func (k *Kernel) Put(h simco.Handle, v []simco.Word, flag simco.PutFlag) {
	n := k.net(h)
	if n == nil {
		k.log.Warn().Uint64("handle", uint64(h)).Msg("write to unknown net")
		return
	}
	if !n.put(v, flag) {
		return
	}
	if k.tracer != nil {
		if err := k.tracer.Change(k.now, n.name, n.bits()); err != nil {
			k.log.Error().Err(err).Str("net", n.name).Msg("could not trace value change")
		}
	}
	k.changed = append(k.changed, change{
		net:      n,
		watchers: append([]simco.CallbackHandle(nil), n.watchers...),
	})
}

// Time implements simco.Source.
func (k *Kernel) Time() (high, low uint32) {
	return uint32(k.now >> 32), uint32(k.now)
}

// Now returns the current simulation time in steps.
func (k *Kernel) Now() uint64 {
	return k.now
}

// HandleByName implements simco.Source.
func (k *Kernel) HandleByName(name string) simco.Handle {
	return k.byName[name]
}

// Precision implements simco.Source.
func (k *Kernel) Precision() int {
	return k.precision
}

// Callbacks returns the number of live registrations.
func (k *Kernel) Callbacks() int {
	return len(k.regs)
}

// Idle reports whether no timed event is scheduled.
func (k *Kernel) Idle() bool {
	for {
		ev, ok := k.queue.peek()
		if !ok {
			return true
		}
		if _, live := k.regs[ev.cb]; live {
			return false
		}
		k.queue.next()
	}
}

// Run fires start-of-simulation callbacks on first use, then processes
// events in time order until the queue is empty or the next event lies
// beyond until. Time never moves past until.
func (k *Kernel) Run(until uint64) {
	if !k.started {
		k.started = true
		starts := k.starts
		k.starts = nil
		for _, h := range starts {
			k.fire(h)
		}
	}
	for {
		ev, ok := k.queue.peek()
		if !ok || ev.time > until {
			break
		}
		k.queue.next()
		if _, live := k.regs[ev.cb]; !live {
			continue
		}
		k.now = ev.time
		k.fire(ev.cb)
	}
	if until != math.MaxUint64 && until > k.now {
		k.now = until
	}
}

// fire retires a one-shot registration and invokes it, then
// delivers every value change the routine caused.
func (k *Kernel) fire(h simco.CallbackHandle) {
	reg, ok := k.regs[h]
	if !ok {
		return
	}
	delete(k.regs, h)
	cb := reg.cb
	cb.Time = k.now
	cb.Routine(&cb)
	k.notify()
}

// notify delivers pending value changes in the order they were made, each
// to the watchers that existed at the time. Changes caused by watchers are
// delivered in turn, in the same time step.
func (k *Kernel) notify() {
	for len(k.changed) > 0 {
		c := k.changed[0]
		k.changed = k.changed[1:]
		for _, h := range c.watchers {
			reg, ok := k.regs[h]
			if !ok {
				continue
			}
			cb := reg.cb
			cb.Time = k.now
			cb.Routine(&cb)
		}
	}
	k.changed = k.changed[:0]
}
