// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package simco

import (
	"math"

	"code.hybscloud.com/kont"
	"github.com/pkg/errors"
)

// ErrDrained is returned by Registry.Drain after the first drain.
var ErrDrained = errors.New("simco: registry already drained")

// Factory spawns one top-level task on a Bench.
type Factory func(b *Bench) *Task

type entry struct {
	name    string
	factory Factory
}

// Registry collects scenario factories before the simulation starts.
// Factories run once, in registration order, when the registry is drained.
type Registry struct {
	entries []entry
	drained bool
}

// Register adds a factory under name. Registering after Drain has no effect.
func (r *Registry) Register(name string, f Factory) {
	if r.drained {
		return
	}
	r.entries = append(r.entries, entry{name: name, factory: f})
}

// Scenario registers a Cont-world body spawned as a task named name.
func (r *Registry) Scenario(name string, body func(b *Bench) kont.Eff[struct{}]) {
	r.Register(name, func(b *Bench) *Task {
		return b.Spawn(name, body(b))
	})
}

// ScenarioExpr registers an Expr-world body spawned as a task named name.
func (r *Registry) ScenarioExpr(name string, body func(b *Bench) kont.Expr[struct{}]) {
	r.Register(name, func(b *Bench) *Task {
		return b.SpawnExpr(name, body(b))
	})
}

// Names returns the registered scenario names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.name
	}
	return names
}

// Drain runs every factory on b and returns the spawned tasks.
func (r *Registry) Drain(b *Bench) ([]*Task, error) {
	if r.drained {
		return nil, ErrDrained
	}
	r.drained = true
	tasks := make([]*Task, 0, len(r.entries))
	for _, e := range r.entries {
		b.log.Info().Str("scenario", e.name).Msg("starting scenario")
		tasks = append(tasks, e.factory(b))
	}
	r.entries = nil
	return tasks, nil
}

// Boot arranges for the scenarios of r to start when the simulation does.
// At start of simulation the time unit is taken from the Source precision,
// init declares nets and the registry is drained into b.
func Boot(b *Bench, r *Registry, init func(b *Bench)) error {
	_, err := b.src.Register(Callback{
		Reason: StartOfSimulation,
		Routine: func(*Callback) {
			b.SetTimeUnit(math.Pow10(b.src.Precision()))
			b.log.Info().Float64("time_unit", b.step).Msg("simulation started")
			if init != nil {
				init(b)
			}
			tasks, err := r.Drain(b)
			if err != nil {
				b.log.Error().Err(err).Msg("cannot start scenarios")
				return
			}
			b.tasks = append(b.tasks, tasks...)
		},
	})
	if err != nil {
		return errors.WithMessage(err, "simco: register start of simulation")
	}
	return nil
}
