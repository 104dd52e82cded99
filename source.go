// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package simco

// Reason is the event kind a Callback is registered for.
type Reason uint8

const (
	// AfterDelay fires once, Delay steps after registration.
	AfterDelay Reason = iota + 1
	// ReadOnlySynch fires once at the stable read point Delay steps ahead.
	ReadOnlySynch
	// ValueChange fires on every change of Obj until removed.
	ValueChange
	// StartOfSimulation fires once before time advances.
	StartOfSimulation
)

func (r Reason) String() string {
	switch r {
	case AfterDelay:
		return "AfterDelay"
	case ReadOnlySynch:
		return "ReadOnlySynch"
	case ValueChange:
		return "ValueChange"
	case StartOfSimulation:
		return "StartOfSimulation"
	}
	return "Reason(?)"
}

// PutFlag selects how a value is written to a signal.
type PutFlag uint8

const (
	// NoDelay is a plain write.
	NoDelay PutFlag = iota
	// Force overrides the driven value until released.
	Force
	// Release drops a previous Force.
	Release
)

func (f PutFlag) String() string {
	switch f {
	case NoDelay:
		return "NoDelay"
	case Force:
		return "Force"
	case Release:
		return "Release"
	}
	return "PutFlag(?)"
}

// Handle is an opaque signal handle issued by a Source.
// The zero Handle names no signal.
type Handle uintptr

// CallbackHandle identifies a registration at a Source.
type CallbackHandle uintptr

// Callback describes one registration and, when handed to Routine,
// one firing of it.
//
// UserData is opaque to the Source and passed back unchanged. At firing
// time the Source sets Time to the current simulation time.
type Callback struct {
	Reason   Reason
	Obj      Handle
	Delay    uint64
	Routine  func(cb *Callback)
	UserData uint64
	Time     uint64
}

// Source is the discrete-event simulator as seen by the core.
//
// All Routine invocations happen on one goroutine, the Source's callback
// loop. Scenario code runs only inside those invocations.
type Source interface {
	// Register arms cb. A refusal leaves nothing registered.
	Register(cb Callback) (CallbackHandle, error)
	// Remove retires a registration. Removing a retired one is an error.
	Remove(h CallbackHandle) error
	// Value returns the current four-valued vector of h.
	Value(h Handle) []Word
	// Put writes v to h.
	Put(h Handle, v []Word, flag PutFlag)
	// Time returns the current simulation time split in two halves.
	Time() (high, low uint32)
	// HandleByName resolves a fully qualified signal name.
	HandleByName(name string) Handle
	// Precision returns log10 of one time step in seconds.
	Precision() int
}

// Now combines the halves returned by Source.Time.
func Now(src Source) uint64 {
	hi, lo := src.Time()
	return uint64(hi)<<32 | uint64(lo)
}
