// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package simco

import "math"

// TimeUnit scales delays and timestamps given to awaiters.
// The zero value is Ns.
type TimeUnit uint8

const (
	Ns TimeUnit = iota
	Us
	Ms
	Ps
)

// Factor returns the unit in seconds.
func (u TimeUnit) Factor() float64 {
	switch u {
	case Ms:
		return 1e-3
	case Us:
		return 1e-6
	case Ps:
		return 1e-12
	}
	return 1e-9
}

func (u TimeUnit) String() string {
	switch u {
	case Ms:
		return "ms"
	case Us:
		return "us"
	case Ps:
		return "ps"
	}
	return "ns"
}

// toSteps converts d in unit u into simulator steps of step seconds.
// Rounds to the nearest step so that 7.25ns at 1ps is 7250 steps.
func toSteps(d float64, u TimeUnit, step float64) uint64 {
	if d <= 0 {
		return 0
	}
	return uint64(math.Round(d * u.Factor() / step))
}

// fromSteps converts n simulator steps of step seconds into unit u.
func fromSteps(n uint64, u TimeUnit, step float64) float64 {
	return float64(n) * step / u.Factor()
}
