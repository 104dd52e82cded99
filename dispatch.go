// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package simco

// delayElapsed is the Routine for AfterDelay registrations. One-shot: the
// Source retires the registration itself.
func (b *Bench) delayElapsed(cb *Callback) {
	b.consume(cb, false)
}

// readPoint is the Routine for ReadOnlySynch registrations. One-shot.
func (b *Bench) readPoint(cb *Callback) {
	b.consume(cb, false)
}

// valueChanged is the Routine for untargeted ValueChange registrations.
// The first firing resumes; the registration is removed before the
// continuation runs so no further change reaches the freed record.
func (b *Bench) valueChanged(cb *Callback) {
	b.consume(cb, true)
}

// valueChangedTo is the Routine for targeted ValueChange registrations.
// Firings whose value does not match the target return without touching
// the record; the Source fires again on the next change.
func (b *Bench) valueChangedTo(cb *Callback) {
	rec, ok := b.records.lookup(cb.UserData)
	if !ok {
		b.stale(cb)
		return
	}
	if !matchTarget(b.src.Value(cb.Obj), rec.target, rec.width) {
		return
	}
	b.consume(cb, true)
}

// consume retires the record named by cb and resumes its continuation.
func (b *Bench) consume(cb *Callback, cancel bool) {
	rec, ok := b.records.lookup(cb.UserData)
	if !ok {
		b.stale(cb)
		return
	}
	if cancel {
		if err := b.src.Remove(rec.cb); err != nil {
			b.log.Debug().Err(err).Str("reason", cb.Reason.String()).Msg("registration already retired")
		}
	}
	k, aw := rec.k, rec.aw
	b.records.release(cb.UserData)
	k.resume(aw.awaitResume())
}

func (b *Bench) stale(cb *Callback) {
	b.log.Warn().Str("reason", cb.Reason.String()).Uint64("user_data", cb.UserData).Msg("callback for retired suspension record")
}

// matchTarget compares the value field of words against target.
// Up to 32 bits only word 0 counts; wider signals compare the two
// least-significant words as one 64-bit value. Mask bits are ignored,
// so an 'x' bit compares as 1.
func matchTarget(words []Word, target uint64, width uint32) bool {
	if width <= wordBits {
		return len(words) >= 1 && uint64(words[0].Value) == target
	}
	if len(words) < 2 {
		return false
	}
	return uint64(words[1].Value)<<32|uint64(words[0].Value) == target
}
