// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package trace records net value changes to a write-ahead log and
// replays them.
package trace

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"github.com/tidwall/wal"
)

// Entry is one recorded value change.
type Entry struct {
	Time uint64
	Net  string
	Bits string
}

func (e Entry) marshal() []byte {
	buf := make([]byte, 0, 2*binary.MaxVarintLen64+len(e.Net)+len(e.Bits))
	buf = binary.AppendUvarint(buf, e.Time)
	buf = binary.AppendUvarint(buf, uint64(len(e.Net)))
	buf = append(buf, e.Net...)
	return append(buf, e.Bits...)
}

func unmarshal(data []byte) (Entry, error) {
	t, n := binary.Uvarint(data)
	if n <= 0 {
		return Entry{}, errors.New("bad time field")
	}
	data = data[n:]
	l, n := binary.Uvarint(data)
	if n <= 0 || uint64(len(data)-n) < l {
		return Entry{}, errors.New("bad net field")
	}
	data = data[n:]
	return Entry{Time: t, Net: string(data[:l]), Bits: string(data[l:])}, nil
}

// Recorder appends value changes to a log directory.
type Recorder struct {
	nextIndex uint64
	log       *wal.Log
}

// Open opens the log at path, appending after any entries already in it.
func Open(path string) (*Recorder, error) {
	log, err := wal.Open(path, &wal.Options{
		NoSync: true,
		NoCopy: true,
	})
	if err != nil {
		return nil, errors.WithMessage(err, "could not open trace")
	}

	lastIndex, err := log.LastIndex()
	if err != nil {
		log.Close()
		return nil, errors.WithMessage(err, "could not read last index")
	}

	return &Recorder{
		nextIndex: lastIndex + 1,
		log:       log,
	}, nil
}

// Change records that net took the value bits at time.
func (r *Recorder) Change(time uint64, net, bits string) error {
	e := Entry{Time: time, Net: net, Bits: bits}
	if err := r.log.Write(r.nextIndex, e.marshal()); err != nil {
		return errors.WithMessagef(err, "could not write index %d", r.nextIndex)
	}
	r.nextIndex++
	return nil
}

// Len returns the number of recorded entries.
func (r *Recorder) Len() uint64 {
	return r.nextIndex - 1
}

// Close syncs and closes the log.
func (r *Recorder) Close() error {
	if err := r.log.Sync(); err != nil {
		r.log.Close()
		return errors.WithMessage(err, "could not sync trace")
	}
	return r.log.Close()
}

// Iterator walks the entries of a log in order.
type Iterator struct {
	currentIndex uint64
	stopIndex    uint64
	log          *wal.Log
}

// LoadNext returns the next entry, or io.EOF after the last one.
func (i *Iterator) LoadNext() (Entry, error) {
	if i.currentIndex == 0 || i.currentIndex > i.stopIndex {
		return Entry{}, io.EOF
	}

	data, err := i.log.Read(i.currentIndex)
	if err != nil {
		return Entry{}, errors.WithMessagef(err, "could not read index %d", i.currentIndex)
	}

	e, err := unmarshal(data)
	if err != nil {
		return Entry{}, errors.WithMessagef(err, "could not decode index %d, is the trace corrupt?", i.currentIndex)
	}

	i.currentIndex++
	return e, nil
}

// Replay calls fn for every entry of the log at path, oldest first.
// It stops at the first error fn returns.
func Replay(path string, fn func(Entry) error) error {
	log, err := wal.Open(path, &wal.Options{NoCopy: true})
	if err != nil {
		return errors.WithMessage(err, "could not open trace")
	}
	defer log.Close()

	firstIndex, err := log.FirstIndex()
	if err != nil {
		return errors.WithMessage(err, "could not read first index")
	}
	lastIndex, err := log.LastIndex()
	if err != nil {
		return errors.WithMessage(err, "could not read last index")
	}

	i := &Iterator{currentIndex: firstIndex, stopIndex: lastIndex, log: log}
	for {
		e, err := i.LoadNext()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(e); err != nil {
			return err
		}
	}
}
