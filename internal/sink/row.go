// Package sink defines the sink-agnostic row shape decoded frames are
// projected to before export, and the Sink interface every concrete
// exporter implements.
package sink

import (
	"github.com/google/uuid"

	"github.com/blackbox-log/decoder/blackbox"
)

// RunID identifies one decode run; every row/point exported during
// that run carries the same ID so a downstream store can group them
// back into one flight without re-deriving it from a filename.
type RunID uuid.UUID

// NewRunID generates a fresh run ID.
func NewRunID() RunID { return RunID(uuid.New()) }

func (id RunID) String() string { return uuid.UUID(id).String() }

// Row is the flattened projection of one decoded frame: a frame kind
// tag, the main-frame metadata if applicable, and every filtered field
// converted to its physical unit.
type Row struct {
	Run       RunID
	Kind      string // "main", "slow", "gps"
	Intra     bool
	Iteration uint32
	Time      uint64
	Fields    map[string]float64
	Labels    map[string]string // FlightMode/State/FailsafePhase display form, keyed by field name
}

// Sink is implemented by every concrete exporter (ClickHouse, Influx).
type Sink interface {
	Write(Row) error
	Close() error
}

// setField records a decoded field's numeric value on row.Fields, and
// additionally its firmware-parameterized display form on row.Labels for
// flag/enum units (FlightMode, State, FailsafePhase).
func setField(row *Row, headers *blackbox.Headers, name string, value blackbox.Value) {
	row.Fields[name] = value.Float64(headers)
	if names := value.Names(headers.Firmware.Kind); names != nil {
		if row.Labels == nil {
			row.Labels = make(map[string]string)
		}
		row.Labels[name] = blackbox.FlagString(names)
	}
}

// FromMain projects a decoded main frame to a Row.
func FromMain(run RunID, headers *blackbox.Headers, f *blackbox.MainFrame) Row {
	row := Row{Run: run, Kind: "main", Intra: f.Intra(), Iteration: f.Iteration(), Time: f.Time(), Fields: make(map[string]float64, f.Len())}
	for i := 0; i < f.Len(); i++ {
		name, value, ok := f.Field(i)
		if !ok {
			continue
		}
		if name == "loopIteration" {
			row.Iteration = value.Raw
			continue
		}
		setField(&row, headers, name, value)
	}
	return row
}

// FromSlow projects a decoded slow frame to a Row.
func FromSlow(run RunID, headers *blackbox.Headers, f *blackbox.SlowFrame) Row {
	row := Row{Run: run, Kind: "slow", Fields: make(map[string]float64, f.Len())}
	for i := 0; i < f.Len(); i++ {
		name, value, ok := f.Field(i)
		if !ok {
			continue
		}
		setField(&row, headers, name, value)
	}
	return row
}

// FromGps projects a decoded GPS frame to a Row.
func FromGps(run RunID, headers *blackbox.Headers, f *blackbox.GpsFrame) Row {
	row := Row{Run: run, Kind: "gps", Time: f.Time(), Fields: make(map[string]float64, f.Len())}
	for i := 0; i < f.Len(); i++ {
		name, value, ok := f.Field(i)
		if !ok {
			continue
		}
		setField(&row, headers, name, value)
	}
	return row
}
