// Package influx exports decoded frame rows as InfluxDB points, one
// measurement per frame kind -- the natural home for telemetry a
// dashboard wants to plot over the course of a flight, which the
// row-oriented ClickHouse sink doesn't serve well.
package influx

import (
	"context"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/pkg/errors"

	"github.com/blackbox-log/decoder/internal/sink"
)

// Sink writes rows as points to an InfluxDB bucket.
type Sink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
}

// Open connects to the InfluxDB server at url using token, targeting
// org/bucket.
func Open(url, token, org, bucket string) *Sink {
	client := influxdb2.NewClient(url, token)
	return &Sink{client: client, writeAPI: client.WriteAPIBlocking(org, bucket)}
}

// Write converts row to a point tagged by run and frame kind, with one
// field per decoded value, and blocks until it's written.
func (s *Sink) Write(row sink.Row) error {
	tags := map[string]string{
		"run":  row.Run.String(),
		"kind": row.Kind,
	}

	fields := make(map[string]interface{}, len(row.Fields)+2)
	for name, v := range row.Fields {
		fields[name] = v
	}
	if row.Kind == "main" {
		fields["iteration"] = row.Iteration
		fields["intra"] = row.Intra
	}

	// Frame time is microseconds since power-on, not a wall-clock
	// timestamp; points are stamped at write time and carry the raw
	// frame time as a field instead, since Influx points need a real
	// timestamp to order correctly within a measurement.
	fields["frame_time_us"] = row.Time

	point := influxdb2.NewPoint(row.Kind, tags, fields, time.Now())
	if err := s.writeAPI.WritePoint(context.Background(), point); err != nil {
		return errors.Wrap(err, "writing influx point")
	}
	return nil
}

// Close flushes pending writes and releases the client.
func (s *Sink) Close() error {
	s.client.Close()
	return nil
}
