// bbrcv decodes a single blackbox flight log and republishes its
// frames, either to stdout (one JSON object per frame) or to a
// configured export sink. Descended from the receiver console's
// rtkrcv: same flag style, adapted from a long-lived interactive RTK
// server to a one-shot batch decode of a finite file. Rows are written
// to the sink synchronously from the decode loop; there is no
// sink-writer goroutine or channel.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/blackbox-log/decoder/blackbox"
	"github.com/blackbox-log/decoder/internal/config"
	"github.com/blackbox-log/decoder/internal/metrics"
	"github.com/blackbox-log/decoder/internal/sink"
	"github.com/blackbox-log/decoder/internal/sink/clickhouse"
	"github.com/blackbox-log/decoder/internal/sink/influx"
)

var usage = []string{
	"usage: bbrcv -i logfile [-o stdout|clickhouse|influx] [-conf sinks.yaml]",
	"             [-filter field1,field2,...] [-m port] [-t level]",
}

func printUsage() {
	for _, line := range usage {
		fmt.Fprintln(os.Stderr, line)
	}
	os.Exit(2)
}

func openSink(mode string, cfg *config.SinkConfig) (sink.Sink, error) {
	switch mode {
	case "", "stdout":
		return stdoutSink{}, nil
	case "clickhouse":
		if cfg == nil {
			return nil, errors.New("clickhouse output requires -conf")
		}
		return clickhouse.Open(cfg.ClickHouse.DSN, cfg.ClickHouse.Table)
	case "influx":
		if cfg == nil {
			return nil, errors.New("influx output requires -conf")
		}
		return influx.Open(cfg.Influx.URL, cfg.Influx.Token, cfg.Influx.Org, cfg.Influx.Bucket), nil
	default:
		return nil, errors.Errorf("unknown output mode %q", mode)
	}
}

// stdoutSink prints each row as one JSON object per line, useful for
// piping into jq or another tool without standing up a real store.
type stdoutSink struct{}

func (stdoutSink) Write(row sink.Row) error {
	enc := json.NewEncoder(os.Stdout)
	return enc.Encode(row)
}

func (stdoutSink) Close() error { return nil }

func run() error {
	var (
		inputPath  string
		outputMode string
		confPath   string
		filterArg  string
		monitorPort int
		traceLevel int
	)

	flag.StringVar(&inputPath, "i", "", "input blackbox log path")
	flag.StringVar(&outputMode, "o", "stdout", "output sink: stdout|clickhouse|influx")
	flag.StringVar(&confPath, "conf", "", "sink connection config (YAML)")
	flag.StringVar(&filterArg, "filter", "", "comma-separated field names to keep (default: all)")
	flag.IntVar(&monitorPort, "m", 0, "metrics monitor port (0: disabled)")
	flag.IntVar(&traceLevel, "t", 0, "trace level (0:off,1:warn,2:debug,3:field)")
	flag.Parse()

	if inputPath == "" {
		printUsage()
	}

	blackbox.TraceOpen(os.Stderr)
	blackbox.TraceLevel(traceLevel)

	var sinkCfg *config.SinkConfig
	if confPath != "" {
		cfg, err := config.LoadSinkConfig(confPath)
		if err != nil {
			return errors.Wrap(err, "loading sink config")
		}
		sinkCfg = cfg
	}

	registry := metrics.NewRegistry()
	if monitorPort != 0 {
		addr := fmt.Sprintf(":%d", monitorPort)
		go func() {
			if err := registry.Serve(addr); err != nil {
				blackbox.Trace(1, "metrics listener stopped: %s", err)
			}
		}()
	}

	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return errors.Wrap(err, "reading input log")
	}

	reader := blackbox.NewReader(raw)
	headers, err := blackbox.ParseHeaders(reader)
	if err != nil {
		return errors.Wrap(err, "parsing headers")
	}

	var filters blackbox.FilterSet
	if filterArg != "" {
		filter := blackbox.NewFieldFilter(splitFilter(filterArg)...)
		filters = blackbox.FilterSet{Main: filter, Slow: filter, Gps: filter}
	}

	out, err := openSink(outputMode, sinkCfg)
	if err != nil {
		return errors.Wrap(err, "opening output sink")
	}
	defer out.Close()

	runID := sink.NewRunID()
	parser := blackbox.NewDataParser(reader, headers, filters)

	for {
		event, ok := parser.Next()
		if !ok {
			break
		}

		var row sink.Row
		switch {
		case event.Main != nil:
			row = sink.FromMain(runID, headers, event.Main)
			registry.FramesDecoded.WithLabelValues("main").Inc()
		case event.Slow != nil:
			row = sink.FromSlow(runID, headers, event.Slow)
			registry.FramesDecoded.WithLabelValues("slow").Inc()
		case event.Gps != nil:
			row = sink.FromGps(runID, headers, event.Gps)
			registry.FramesDecoded.WithLabelValues("gps").Inc()
		default:
			if event.Event != nil {
				registry.FramesDecoded.WithLabelValues("event").Inc()
			}
			continue
		}

		if err := out.Write(row); err != nil {
			blackbox.Trace(1, "sink write failed: %s", err)
			continue
		}
	}

	stats := parser.Stats()
	registry.Progress.Set(float64(stats.Progress))
	fmt.Fprintf(os.Stderr, "decoded: main=%d slow=%d gps=%d event=%d progress=%.2f\n",
		stats.Counts.Main, stats.Counts.Slow, stats.Counts.Gps, stats.Counts.Event, stats.Progress)

	return nil
}

func splitFilter(arg string) []string {
	var names []string
	for _, name := range strings.Split(arg, ",") {
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "bbrcv:", err)
		os.Exit(1)
	}
}
