package blackbox

// FrameCounts tallies how many valid frames of each kind a DataParser
// has produced.
type FrameCounts struct {
	Event   int
	Main    int
	Slow    int
	Gps     int
	GpsHome int
}

// Stats reports progress and per-kind frame counts for an in-progress
// or finished decode.
type Stats struct {
	Counts FrameCounts

	// Progress is the approximate fraction (0..1) of the data section
	// consumed so far. If a multi-log container has trailing data past
	// this log, it can underestimate but never overestimate.
	Progress float32
}

// mainFrameHistory is a 2-slot ring buffer of the most recent main
// frames: StraightLine and Average2 prediction need exactly the last
// two, and no more.
type mainFrameHistory struct {
	slots     [2]*RawMainFrame
	indexNew  int
}

func (h *mainFrameHistory) indexOld() int { return (h.indexNew + 1) % 2 }

func (h *mainFrameHistory) push(f *RawMainFrame) *RawMainFrame {
	h.indexNew = h.indexOld()
	h.slots[h.indexNew] = f
	return h.slots[h.indexNew]
}

func (h *mainFrameHistory) last() *RawMainFrame     { return h.slots[h.indexNew] }
func (h *mainFrameHistory) lastLast() *RawMainFrame { return h.slots[h.indexOld()] }

// ParserEvent is one item produced by DataParser.Next: exactly one of
// its fields is non-nil, naming which kind of frame (or log event) was
// decoded.
type ParserEvent struct {
	Event *Event
	Main  *MainFrame
	Slow  *SlowFrame
	Gps   *GpsFrame
}

// DataParser drives the frame-kind dispatch loop over a log's data
// section: one call to Next decodes and returns exactly one frame or
// event, recovering from corruption by resyncing on the next plausible
// frame-kind byte. GpsHome frames update internal state (the home
// position GPS frames predict against) but are never surfaced directly.
type DataParser struct {
	headers *Headers

	mainFilter AppliedFilter
	slowFilter AppliedFilter
	gpsFilter  AppliedFilter

	data    *Reader
	dataLen int

	stats        Stats
	mainFrames   mainFrameHistory
	gpsHomeFrame *GpsHomeFrame
	done         bool
}

// NewDataParser builds a parser over data (already positioned at the
// start of the data section, as left by ParseHeaders) using headers'
// frame schemas and filters. A zero FilterSet keeps every field.
func NewDataParser(data *Reader, headers *Headers, filters FilterSet) *DataParser {
	mainNames := fieldNames(headers.MainFrames.Len(), func(i int) string {
		name, _, _ := headers.MainFrames.Field(i)
		return name
	})
	slowNames := fieldNames(headers.SlowFrames.Len(), func(i int) string {
		name, _, _ := headers.SlowFrames.Field(i)
		return name
	})

	p := &DataParser{
		headers:    headers,
		mainFilter: filters.Main.apply(mainNames),
		slowFilter: filters.Slow.apply(slowNames),
		data:       data,
		dataLen:    data.Remaining(),
	}

	if headers.GpsFrames != nil {
		gpsNames := fieldNames(headers.GpsFrames.Len(), func(i int) string {
			name, _, _ := headers.GpsFrames.Field(i)
			return name
		})
		p.gpsFilter = filters.Gps.apply(gpsNames)
	}

	return p
}

func fieldNames(n int, at func(int) string) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = at(i)
	}
	return names
}

// Stats returns the current decode statistics.
func (p *DataParser) Stats() Stats { return p.stats }

// Done reports whether the parser has reached the end of the log (via
// an explicit End event or running out of input).
func (p *DataParser) Done() bool { return p.done }

type internalFrame struct {
	event   *Event
	main    *RawMainFrame
	slow    *RawSlowFrame
	gps     *RawGpsFrame
	gpsHome *GpsHomeFrame
}

// resyncKinds is the needle set skipToFrame resumes on. Inter ('P')
// is deliberately excluded: an Inter-frame byte value is common enough
// in arbitrary corrupted data that including it would make resync
// converge on garbage far too often.
var resyncKinds = []byte{byte(FrameEvent), byte(FrameIntra), byte(FrameSlow), byte(FrameGps), byte(FrameGpsHome)}

func skipToFrame(data *Reader) {
	data.SkipUntilAny(resyncKinds)
}

// Next continues parsing until the next ParserEvent can be returned, or
// returns ok=false once the log is exhausted.
func (p *DataParser) Next() (ParserEvent, bool) {
	if p.done {
		return ParserEvent{}, false
	}

	for {
		b, ok := p.data.ReadU8()
		if !ok {
			p.done = true
			return ParserEvent{}, false
		}
		restore := p.data.GetRestorePoint()

		kind, ok := frameKindFromByte(b)
		if !ok {
			skipToFrame(p.data)
			continue
		}

		traceDebug("trying to parse %s frame", kind)

		frame, err := p.parseOne(kind)

		p.stats.Progress = 1 - float32(p.data.Remaining())/float32(p.dataLen)

		if err == nil {
			if next, ok := p.data.Peek(); ok {
				if _, validNext := frameKindFromByte(next); !validNext {
					err = errRetrySentinel
				}
			}
		}

		if err != nil {
			if isEof(err) {
				traceDebug("found unexpected end of file in data section")
				p.done = true
				return ParserEvent{}, false
			}
			traceDebug("found corrupted %s frame", kind)
			p.data.Restore(restore)
			skipToFrame(p.data)
			continue
		}

		switch {
		case frame.event != nil:
			if frame.event.Kind == EventLogEnd {
				p.done = true
				p.stats.Progress = 1
			}
			p.stats.Counts.Event++
			return ParserEvent{Event: frame.event}, true

		case frame.main != nil:
			p.stats.Counts.Main++
			pushed := p.mainFrames.push(frame.main)
			return ParserEvent{Main: newMainFrame(p.headers, pushed, p.mainFilter)}, true

		case frame.slow != nil:
			p.stats.Counts.Slow++
			return ParserEvent{Slow: newSlowFrame(p.headers, frame.slow, p.slowFilter)}, true

		case frame.gps != nil:
			p.stats.Counts.Gps++
			return ParserEvent{Gps: newGpsFrame(p.headers, frame.gps, p.gpsFilter)}, true

		case frame.gpsHome != nil:
			p.stats.Counts.GpsHome++
			p.gpsHomeFrame = frame.gpsHome
			continue
		}
	}
}

func (p *DataParser) parseOne(kind FrameKind) (internalFrame, error) {
	switch kind {
	case FrameEvent:
		ev, err := parseEvent(p.data)
		if err != nil {
			return internalFrame{}, err
		}
		return internalFrame{event: ev}, nil

	case FrameIntra:
		f, err := p.headers.MainFrames.ParseIntra(p.data, p.headers, p.mainFrames.last())
		if err != nil {
			return internalFrame{}, err
		}
		return internalFrame{main: f}, nil

	case FrameInter:
		// Known gap: true loop-iteration loss accounting across a
		// corrupted/resynced gap is unimplemented upstream; 0 is the
		// only value that can be reported without fabricating data.
		const skippedFrames = 0
		f, err := p.headers.MainFrames.ParseInter(p.data, p.headers, p.mainFrames.last(), p.mainFrames.lastLast(), skippedFrames)
		if err != nil {
			return internalFrame{}, err
		}
		return internalFrame{main: f}, nil

	case FrameSlow:
		f, err := p.headers.SlowFrames.Parse(p.data, p.headers)
		if err != nil {
			return internalFrame{}, err
		}
		return internalFrame{slow: f}, nil

	case FrameGps:
		if p.headers.GpsFrames == nil {
			traceDebug("found GPS frame without GPS frame definition")
			return internalFrame{}, errRetrySentinel
		}
		var lastTime uint64
		if last := p.mainFrames.last(); last != nil {
			lastTime = last.Time
		}
		f, err := p.headers.GpsFrames.Parse(p.data, p.headers, lastTime, p.gpsHomeFrame)
		if err != nil {
			return internalFrame{}, err
		}
		return internalFrame{gps: f}, nil

	case FrameGpsHome:
		if p.headers.GpsHomeFrames == nil {
			traceDebug("found GPS home frame without GPS home frame definition")
			return internalFrame{}, errRetrySentinel
		}
		f, err := p.headers.GpsHomeFrames.Parse(p.data, p.headers)
		if err != nil {
			return internalFrame{}, err
		}
		return internalFrame{gpsHome: f}, nil

	default:
		return internalFrame{}, errRetrySentinel
	}
}
