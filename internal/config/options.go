// Package config loads the decoder CLI's run options: a flat, comment-
// annotated key=value file in the style of the receiver console this
// package is descended from, plus a YAML sink-connection file for the
// settings that don't fit a flat key/value model.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/blackbox-log/decoder/blackbox"
)

// Opt describes one flat, file-and-flag overridable run option: a name,
// a storage format, and a pointer to the package-level variable it
// reads from/writes to. Mirrors the receiver console's own option
// table shape (name, format, typed pointer, comment/enum-labels).
type Opt struct {
	Name      string
	Format    byte // 0:int, 1:float64, 2:string, 3:enum
	VarInt    *int
	VarFloat  *float64
	VarString *string
	Comment   string
}

// Run options. Unlike the receiver console's PrcOpt/SolOpt/FilOpt
// triplet, there is no separate aggregate struct to copy into and out
// of -- these package-level vars are the options table's backing
// store directly.
var (
	traceLevel   = 0
	defaultFirmwareOverride string
	defaultFilter string
)

const (
	traceOpt = "0:off,1:warn,2:debug,3:field"
)

// RunOpts is the decoder CLI's option table, keyed by the flat
// "section-name" convention the receiver console uses.
var RunOpts = map[string]*Opt{
	"run-tracelevel": {"run-tracelevel", 3, &traceLevel, nil, nil, traceOpt},
	"run-firmware":   {"run-firmware", 2, nil, nil, &defaultFirmwareOverride, "betaflight|inav"},
	"run-filter":     {"run-filter", 2, nil, nil, &defaultFilter, "comma-separated field names"},
}

// TraceLevel returns the configured trace level and applies it to the
// decoder package's trace sink.
func TraceLevel() int {
	blackbox.TraceLevel(traceLevel)
	return traceLevel
}

// DefaultFilter returns the configured default field-name filter list,
// or nil if none was set.
func DefaultFilter() []string {
	if defaultFilter == "" {
		return nil
	}
	return strings.Split(defaultFilter, ",")
}

// optionsChop discards a trailing "# comment" and any leading or trailing
// non-printable characters (tabs, CR/LF); plain spaces are kept.
func optionsChop(buff *string) {
	if idx := strings.Index(*buff, "#"); idx >= 0 {
		*buff = (*buff)[:idx]
	}
	*buff = strings.TrimFunc(*buff, func(r rune) bool {
		return !strconv.IsGraphic(r)
	})
}

// enum2Str and str2Enum implement the "N:label,N:label,..." comment
// mini-language the receiver console uses for enum-typed options.
func enum2Str(comment string, val int) string {
	prefix := fmt.Sprintf("%d:", val)
	idx := strings.Index(comment, prefix)
	if idx < 0 {
		return prefix
	}
	rest := comment[idx+len(prefix):]
	end := strings.IndexAny(rest, ",)")
	if end < 0 {
		return rest
	}
	return rest[:end]
}

func str2Enum(str, comment string, val *int) bool {
	for _, entry := range strings.Split(comment, ",") {
		entry = strings.TrimSuffix(entry, ")")
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) == 2 && parts[1] == str {
			n, err := strconv.Atoi(parts[0])
			if err != nil {
				return false
			}
			*val = n
			return true
		}
	}
	return false
}

// SearchOpt finds an option by name, or nil if unknown.
func SearchOpt(name string, opts map[string]*Opt) *Opt {
	return opts[name]
}

// Str2Opt parses str into the option's backing variable.
func (opt *Opt) Str2Opt(str string) bool {
	switch opt.Format {
	case 0:
		v, err := strconv.Atoi(str)
		if err != nil {
			return false
		}
		*opt.VarInt = v
	case 1:
		v, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return false
		}
		*opt.VarFloat = v
	case 2:
		*opt.VarString = str
	case 3:
		var enum int
		if !str2Enum(str, opt.Comment, &enum) {
			return false
		}
		*opt.VarInt = enum
	default:
		return false
	}
	return true
}

// Opt2Str renders the option's current value back to a string.
func (opt *Opt) Opt2Str() string {
	switch opt.Format {
	case 0:
		return strconv.Itoa(*opt.VarInt)
	case 1:
		return strconv.FormatFloat(*opt.VarFloat, 'f', 15, 64)
	case 2:
		return *opt.VarString
	case 3:
		return enum2Str(opt.Comment, *opt.VarInt)
	default:
		return ""
	}
}

// Opt2Buf renders one "name = value # (comment)" line.
func (opt *Opt) Opt2Buf() string {
	line := fmt.Sprintf("%-18s = %s", opt.Name, opt.Opt2Str())
	if opt.Comment != "" {
		line += fmt.Sprintf(" # (%s)", opt.Comment)
	}
	return line
}

// LoadOpts reads name=value lines from file into opts, skipping unknown
// names and unparsable values with a trace warning, same tolerance
// policy as the receiver console's loadopts.
func LoadOpts(file string, opts map[string]*Opt) error {
	fp, err := os.Open(file)
	if err != nil {
		return errors.Wrapf(err, "opening options file %q", file)
	}
	defer fp.Close()

	rd := bufio.NewScanner(fp)
	for lineNo := 1; rd.Scan(); lineNo++ {
		line := rd.Text()
		optionsChop(&line)

		idx := strings.Index(line, "=")
		if idx < 0 {
			continue
		}
		name := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])

		opt := SearchOpt(name, opts)
		if opt == nil {
			continue
		}
		if !opt.Str2Opt(value) {
			blackbox.Trace(1, "invalid option value %q for %q (%s:%d)", value, name, file, lineNo)
		}
	}
	return rd.Err()
}

// SaveOpts writes every option in opts to file, one per line, preceded
// by a header comment.
func SaveOpts(file, comment string, opts map[string]*Opt) error {
	fp, err := os.Create(file)
	if err != nil {
		return errors.Wrapf(err, "creating options file %q", file)
	}
	defer fp.Close()

	if _, err := fmt.Fprintf(fp, "# %s\n\n", comment); err != nil {
		return err
	}
	for _, opt := range opts {
		if _, err := fmt.Fprintln(fp, opt.Opt2Buf()); err != nil {
			return err
		}
	}
	return nil
}
