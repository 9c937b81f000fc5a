// Package harness executes differential-test operation records against
// the sosa and calendar cores.
//
// A record names one operation and its operands; running it produces
// either a success value or one of five typed error names. The record
// shapes map one-to-one onto the core operations so that this
// implementation and the legacy reference can be driven with the same
// inputs and compared result by result.
package harness

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tartampluch/go-lineage/internal/calendar"
	"github.com/tartampluch/go-lineage/internal/sosa"
)

// Operation names, one per core operation.
const (
	OpOfInt          = "of_int"
	OpOfString       = "of_string"
	OpToString       = "to_string"
	OpToStringSep    = "to_string_with_separator"
	OpGeneration     = "generation"
	OpBranchPath     = "branch_path"
	OpAdd            = "add"
	OpMultiply       = "multiply"
	OpDivide         = "divide"
	OpToSDN          = "to_sdn"
	OpFromSDN        = "from_sdn"
	OpConvert        = "convert"
	OpDetectCalendar = "detect_calendar_kind"
)

// Typed error names shared with the legacy reference.
const (
	ErrNameInvalidValue    = "InvalidValue"
	ErrNameDivisionByZero  = "DivisionByZero"
	ErrNameParseError      = "ParseError"
	ErrNameIncompleteDate  = "IncompleteDate"
	ErrNameUnsupportedKind = "UnsupportedCalendarKind"
	ErrNameUnknownOp       = "UnknownOperation"
)

// DateRecord is the wire form of a calendar date. Month and day are
// omitted when unknown, matching the legacy zero-means-absent encoding.
type DateRecord struct {
	Year     int    `json:"year"`
	Month    int    `json:"month,omitempty"`
	Day      int    `json:"day,omitempty"`
	Calendar string `json:"calendar,omitempty"`
}

// Op describes one operation to run. Only the fields the named operation
// uses are consulted; the rest stay at their zero values.
type Op struct {
	Op        string      `json:"op"`
	Value     int64       `json:"value,omitempty"`     // of_int
	Number    string      `json:"number,omitempty"`    // primary decimal operand
	Other     string      `json:"other,omitempty"`     // second operand for add
	Factor    int64       `json:"factor,omitempty"`    // multiply / divide
	Separator string      `json:"separator,omitempty"` // to_string_with_separator
	Date      *DateRecord `json:"date,omitempty"`      // calendar operations
	Target    string      `json:"target,omitempty"`    // convert
	SDN       int64       `json:"sdn,omitempty"`       // from_sdn
	Calendar  string      `json:"calendar,omitempty"`  // from_sdn target system
}

// Result is the outcome of one operation: exactly one of the value
// fields is populated on success, Error on failure.
type Result struct {
	Op     string      `json:"op"`
	OK     bool        `json:"ok"`
	Number string      `json:"number,omitempty"`
	Text   string      `json:"text,omitempty"`
	Int    *int64      `json:"int,omitempty"`
	Path   []int       `json:"path,omitempty"`
	Date   *DateRecord `json:"date,omitempty"`
	Kind   string      `json:"kind,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Runner executes operation records. It is stateless apart from the
// calendar system registry and safe for concurrent use.
type Runner struct {
	conv *calendar.Converter
}

// NewRunner returns a Runner over the four standard calendar systems.
func NewRunner() *Runner {
	return &Runner{conv: calendar.NewConverter()}
}

// Run executes a single operation record.
func (r *Runner) Run(op Op) Result {
	switch op.Op {
	case OpOfInt:
		n, err := sosa.New(op.Value)
		if err != nil {
			return failure(op, err)
		}
		return numberResult(op, n)

	case OpOfString:
		n, err := sosa.Parse(op.Number)
		if err != nil {
			return failure(op, err)
		}
		return numberResult(op, n)

	case OpToString:
		n, err := sosa.Parse(op.Number)
		if err != nil {
			return failure(op, err)
		}
		return Result{Op: op.Op, OK: true, Text: n.String()}

	case OpToStringSep:
		n, err := sosa.Parse(op.Number)
		if err != nil {
			return failure(op, err)
		}
		return Result{Op: op.Op, OK: true, Text: n.StringSep(op.Separator)}

	case OpGeneration:
		n, err := sosa.Parse(op.Number)
		if err != nil {
			return failure(op, err)
		}
		gen, err := n.Generation()
		if err != nil {
			return failure(op, err)
		}
		v := int64(gen)
		return Result{Op: op.Op, OK: true, Int: &v}

	case OpBranchPath:
		n, err := sosa.Parse(op.Number)
		if err != nil {
			return failure(op, err)
		}
		path, err := n.BranchPath()
		if err != nil {
			return failure(op, err)
		}
		steps := make([]int, len(path))
		for i, b := range path {
			steps[i] = int(b)
		}
		return Result{Op: op.Op, OK: true, Path: steps}

	case OpAdd:
		a, err := sosa.Parse(op.Number)
		if err != nil {
			return failure(op, err)
		}
		b, err := sosa.Parse(op.Other)
		if err != nil {
			return failure(op, err)
		}
		return numberResult(op, a.Add(b))

	case OpMultiply:
		n, err := sosa.Parse(op.Number)
		if err != nil {
			return failure(op, err)
		}
		prod, err := n.Mul(op.Factor)
		if err != nil {
			return failure(op, err)
		}
		return numberResult(op, prod)

	case OpDivide:
		n, err := sosa.Parse(op.Number)
		if err != nil {
			return failure(op, err)
		}
		quot, err := n.Div(op.Factor)
		if err != nil {
			return failure(op, err)
		}
		return numberResult(op, quot)

	case OpToSDN:
		d, err := toDate(op.Date)
		if err != nil {
			return failure(op, err)
		}
		sys, err := r.conv.System(d.Kind)
		if err != nil {
			return failure(op, err)
		}
		sdn, err := sys.ToSDN(d)
		if err != nil {
			return failure(op, err)
		}
		return Result{Op: op.Op, OK: true, Int: &sdn}

	case OpFromSDN:
		kind, err := calendar.ParseKind(op.Calendar)
		if err != nil {
			return failure(op, err)
		}
		sys, err := r.conv.System(kind)
		if err != nil {
			return failure(op, err)
		}
		return Result{Op: op.Op, OK: true, Date: fromDate(sys.FromSDN(op.SDN))}

	case OpConvert:
		d, err := toDate(op.Date)
		if err != nil {
			return failure(op, err)
		}
		target, err := calendar.ParseKind(op.Target)
		if err != nil {
			return failure(op, err)
		}
		converted, err := r.conv.Convert(d, target)
		if err != nil {
			return failure(op, err)
		}
		return Result{Op: op.Op, OK: true, Date: fromDate(converted)}

	case OpDetectCalendar:
		d, err := toDate(op.Date)
		if err != nil {
			return failure(op, err)
		}
		return Result{Op: op.Op, OK: true, Kind: r.conv.Detect(d).String()}

	default:
		return Result{Op: op.Op, Error: ErrNameUnknownOp}
	}
}

// Execute runs a stream of JSON operation records from r, writing one
// JSON result per line to w. It stops at the first malformed record or
// write failure; per-operation errors are reported in the results and
// never abort the stream.
func (rn *Runner) Execute(r io.Reader, w io.Writer) error {
	dec := json.NewDecoder(r)
	enc := json.NewEncoder(w)
	for {
		var op Op
		if err := dec.Decode(&op); errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return fmt.Errorf("decoding operation record: %w", err)
		}
		if err := enc.Encode(rn.Run(op)); err != nil {
			return fmt.Errorf("encoding result record: %w", err)
		}
	}
}

// toDate converts the wire form into a calendar date. A missing calendar
// name is treated as Gregorian so that detection records can omit it.
func toDate(rec *DateRecord) (calendar.Date, error) {
	if rec == nil {
		return calendar.Date{}, calendar.ErrIncompleteDate
	}
	kind := calendar.KindGregorian
	if rec.Calendar != "" {
		var err error
		if kind, err = calendar.ParseKind(rec.Calendar); err != nil {
			return calendar.Date{}, err
		}
	}
	return calendar.Date{Year: rec.Year, Month: rec.Month, Day: rec.Day, Kind: kind}, nil
}

func fromDate(d calendar.Date) *DateRecord {
	return &DateRecord{Year: d.Year, Month: d.Month, Day: d.Day, Calendar: d.Kind.String()}
}

func numberResult(op Op, n sosa.Sosa) Result {
	return Result{Op: op.Op, OK: true, Number: n.String()}
}

// failure maps a core sentinel error onto the typed error name shared
// with the legacy reference.
func failure(op Op, err error) Result {
	return Result{Op: op.Op, Error: errName(err)}
}

func errName(err error) string {
	switch {
	case errors.Is(err, sosa.ErrParse):
		return ErrNameParseError
	case errors.Is(err, sosa.ErrDivisionByZero):
		return ErrNameDivisionByZero
	case errors.Is(err, sosa.ErrInvalidValue):
		return ErrNameInvalidValue
	case errors.Is(err, calendar.ErrIncompleteDate):
		return ErrNameIncompleteDate
	case errors.Is(err, calendar.ErrUnsupportedKind):
		return ErrNameUnsupportedKind
	default:
		return err.Error()
	}
}
