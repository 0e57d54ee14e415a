package usecase

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/standings-sync/internal/domain/standing"
)

// RawStanding is one entry of a provider standings table as decoded from JSON.
type RawStanding map[string]any

// Raw keys of a livescore table entry.
const (
	rawKeyRank          = "rank"
	rawKeyTeamID        = "team_id"
	rawKeyName          = "name"
	rawKeyMatches       = "matches"
	rawKeyWon           = "won"
	rawKeyDrawn         = "drawn"
	rawKeyLost          = "lost"
	rawKeyGoalsScored   = "goals_scored"
	rawKeyGoalsConceded = "goals_conceded"
	rawKeyGoalDiff      = "goal_diff"
	rawKeyPoints        = "points"
	rawKeyForm          = "form"
)

// MalformedRecordError reports a raw record that cannot become a standing.
type MalformedRecordError struct {
	// Index is the position of the record in its batch, -1 when normalized alone.
	Index  int
	Field  string
	Value  any
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("malformed record %d: field %q: %s (value=%v)", e.Index, e.Field, e.Reason, e.Value)
	}
	return fmt.Sprintf("malformed record: field %q: %s (value=%v)", e.Field, e.Reason, e.Value)
}

func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

var standingValidator = newStandingValidator()

func newStandingValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// NormalizeStandings converts a provider table into standings for season.
// The first malformed record aborts the batch.
func NormalizeStandings(season int, raws []RawStanding) ([]standing.Standing, error) {
	items := make([]standing.Standing, 0, len(raws))
	for i, raw := range raws {
		item, err := NormalizeStanding(season, raw)
		if err != nil {
			var malformed *MalformedRecordError
			if errors.As(err, &malformed) {
				malformed.Index = i
			}
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// NormalizeStanding coerces one raw entry into a validated standing.
func NormalizeStanding(season int, raw RawStanding) (standing.Standing, error) {
	r := rawReader{raw: raw}
	item := standing.Standing{
		Season:       season,
		Position:     r.readInt(rawKeyRank),
		TeamID:       r.readInt64(rawKeyTeamID),
		Team:         r.readText(rawKeyName),
		Played:       r.readInt(rawKeyMatches),
		Won:          r.readInt(rawKeyWon),
		Draw:         r.readInt(rawKeyDrawn),
		Lost:         r.readInt(rawKeyLost),
		GoalsFor:     r.readInt(rawKeyGoalsScored),
		GoalsAgainst: r.readInt(rawKeyGoalsConceded),
		GoalDiff:     r.readInt(rawKeyGoalDiff),
		Points:       r.readInt(rawKeyPoints),
		Form:         NormalizeForm(raw[rawKeyForm]),
	}
	if r.err != nil {
		return standing.Standing{}, r.err
	}

	if err := standingValidator.Struct(item); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return standing.Standing{}, &MalformedRecordError{
				Index:  -1,
				Field:  fe.Field(),
				Value:  fe.Value(),
				Reason: "failed " + fe.Tag() + " validation",
			}
		}
		return standing.Standing{}, fmt.Errorf("%w: validate standing: %v", ErrMalformedRecord, err)
	}
	return item, nil
}

// NormalizeForm flattens a form indicator into at most standing.FormLength
// upper-case result letters, keeping the most recent ones. Missing or empty
// input yields standing.DefaultForm.
func NormalizeForm(value any) string {
	var b strings.Builder
	appendFormResults(&b, value)
	form := b.String()
	if form == "" {
		return standing.DefaultForm
	}
	if len(form) > standing.FormLength {
		form = form[len(form)-standing.FormLength:]
	}
	return form
}

func appendFormResults(b *strings.Builder, value any) {
	switch v := value.(type) {
	case string:
		for _, r := range strings.ToUpper(v) {
			if r < unicode.MaxASCII && unicode.IsLetter(r) {
				b.WriteRune(r)
			}
		}
	case []any:
		for _, item := range v {
			appendFormResults(b, item)
		}
	case []string:
		for _, item := range v {
			appendFormResults(b, item)
		}
	case map[string]any:
		for _, key := range []string{"result", "form", "value", "data"} {
			if nested, ok := v[key]; ok && nested != nil {
				appendFormResults(b, nested)
				return
			}
		}
	}
}

// rawReader keeps the first coercion failure so a record reads top to bottom.
type rawReader struct {
	raw RawStanding
	err error
}

func (r *rawReader) fail(field string, value any, reason string) {
	if r.err == nil {
		r.err = &MalformedRecordError{Index: -1, Field: field, Value: value, Reason: reason}
	}
}

func (r *rawReader) readInt64(field string) int64 {
	value, ok := r.raw[field]
	if !ok || value == nil {
		r.fail(field, value, "missing")
		return 0
	}
	n, reason := coerceInt64(value)
	if reason != "" {
		r.fail(field, value, reason)
		return 0
	}
	return n
}

func (r *rawReader) readInt(field string) int {
	n := r.readInt64(field)
	if n > math.MaxInt32 || n < math.MinInt32 {
		r.fail(field, n, "out of 32-bit integer range")
		return 0
	}
	return int(n)
}

func (r *rawReader) readText(field string) string {
	value, ok := r.raw[field]
	if !ok || value == nil {
		r.fail(field, value, "missing")
		return ""
	}
	s, isString := value.(string)
	if !isString {
		r.fail(field, value, fmt.Sprintf("expected string, got %T", value))
		return ""
	}
	s = strings.TrimSpace(s)
	if s == "" {
		r.fail(field, value, "empty")
	}
	return s
}

// coerceInt64 returns a non-empty reason when value is not an integer.
func coerceInt64(value any) (int64, string) {
	switch v := value.(type) {
	case int:
		return int64(v), ""
	case int8:
		return int64(v), ""
	case int16:
		return int64(v), ""
	case int32:
		return int64(v), ""
	case int64:
		return v, ""
	case uint8:
		return int64(v), ""
	case uint16:
		return int64(v), ""
	case uint32:
		return int64(v), ""
	case uint64:
		if v > math.MaxInt64 {
			return 0, "out of integer range"
		}
		return int64(v), ""
	case float32:
		return floatToInt64(float64(v))
	case float64:
		return floatToInt64(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, ""
		}
		f, err := v.Float64()
		if err != nil {
			return 0, "not a number"
		}
		return floatToInt64(f)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, "empty"
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, "not an integer"
		}
		return n, ""
	default:
		return 0, fmt.Sprintf("unsupported type %T", value)
	}
}

func floatToInt64(f float64) (int64, string) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, "not an integer"
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, "out of integer range"
	}
	return int64(f), ""
}
