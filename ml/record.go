package ml

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrEmptyRecord     = errors.New("no input data received")
	ErrMalformedRecord = errors.New("malformed input record")
)

// MissingFieldError lists attributes absent from the payload.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	quoted := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		quoted[i] = "'" + f + "'"
	}
	return "missing expected feature in input data: " + strings.Join(quoted, ", ")
}

// InvalidValueError reports an attribute whose value is outside its domain.
type InvalidValueError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value for feature '%s': %s (%s)", e.Field, e.Value, e.Reason)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("feature")
	})
	return v
}

// DecodeRecord parses a JSON object into a TeammateRecord. Unknown keys are
// ignored. Ratings may be JSON numbers or numeric strings but must be
// integral.
func DecodeRecord(payload []byte) (TeammateRecord, error) {
	var rec TeammateRecord
	if len(bytes.TrimSpace(payload)) == 0 {
		return rec, ErrEmptyRecord
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return rec, errors.Mark(errors.Wrap(err, "decode record"), ErrMalformedRecord)
	}
	if len(raw) == 0 {
		return rec, ErrEmptyRecord
	}

	var missing []string
	for _, f := range recordFields {
		if _, ok := raw[f.name]; !ok {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return rec, &MissingFieldError{Fields: missing}
	}

	v := reflect.ValueOf(&rec).Elem()
	for _, f := range recordFields {
		value := raw[f.name]
		switch f.kind {
		case reflect.Int:
			n, err := parseRating(f.name, value)
			if err != nil {
				return rec, err
			}
			v.Field(f.index).SetInt(int64(n))
		default:
			s, err := parseChoice(f.name, value)
			if err != nil {
				return rec, err
			}
			v.Field(f.index).SetString(s)
		}
	}

	if err := validate.Struct(rec); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return rec, &InvalidValueError{
				Field:  fe.Field(),
				Value:  fmt.Sprint(fe.Value()),
				Reason: validationReason(fe),
			}
		}
		return rec, errors.Wrap(err, "validate record")
	}
	return rec, nil
}

func parseRating(field string, raw json.RawMessage) (int, error) {
	text := strings.TrimSpace(string(raw))
	if text == "null" {
		return 0, &InvalidValueError{Field: field, Value: text, Reason: "must not be null"}
	}
	var f float64
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, &InvalidValueError{Field: field, Value: text, Reason: "must be an integer rating"}
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, &InvalidValueError{Field: field, Value: strconv.Quote(s), Reason: "must be an integer rating"}
		}
		f = parsed
	} else if err := json.Unmarshal(raw, &f); err != nil {
		return 0, &InvalidValueError{Field: field, Value: text, Reason: "must be an integer rating"}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, &InvalidValueError{Field: field, Value: text, Reason: "must be an integer rating"}
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, &InvalidValueError{Field: field, Value: text, Reason: "must be between 1 and 5"}
	}
	return int(f), nil
}

func parseChoice(field string, raw json.RawMessage) (string, error) {
	if strings.TrimSpace(string(raw)) == "null" {
		return "", &InvalidValueError{Field: field, Value: "null", Reason: "must not be null"}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", &InvalidValueError{Field: field, Value: strings.TrimSpace(string(raw)), Reason: "must be a string"}
	}
	// NFKC folds fullwidth and other compatibility forms onto the ASCII answers.
	return norm.NFKC.String(strings.TrimSpace(s)), nil
}

func validationReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}
