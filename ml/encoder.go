package ml

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// UnknownCategoryPolicy decides what happens to an observed category that has
// no column in the feature schema.
type UnknownCategoryPolicy int

const (
	// ZeroFill drops the indicator, leaving the attribute all zero. This is
	// indistinguishable from the category the training run dropped.
	ZeroFill UnknownCategoryPolicy = iota
	// Reject fails the encoding with ErrUnknownCategory.
	Reject
)

var ErrUnknownCategory = errors.New("category has no trained column")

func ParseUnknownCategoryPolicy(s string) (UnknownCategoryPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "zero_fill", "zerofill":
		return ZeroFill, nil
	case "reject":
		return Reject, nil
	default:
		return ZeroFill, errors.Newf("unknown category policy %q", s)
	}
}

func (p UnknownCategoryPolicy) String() string {
	switch p {
	case Reject:
		return "reject"
	default:
		return "zero_fill"
	}
}

// Encoding is a record expanded onto a feature schema.
type Encoding struct {
	Vector []float64
	// Active holds the schema columns set to 1, in schema order.
	Active []string
	// Dropped holds synthesized indicator columns the schema does not declare.
	Dropped []string
}

type Encoder struct {
	schema *FeatureSchema
	policy UnknownCategoryPolicy
}

func NewEncoder(schema *FeatureSchema, policy UnknownCategoryPolicy) *Encoder {
	return &Encoder{schema: schema, policy: policy}
}

func (e *Encoder) Schema() *FeatureSchema {
	return e.schema
}

func (e *Encoder) Policy() UnknownCategoryPolicy {
	return e.policy
}

// IndicatorColumn names the one-hot column for a field value.
func IndicatorColumn(field, value string) string {
	return field + "_" + value
}

// Encode synthesizes one indicator per observation and reindexes the result
// onto the schema, filling absent columns with 0.
func (e *Encoder) Encode(observations []Observation) (Encoding, error) {
	enc := Encoding{Vector: make([]float64, e.schema.Len())}
	for _, obs := range observations {
		col := IndicatorColumn(obs.Field, obs.Value)
		idx, ok := e.schema.Index(col)
		if !ok {
			enc.Dropped = append(enc.Dropped, col)
			continue
		}
		enc.Vector[idx] = 1
	}
	for i, v := range enc.Vector {
		if v == 1 {
			enc.Active = append(enc.Active, e.schema.columns[i])
		}
	}
	if e.policy == Reject && len(enc.Dropped) > 0 {
		return enc, errors.Wrapf(ErrUnknownCategory, "%s", strings.Join(enc.Dropped, ", "))
	}
	return enc, nil
}

func (e *Encoder) EncodeRecord(rec TeammateRecord) (Encoding, error) {
	return e.Encode(rec.Observations())
}
