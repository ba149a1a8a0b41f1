package ml

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

const (
	FieldMissedMeetings          = "Missed Meetings (Frequency)"
	FieldDeadlineAdherence       = "Deadline Adherence"
	FieldContributionQuality     = "Contribution Quality"
	FieldResponsiveness          = "Responsiveness"
	FieldCommunicationRespect    = "Communication Respect"
	FieldWorkloadFairness        = "Workload Fairness (Perception)"
	FieldDiscussionParticipation = "Discussion Participation"
	FieldCreditTaking            = "Credit Taking"
	FieldConflictNegativity      = "Conflict/Negativity"
	FieldHarshCriticism          = "Harsh Criticism"
	FieldReworkRequired          = "Rework Required"
)

// TeammateRecord holds the survey answers describing one teammate.
// The feature tag is the attribute name used on the wire and in column names.
type TeammateRecord struct {
	MissedMeetings          int    `feature:"Missed Meetings (Frequency)" validate:"min=1,max=5"`
	DeadlineAdherence       string `feature:"Deadline Adherence" validate:"oneof='Always on time' 'Usually on time' 'Sometimes late' 'Frequently late'"`
	ContributionQuality     int    `feature:"Contribution Quality" validate:"min=1,max=5"`
	Responsiveness          int    `feature:"Responsiveness" validate:"min=1,max=5"`
	CommunicationRespect    int    `feature:"Communication Respect" validate:"min=1,max=5"`
	WorkloadFairness        int    `feature:"Workload Fairness (Perception)" validate:"min=1,max=5"`
	DiscussionParticipation int    `feature:"Discussion Participation" validate:"min=1,max=5"`
	CreditTaking            string `feature:"Credit Taking" validate:"oneof=Yes No"`
	ConflictNegativity      int    `feature:"Conflict/Negativity" validate:"min=1,max=5"`
	HarshCriticism          int    `feature:"Harsh Criticism" validate:"min=1,max=5"`
	ReworkRequired          string `feature:"Rework Required" validate:"oneof=Yes No"`
}

// Observation is one attribute of a record rendered as column-name text.
type Observation struct {
	Field string
	Value string
}

type recordField struct {
	index  int
	name   string
	kind   reflect.Kind
	domain []string
}

var recordFields = describeRecord()

func describeRecord() []recordField {
	t := reflect.TypeOf(TeammateRecord{})
	fields := make([]recordField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		fields = append(fields, recordField{
			index:  i,
			name:   f.Tag.Get("feature"),
			kind:   f.Type.Kind(),
			domain: tagDomain(f.Tag.Get("validate")),
		})
	}
	return fields
}

// oneofParams splits a oneof parameter list the way the validator does.
var oneofParams = regexp.MustCompile(`'[^']*'|\S+`)

// tagDomain enumerates the values a validate tag accepts. It understands
// oneof and a min/max pair; anything else yields nil.
func tagDomain(tag string) []string {
	var minParam, maxParam string
	for _, rule := range strings.Split(tag, ",") {
		name, param, _ := strings.Cut(rule, "=")
		switch name {
		case "oneof":
			var values []string
			for _, v := range oneofParams.FindAllString(param, -1) {
				values = append(values, strings.Trim(v, "'"))
			}
			return values
		case "min":
			minParam = param
		case "max":
			maxParam = param
		}
	}
	lo, errLo := strconv.Atoi(minParam)
	hi, errHi := strconv.Atoi(maxParam)
	if errLo != nil || errHi != nil || lo > hi {
		return nil
	}
	values := make([]string, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		values = append(values, strconv.Itoa(v))
	}
	return values
}

// OriginalFeatureNames returns the attribute names in declaration order.
func OriginalFeatureNames() []string {
	names := make([]string, len(recordFields))
	for i, f := range recordFields {
		names[i] = f.name
	}
	return names
}

// Observations renders every attribute in declaration order. Ratings are
// rendered as plain decimal integers.
func (r TeammateRecord) Observations() []Observation {
	v := reflect.ValueOf(r)
	out := make([]Observation, 0, len(recordFields))
	for _, f := range recordFields {
		fv := v.Field(f.index)
		var value string
		switch f.kind {
		case reflect.Int:
			value = strconv.FormatInt(fv.Int(), 10)
		default:
			value = fv.String()
		}
		out = append(out, Observation{Field: f.name, Value: value})
	}
	return out
}

// FieldOption lists the accepted answers of one attribute.
type FieldOption struct {
	Field  string
	Values []string
}

// FieldOptions returns the answer domain of every attribute in declaration
// order, read from the validate tags on TeammateRecord.
func FieldOptions() []FieldOption {
	options := make([]FieldOption, len(recordFields))
	for i, f := range recordFields {
		options[i] = FieldOption{Field: f.name, Values: append([]string(nil), f.domain...)}
	}
	return options
}
