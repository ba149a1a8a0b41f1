package ml

import (
	"github.com/cockroachdb/errors"
)

// FeatureSchema is the ordered list of one-hot columns a classifier was
// trained on. It is immutable once built.
type FeatureSchema struct {
	columns []string
	index   map[string]int
}

func NewFeatureSchema(columns []string) (*FeatureSchema, error) {
	if len(columns) == 0 {
		return nil, errors.New("feature schema is empty")
	}
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		if col == "" {
			return nil, errors.Newf("feature schema column %d is empty", i)
		}
		if _, ok := index[col]; ok {
			return nil, errors.Newf("duplicate feature schema column %q", col)
		}
		index[col] = i
	}
	return &FeatureSchema{
		columns: append([]string(nil), columns...),
		index:   index,
	}, nil
}

// DefaultFeatureSchema returns the columns of the deployed teammate model.
func DefaultFeatureSchema() *FeatureSchema {
	schema, err := NewFeatureSchema(TrainedColumns())
	if err != nil {
		panic(err)
	}
	return schema
}

func (s *FeatureSchema) Len() int {
	return len(s.columns)
}

func (s *FeatureSchema) Columns() []string {
	return append([]string(nil), s.columns...)
}

func (s *FeatureSchema) Index(column string) (int, bool) {
	i, ok := s.index[column]
	return i, ok
}

// TrainedColumns lists the one-hot columns produced at training time.
// The training run dropped some categories (for example every "_1" rating
// except Missed Meetings, and the "_No" answers), so those values encode as
// all zeros.
func TrainedColumns() []string {
	return []string{
		"Missed Meetings (Frequency)_1", "Missed Meetings (Frequency)_2",
		"Missed Meetings (Frequency)_3", "Missed Meetings (Frequency)_4",
		"Missed Meetings (Frequency)_5",
		"Deadline Adherence_Always on time",
		"Deadline Adherence_Frequently late", "Deadline Adherence_Sometimes late",
		"Deadline Adherence_Usually on time",
		"Contribution Quality_2", "Contribution Quality_3",
		"Contribution Quality_4", "Contribution Quality_5",
		"Responsiveness_2", "Responsiveness_3", "Responsiveness_4", "Responsiveness_5",
		"Communication Respect_2", "Communication Respect_3",
		"Communication Respect_4", "Communication Respect_5",
		"Workload Fairness (Perception)_2", "Workload Fairness (Perception)_3",
		"Workload Fairness (Perception)_4", "Workload Fairness (Perception)_5",
		"Discussion Participation_2", "Discussion Participation_3",
		"Discussion Participation_4", "Discussion Participation_5",
		"Credit Taking_Yes",
		"Conflict/Negativity_2", "Conflict/Negativity_3",
		"Conflict/Negativity_4", "Conflict/Negativity_5",
		"Harsh Criticism_2", "Harsh Criticism_3", "Harsh Criticism_4", "Harsh Criticism_5",
		"Rework Required_Yes",
	}
}
