package ml

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecord(t *testing.T) {
	rec, err := DecodeRecord(mustJSON(t, validPayload()))
	require.NoError(t, err)

	assert.Equal(t, TeammateRecord{
		MissedMeetings:          1,
		DeadlineAdherence:       "Always on time",
		ContributionQuality:     3,
		Responsiveness:          4,
		CommunicationRespect:    5,
		WorkloadFairness:        2,
		DiscussionParticipation: 3,
		CreditTaking:            "No",
		ConflictNegativity:      1,
		HarshCriticism:          2,
		ReworkRequired:          "No",
	}, rec)
}

func TestDecodeRecordAcceptsNumericForms(t *testing.T) {
	asInt := validPayload()
	asFloat := validPayload()
	asFloat["Responsiveness"] = 4.0
	asString := validPayload()
	asString["Responsiveness"] = "4"

	want, err := DecodeRecord(mustJSON(t, asInt))
	require.NoError(t, err)
	for _, payload := range []map[string]interface{}{asFloat, asString} {
		got, err := DecodeRecord(mustJSON(t, payload))
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, want.Observations(), got.Observations())
	}
}

func TestDecodeRecordFoldsCompatibilityForms(t *testing.T) {
	payload := validPayload()
	payload[FieldCreditTaking] = "Ｙｅｓ"
	payload[FieldReworkRequired] = " Yes "
	payload[FieldDeadlineAdherence] = "Ｓｏｍｅｔｉｍｅｓ late"

	rec, err := DecodeRecord(mustJSON(t, payload))
	require.NoError(t, err)
	assert.Equal(t, "Yes", rec.CreditTaking)
	assert.Equal(t, "Yes", rec.ReworkRequired)
	assert.Equal(t, "Sometimes late", rec.DeadlineAdherence)
}

func TestDecodeRecordIgnoresUnknownKeys(t *testing.T) {
	payload := validPayload()
	payload["Favourite Colour"] = "blue"

	_, err := DecodeRecord(mustJSON(t, payload))
	assert.NoError(t, err)
}

func TestDecodeRecordEmpty(t *testing.T) {
	for _, body := range []string{"", "   ", "{}", "null"} {
		_, err := DecodeRecord([]byte(body))
		assert.ErrorIs(t, err, ErrEmptyRecord, "body %q", body)
	}
}

func TestDecodeRecordMalformed(t *testing.T) {
	for _, body := range []string{"{", "[1,2]", `"text"`, "42"} {
		_, err := DecodeRecord([]byte(body))
		assert.True(t, errors.Is(err, ErrMalformedRecord), "body %q: %v", body, err)
	}
}

func TestDecodeRecordMissingFields(t *testing.T) {
	payload := validPayload()
	delete(payload, FieldCreditTaking)
	delete(payload, FieldHarshCriticism)

	_, err := DecodeRecord(mustJSON(t, payload))
	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{FieldCreditTaking, FieldHarshCriticism}, missing.Fields)
	assert.Contains(t, err.Error(), "'Credit Taking'")
}

func TestDecodeRecordInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		value  interface{}
		reason string
	}{
		{"rating above range", FieldHarshCriticism, 7, "must be at most 5"},
		{"rating below range", FieldResponsiveness, 0, "must be at least 1"},
		{"fractional rating", FieldContributionQuality, 2.5, "must be an integer rating"},
		{"non numeric rating", FieldContributionQuality, "good", "must be an integer rating"},
		{"boolean rating", FieldMissedMeetings, true, "must be an integer rating"},
		{"null rating", FieldMissedMeetings, nil, "must not be null"},
		{"unknown choice", FieldDeadlineAdherence, "Never", "must be one of"},
		{"choice as number", FieldReworkRequired, 1, "must be a string"},
		{"lowercase choice", FieldCreditTaking, "yes", "must be one of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validPayload()
			payload[tt.field] = tt.value

			_, err := DecodeRecord(mustJSON(t, payload))
			var invalid *InvalidValueError
			require.True(t, errors.As(err, &invalid), "got %v", err)
			assert.Equal(t, tt.field, invalid.Field)
			assert.Contains(t, invalid.Reason, tt.reason)
		})
	}
}

func TestOriginalFeatureNames(t *testing.T) {
	assert.Equal(t, []string{
		FieldMissedMeetings,
		FieldDeadlineAdherence,
		FieldContributionQuality,
		FieldResponsiveness,
		FieldCommunicationRespect,
		FieldWorkloadFairness,
		FieldDiscussionParticipation,
		FieldCreditTaking,
		FieldConflictNegativity,
		FieldHarshCriticism,
		FieldReworkRequired,
	}, OriginalFeatureNames())
}

func TestFieldOptionsDecode(t *testing.T) {
	options := FieldOptions()
	require.Len(t, options, len(OriginalFeatureNames()))
	for i, opt := range options {
		assert.Equal(t, OriginalFeatureNames()[i], opt.Field)
		for _, value := range opt.Values {
			payload := validPayload()
			payload[opt.Field] = value
			_, err := DecodeRecord(mustJSON(t, payload))
			assert.NoError(t, err, "%s = %q", opt.Field, value)
		}
	}
}

func TestFieldOptionsFollowValidateTags(t *testing.T) {
	byField := map[string][]string{}
	for _, opt := range FieldOptions() {
		byField[opt.Field] = opt.Values
	}
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, byField[FieldHarshCriticism])
	assert.Equal(t, []string{"Yes", "No"}, byField[FieldCreditTaking])
	assert.Equal(t, []string{"Always on time", "Usually on time", "Sometimes late", "Frequently late"}, byField[FieldDeadlineAdherence])
}

func TestTagDomain(t *testing.T) {
	tests := []struct {
		tag  string
		want []string
	}{
		{"min=2,max=4", []string{"2", "3", "4"}},
		{"oneof=a b", []string{"a", "b"}},
		{"oneof='x y' z", []string{"x y", "z"}},
		{"required", nil},
		{"min=5,max=1", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tagDomain(tt.tag), tt.tag)
	}
}
