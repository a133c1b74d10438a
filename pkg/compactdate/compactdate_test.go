package compactdate

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jwalitptl/clinic-client/pkg/errors"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		token string
		want  Date
	}{
		{"010100", Date{Year: 2000, Month: time.January, Day: 1}},
		{"311299", Date{Year: 2099, Month: time.December, Day: 31}},
		{"290224", Date{Year: 2024, Month: time.February, Day: 29}},
		{"150633", Date{Year: 2033, Month: time.June, Day: 15}},
	}

	for _, tt := range tests {
		got, err := Decode(tt.token)
		require.NoError(t, err, tt.token)
		assert.Equal(t, tt.want, got, tt.token)
	}
}

func TestDecodeRejectsMalformedTokens(t *testing.T) {
	for _, token := range []string{"1a0223", "", "12345", "1234567", "12-3-23", "ddmmyy"} {
		_, err := Decode(token)
		assert.True(t, apperrors.IsDateFormat(err), "expected format error for %q, got %v", token, err)
	}
}

func TestDecodeRejectsImpossibleDates(t *testing.T) {
	// Day/month combinations that do not exist must be rejected, never
	// rolled into the next month.
	for _, token := range []string{"310223", "300223", "290223", "310423", "320122", "001223", "151323", "150023"} {
		_, err := Decode(token)
		assert.True(t, apperrors.IsCalendarDate(err), "expected calendar error for %q, got %v", token, err)
	}
}

func TestRoundTripAllDates(t *testing.T) {
	// decode(encode(d)) == d for every day in 2000..2099, and the token
	// produced round-trips back to itself.
	start := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2099, time.December, 31, 0, 0, 0, 0, time.UTC)

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		d := FromTime(day)

		token, err := Encode(d)
		require.NoError(t, err, d.String())
		require.Len(t, token, 6, d.String())

		back, err := Decode(token)
		require.NoError(t, err, token)
		require.Equal(t, d, back, token)
	}
}

func TestEncodeRejectsOutOfRangeYears(t *testing.T) {
	_, err := Encode(Date{Year: 1999, Month: time.December, Day: 31})
	assert.True(t, apperrors.IsCalendarDate(err))

	_, err = Encode(Date{Year: 2100, Month: time.January, Day: 1})
	assert.True(t, apperrors.IsCalendarDate(err))
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		raw  string
		want Format
	}{
		{"010223", FormatCompact},
		{"10423", FormatCompact}, // leading zero lost to numeric JSON
		{"2023-02-01", FormatISO},
		{"2023-02-01T00:00:00Z", FormatISO},
		{"1609459200", FormatUnix},
		{"hello", FormatUnknown},
		{"12-03-23", FormatUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectFormat(tt.raw), tt.raw)
	}
}

func TestParseNonCanonicalFormats(t *testing.T) {
	d, f, err := Parse("2023-02-01")
	require.NoError(t, err)
	assert.Equal(t, FormatISO, f)
	assert.Equal(t, Date{Year: 2023, Month: time.February, Day: 1}, d)

	d, f, err = Parse("1609459200") // 2021-01-01 UTC
	require.NoError(t, err)
	assert.Equal(t, FormatUnix, f)
	assert.Equal(t, Date{Year: 2021, Month: time.January, Day: 1}, d)

	d, f, err = Parse("10423")
	require.NoError(t, err)
	assert.Equal(t, FormatCompact, f)
	assert.Equal(t, Date{Year: 2023, Month: time.April, Day: 1}, d)
}

func TestJSONMarshalEmitsCanonicalToken(t *testing.T) {
	b, err := json.Marshal(Date{Year: 2023, Month: time.February, Day: 1})
	require.NoError(t, err)
	assert.Equal(t, `"010223"`, string(b))

	b, err = json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	// A date outside the token range must fail loudly, not be coerced.
	_, err = json.Marshal(struct{ D Date }{Date{Year: 1990, Month: time.May, Day: 3}})
	assert.Error(t, err)
}

func TestJSONUnmarshalSniffsAndReports(t *testing.T) {
	var seen []Format
	OnNonCanonical = func(raw string, f Format) { seen = append(seen, f) }
	defer func() { OnNonCanonical = nil }()

	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"010223"`), &d))
	assert.Equal(t, Date{Year: 2023, Month: time.February, Day: 1}, d)
	assert.Empty(t, seen, "canonical token must not be reported")

	require.NoError(t, json.Unmarshal([]byte(`"2023-02-01"`), &d))
	assert.Equal(t, []Format{FormatISO}, seen)

	require.NoError(t, json.Unmarshal([]byte(`1609459200`), &d))
	assert.Equal(t, []Format{FormatISO, FormatUnix}, seen)
	assert.Equal(t, Date{Year: 2021, Month: time.January, Day: 1}, d)

	err := json.Unmarshal([]byte(`"31-02-2023"`), &d)
	assert.True(t, apperrors.IsDateFormat(err))
}
