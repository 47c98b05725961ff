package dates

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEndOfDayDefault(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	got, err := Resolve("2025-09-01", ny)
	require.NoError(t, err)

	// 23:59 New York during DST is 03:59 UTC the next day.
	want := time.Date(2025, 9, 2, 3, 59, 0, 0, time.UTC)
	assert.True(t, got.Equal(want), "got %s, want %s", got, want)
	assert.Equal(t, time.UTC, got.Location())
}

func TestResolveSecondaryLayout(t *testing.T) {
	got, err := Resolve("10/05/2025", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2025-10-05T23:59:00Z", FormatUTC(got))
}

func TestResolveInvalidFormat(t *testing.T) {
	_, err := Resolve("not-a-date", time.UTC)
	require.Error(t, err)

	var derr *Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, KindInvalidFormat, derr.Kind)
	assert.Equal(t, "not-a-date", derr.Input)
}

func TestResolveAtClockValidation(t *testing.T) {
	cases := []struct {
		hour, minute int
	}{
		{-1, 0},
		{24, 0},
		{0, -1},
		{0, 60},
	}
	for _, tc := range cases {
		_, err := ResolveAt("2025-09-01", time.UTC, tc.hour, tc.minute)
		if err == nil {
			t.Errorf("ResolveAt with clock %02d:%02d should fail", tc.hour, tc.minute)
		}
	}
}

func TestResolveAtExplicitClock(t *testing.T) {
	got, err := ResolveAt("2025-09-01", time.UTC, 9, 30)
	require.NoError(t, err)
	assert.Equal(t, "2025-09-01T09:30:00Z", FormatUTC(got))
}

func TestStorageRoundTrip(t *testing.T) {
	orig := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	parsed, err := ParseUTC(FormatUTC(orig))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(orig))
}

func TestParseUTCInvalid(t *testing.T) {
	_, err := ParseUTC("2025-03-14")
	var derr *Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, KindInvalidFormat, derr.Kind)
}
