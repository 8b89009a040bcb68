package model

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServiceFilter_NoParams_MatchesAll(t *testing.T) {
	t.Parallel()

	f, err := ParseServiceFilter(url.Values{})
	require.NoError(t, err)
	assert.True(t, f.IsEmpty())
}

func TestParseServiceFilter_EmptyValuesAreAbsent(t *testing.T) {
	t.Parallel()

	q := url.Values{
		"title": {"  "}, "tags": {""}, "minBudget": {""},
		"maxBudget": {""}, "startDate": {""}, "endDate": {" "},
	}
	f, err := ParseServiceFilter(q)
	require.NoError(t, err)
	assert.True(t, f.IsEmpty())
}

func TestParseServiceFilter_Title(t *testing.T) {
	t.Parallel()

	f, err := ParseServiceFilter(url.Values{"title": {" Deluxe "}})
	require.NoError(t, err)
	assert.Equal(t, "Deluxe", f.Title)
	assert.False(t, f.IsEmpty())
}

func TestParseServiceFilter_TagsAreTrimmedAndDeduplicated(t *testing.T) {
	t.Parallel()

	f, err := ParseServiceFilter(url.Values{"tags": {" plumbing, electrical,,plumbing "}})
	require.NoError(t, err)
	assert.Equal(t, []Tag{TagPlumbing, TagElectrical}, f.Tags)
}

func TestParseServiceFilter_BudgetBoundsAreIndependent(t *testing.T) {
	t.Parallel()

	f, err := ParseServiceFilter(url.Values{"maxBudget": {"400"}})
	require.NoError(t, err)
	assert.Nil(t, f.MinBudget)
	require.NotNil(t, f.MaxBudget)
	assert.Equal(t, 400.0, *f.MaxBudget)

	f, err = ParseServiceFilter(url.Values{"minBudget": {"1000"}})
	require.NoError(t, err)
	require.NotNil(t, f.MinBudget)
	assert.Equal(t, 1000.0, *f.MinBudget)
	assert.Nil(t, f.MaxBudget)
}

func TestParseServiceFilter_NonNumericBudgetIsIgnored(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"abc", "NaN", "Infinity", "12abc"} {
		f, err := ParseServiceFilter(url.Values{"minBudget": {raw}, "maxBudget": {raw}})
		require.NoError(t, err, raw)
		assert.Nil(t, f.MinBudget, raw)
		assert.Nil(t, f.MaxBudget, raw)
	}
}

func TestParseServiceFilter_ZeroBudgetIsKept(t *testing.T) {
	t.Parallel()

	f, err := ParseServiceFilter(url.Values{"minBudget": {"0"}})
	require.NoError(t, err)
	require.NotNil(t, f.MinBudget)
	assert.Equal(t, 0.0, *f.MinBudget)
}

func TestParseServiceFilter_DateOnlyEndCoversWholeDay(t *testing.T) {
	t.Parallel()

	f, err := ParseServiceFilter(url.Values{"startDate": {"2025-08-01"}, "endDate": {"2025-08-31"}})
	require.NoError(t, err)

	require.NotNil(t, f.StartDate)
	require.NotNil(t, f.EndDate)
	assert.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), *f.StartDate)
	assert.Equal(t, time.Date(2025, 8, 31, 23, 59, 59, 999999999, time.UTC), *f.EndDate)
}

func TestParseServiceFilter_TimestampEndIsExact(t *testing.T) {
	t.Parallel()

	f, err := ParseServiceFilter(url.Values{"endDate": {"2025-08-15T12:00:00Z"}})
	require.NoError(t, err)
	require.NotNil(t, f.EndDate)
	assert.Equal(t, time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC), *f.EndDate)
}

func TestParseServiceFilter_InvalidDateIsRejected(t *testing.T) {
	t.Parallel()

	_, err := ParseServiceFilter(url.Values{"startDate": {"not-a-date"}})
	assert.True(t, errors.Is(err, ErrInvalidDateFilter))

	_, err = ParseServiceFilter(url.Values{"endDate": {"2025-13-40"}})
	assert.True(t, errors.Is(err, ErrInvalidDateFilter))
}
