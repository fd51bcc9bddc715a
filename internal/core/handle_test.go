package core

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var handlePattern = regexp.MustCompile(`^[a-z0-9]+$`)

func TestNormalizeHandle(t *testing.T) {
	cases := map[string]string{
		"My New Brand!":  "mynewbrand",
		"  Acme-Widgets": "acmewidgets",
		"ABC123":         "abc123",
		"café ñ 42":      "caf42",
		"x":              "x",
	}
	for in, want := range cases {
		got, err := NormalizeHandle(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestNormalizeHandleIdempotent(t *testing.T) {
	inputs := []string{"My New Brand!", "a.b.c", "ZZZ top", "1 2 3", "Über Café", "__x__"}
	for _, in := range inputs {
		once, err := NormalizeHandle(in)
		require.NoError(t, err)
		twice, err := NormalizeHandle(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
		assert.Regexp(t, handlePattern, once)
	}
}

func TestNormalizeHandleRejects(t *testing.T) {
	_, err := NormalizeHandle("")
	require.Error(t, err)
	assert.Equal(t, "Name is required", err.Error())

	_, err = NormalizeHandle("   ")
	require.Error(t, err)
	assert.Equal(t, "Name is required", err.Error())

	for _, in := range []string{"!!!", "--- ...", "éèà"} {
		_, err := NormalizeHandle(in)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, ErrInvalidInput))
		assert.Equal(t, "Name must contain alphanumeric characters", err.Error())
	}
}

func TestNormalizeDomain(t *testing.T) {
	got, err := NormalizeDomain("  Example.COM. ")
	require.NoError(t, err)
	assert.Equal(t, "example.com", got)

	_, err = NormalizeDomain(" ")
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "Domain is required", err.Error())

	_, err = NormalizeDomain("http://example.com")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestTruncateAndFailed(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "ab", Truncate("ab", 3))
	assert.Equal(t, "", Truncate("ab", 0))

	long := make([]byte, 250)
	for i := range long {
		long[i] = 'e'
	}
	res := Failed("error", errors.New(string(long)))
	assert.Equal(t, VerdictUnknown, res.Verdict)
	assert.Equal(t, "error", res.Method)
	assert.Len(t, res.Error, MaxErrorLength)
}

func TestReportTally(t *testing.T) {
	report := &CheckReport{
		Domains: map[string]ProbeResult{
			".com": {Verdict: VerdictTaken},
			".io":  {Verdict: VerdictAvailable},
		},
		Social: map[string]ProbeResult{
			"X": {Verdict: VerdictUnknown},
		},
	}
	tally := report.Tally()
	assert.Equal(t, 1, tally[VerdictTaken])
	assert.Equal(t, 1, tally[VerdictAvailable])
	assert.Equal(t, 1, tally[VerdictUnknown])
	assert.True(t, VerdictTaken.Conclusive())
	assert.False(t, VerdictLikelyAvailable.Conclusive())
}
