package frontmatterops

import (
	"testing"

	"git.home.luguber.info/inful/sitecfg/internal/frontmatter"
	"github.com/inful/mdfp"
	"github.com/stretchr/testify/require"
)

func TestComputeFingerprint(t *testing.T) {
	t.Run("excludes fingerprint and lastUpdated", func(t *testing.T) {
		fields := map[string]any{
			"title":       "Test",
			"fingerprint": "should-be-ignored",
			"lastUpdated": "2026-01-01",
		}
		body := []byte("hello\n")

		got, err := ComputeFingerprint(fields, body)
		require.NoError(t, err)

		fmForHash, err := frontmatter.Canonical(map[string]any{"title": "Test"})
		require.NoError(t, err)
		require.Equal(t, mdfp.CalculateFingerprintFromParts(fmForHash, string(body)), got)
	})

	t.Run("stable across map insertion order", func(t *testing.T) {
		fieldsA := map[string]any{}
		fieldsA["title"] = "Test"
		fieldsA["sidebar"] = map[string]any{"order": 1, "label": "T"}

		fieldsB := map[string]any{}
		fieldsB["sidebar"] = map[string]any{"label": "T", "order": 1}
		fieldsB["title"] = "Test"

		fpA, err := ComputeFingerprint(fieldsA, []byte("hello"))
		require.NoError(t, err)
		fpB, err := ComputeFingerprint(fieldsB, []byte("hello"))
		require.NoError(t, err)
		require.Equal(t, fpA, fpB)
	})

	t.Run("body changes the fingerprint", func(t *testing.T) {
		fields := map[string]any{"title": "Test"}
		a, err := ComputeFingerprint(fields, []byte("one"))
		require.NoError(t, err)
		b, err := ComputeFingerprint(fields, []byte("two"))
		require.NoError(t, err)
		require.NotEqual(t, a, b)
	})

	t.Run("nil fields", func(t *testing.T) {
		_, err := ComputeFingerprint(nil, nil)
		require.Error(t, err)
	})
}

func TestStale(t *testing.T) {
	fields := map[string]any{"title": "Test"}
	body := []byte("hello")

	fp, err := ComputeFingerprint(fields, body)
	require.NoError(t, err)
	require.Empty(t, Declared(fields))
	require.False(t, Stale(fields, fp), "no recorded fingerprint")

	fields[mdfp.FingerprintField] = " " + fp + "\n"
	require.Equal(t, fp, Declared(fields))
	require.False(t, Stale(fields, fp))

	edited, err := ComputeFingerprint(fields, []byte("edited"))
	require.NoError(t, err)
	require.True(t, Stale(fields, edited))
}
