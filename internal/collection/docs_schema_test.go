package collection

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func parseDocs(t *testing.T, fields map[string]any) (Data, *SchemaError) {
	t.Helper()
	d, err := DocsSchema{}.Parse(Entry{Collection: "docs", Path: "page.md", Fields: fields})
	if err == nil {
		return d, nil
	}
	var se *SchemaError
	require.True(t, errors.As(err, &se), "unexpected error type %T", err)
	return d, se
}

func TestDocsSchemaDefaults(t *testing.T) {
	d, se := parseDocs(t, map[string]any{"title": "Intro", "custom": 1})
	require.Nil(t, se)
	require.Equal(t, "doc", d.Template)
	require.True(t, d.Pagefind)
	require.False(t, d.Draft)
	require.Nil(t, d.TableOfContents)
	require.Equal(t, map[string]any{"custom": 1}, d.Extra)
}

func TestDocsSchemaFields(t *testing.T) {
	d, se := parseDocs(t, map[string]any{
		"title":           "Intro",
		"slug":            "/start/",
		"draft":           true,
		"pagefind":        false,
		"tableOfContents": map[string]any{"minHeadingLevel": 2, "maxHeadingLevel": int64(4)},
		"lastUpdated":     "2024-12-24",
		"sidebar":         map[string]any{"label": "Start", "order": 3.0, "hidden": true, "badge": "Beta", "attrs": map[string]any{"class": "x"}},
	})
	require.Nil(t, se)
	require.Equal(t, "start", d.Slug)
	require.True(t, d.Draft)
	require.False(t, d.Pagefind)
	require.Equal(t, &TableOfContents{MinHeadingLevel: 2, MaxHeadingLevel: 4}, d.TableOfContents)
	require.Equal(t, time.Date(2024, 12, 24, 0, 0, 0, 0, time.UTC), d.LastUpdated)
	require.Equal(t, "Start", d.Sidebar.Label)
	require.Equal(t, 3, *d.Sidebar.Order)
	require.True(t, d.Sidebar.Hidden)
	require.Equal(t, &Badge{Text: "Beta"}, d.Sidebar.Badge)
	require.Equal(t, map[string]string{"class": "x"}, d.Sidebar.Attrs)
}

func TestDocsSchemaLastUpdated(t *testing.T) {
	gitTime := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	d, err := DocsSchema{}.Parse(Entry{Fields: map[string]any{"title": "x", "lastUpdated": false}, LastUpdated: gitTime})
	require.NoError(t, err)
	require.True(t, d.LastUpdated.IsZero())

	d, err = DocsSchema{}.Parse(Entry{Fields: map[string]any{"title": "x"}, LastUpdated: gitTime})
	require.NoError(t, err)
	require.Equal(t, gitTime, d.LastUpdated)
}

func TestDocsSchemaTableOfContentsDisabled(t *testing.T) {
	d, se := parseDocs(t, map[string]any{"title": "x", "tableOfContents": false})
	require.Nil(t, se)
	require.Equal(t, &TableOfContents{Disabled: true}, d.TableOfContents)
}

func TestDocsSchemaProblems(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]any
		want   string
	}{
		{"missing title", map[string]any{}, "title is required"},
		{"blank title", map[string]any{"title": " "}, "title must not be empty"},
		{"title type", map[string]any{"title": 3}, "title must be a string"},
		{"template", map[string]any{"title": "x", "template": "wide"}, "template must be doc or splash"},
		{"draft type", map[string]any{"title": "x", "draft": "yes"}, "draft must be a boolean"},
		{"order type", map[string]any{"title": "x", "sidebar": map[string]any{"order": 1.5}}, "sidebar.order must be an integer"},
		{"sidebar unknown", map[string]any{"title": "x", "sidebar": map[string]any{"weight": 1}}, "sidebar.weight is not a known field"},
		{"sidebar type", map[string]any{"title": "x", "sidebar": "top"}, "sidebar must be a mapping"},
		{"badge variant", map[string]any{"title": "x", "sidebar": map[string]any{"badge": map[string]any{"text": "a", "variant": "loud"}}}, "sidebar.badge.variant"},
		{"toc range", map[string]any{"title": "x", "tableOfContents": map[string]any{"minHeadingLevel": 5, "maxHeadingLevel": 2}}, "tableOfContents levels"},
		{"lastUpdated", map[string]any{"title": "x", "lastUpdated": "yesterday"}, "is not a date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, se := parseDocs(t, tt.fields)
			require.NotNil(t, se)
			require.Contains(t, se.Error(), tt.want)
			require.Contains(t, se.Error(), `docs entry "page.md"`)
		})
	}
}

func TestDocsSchemaReportsAllProblems(t *testing.T) {
	_, se := parseDocs(t, map[string]any{"draft": 1, "template": "x"})
	require.NotNil(t, se)
	require.Len(t, se.Problems, 3)
}

func TestPassthroughSchema(t *testing.T) {
	d, err := PassthroughSchema{}.Parse(Entry{Fields: map[string]any{"title": "Note", "tags": []any{"a"}}})
	require.NoError(t, err)
	require.Equal(t, "Note", d.Title)
	require.Equal(t, []any{"a"}, d.Extra["tags"])
}
