package errors

import (
	stdErrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestSiteError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *SiteError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryConfig, SeverityFatal, "configuration invalid"),
			expected: "config (fatal): configuration invalid",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("file not found"), CategoryConfig, SeverityFatal, "failed to load config"),
			expected: "config (fatal): failed to load config: file not found",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := test.err.Error()
			if result != test.expected {
				t.Errorf("Error() = %q, want %q", result, test.expected)
			}
		})
	}
}

func TestSiteError_WithContext(t *testing.T) {
	err := New(CategoryCollection, SeverityWarning, "loader failed").
		WithContext("collection", "docs").
		WithContext("base", "src/content/docs")

	if err.Context == nil {
		t.Fatal("Context should not be nil")
	}
	if err.Context["collection"] != "docs" {
		t.Errorf("Context[collection] = %v, want docs", err.Context["collection"])
	}
	if err.Context["base"] != "src/content/docs" {
		t.Errorf("Context[base] = %v, want src/content/docs", err.Context["base"])
	}
}

func TestIsCategory(t *testing.T) {
	configErr := New(CategoryConfig, SeverityFatal, "config error")
	renderErr := New(CategoryRender, SeverityError, "render error")
	wrapped := fmt.Errorf("outer: %w", renderErr)
	standardErr := fmt.Errorf("standard error")

	tests := []struct {
		name     string
		err      error
		category ErrorCategory
		expected bool
	}{
		{"config error matches config category", configErr, CategoryConfig, true},
		{"config error doesn't match render category", configErr, CategoryRender, false},
		{"wrapped render error matches render category", wrapped, CategoryRender, true},
		{"standard error doesn't match any category", standardErr, CategoryConfig, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsCategory(test.err, test.category)
			if result != test.expected {
				t.Errorf("IsCategory() = %v, want %v", result, test.expected)
			}
		})
	}
}

func TestGetCategory_DefaultsToInternal(t *testing.T) {
	if got := GetCategory(fmt.Errorf("plain")); got != CategoryInternal {
		t.Errorf("GetCategory() = %v, want %v", got, CategoryInternal)
	}
}

func TestConvenienceFunctions(t *testing.T) {
	t.Run("ConfigNotFound", func(t *testing.T) {
		err := ConfigNotFound("/path/to/sitecfg.yaml")
		if err.Category != CategoryConfig {
			t.Errorf("Category = %v, want %v", err.Category, CategoryConfig)
		}
		if err.Severity != SeverityFatal {
			t.Errorf("Severity = %v, want %v", err.Severity, SeverityFatal)
		}
		if err.Context["path"] != "/path/to/sitecfg.yaml" {
			t.Errorf("Context[path] = %v, want /path/to/sitecfg.yaml", err.Context["path"])
		}
	})

	t.Run("LoaderFailed", func(t *testing.T) {
		cause := fmt.Errorf("permission denied")
		err := LoaderFailed("docs", cause)
		if err.Category != CategoryCollection {
			t.Errorf("Category = %v, want %v", err.Category, CategoryCollection)
		}
		if !stdErrors.Is(err, cause) {
			t.Errorf("Cause should match wrapped cause: %v", cause)
		}
	})

	t.Run("ValidationFailed", func(t *testing.T) {
		err := ValidationFailed(3, "sidebar[2]: duplicate label")
		if err.Category != CategoryValidation {
			t.Errorf("Category = %v, want %v", err.Category, CategoryValidation)
		}
		if err.Context["issues"] != 3 {
			t.Errorf("Context[issues] = %v, want 3", err.Context["issues"])
		}
		if !strings.Contains(err.Context["first"].(string), "duplicate") {
			t.Errorf("Context[first] = %v, want duplicate finding", err.Context["first"])
		}
	})
}
