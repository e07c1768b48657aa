package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesPermission(t *testing.T) {
	tests := []struct {
		name     string
		granted  string
		required string
		expected bool
	}{
		{"exact match", "factory:view", "factory:view", true},
		{"different action", "factory:view", "factory:export_as_csv", false},
		{"different surface", "factory:view", "image:view", false},

		{"full wildcard", "*", "recycled_factory:restore", true},
		{"full wildcard pair", "*:*", "report_record:view", true},

		{"surface wildcard", "recycled_factory:*", "recycled_factory:restore", true},
		{"surface wildcard other surface", "recycled_factory:*", "factory:export_as_csv", false},

		{"action wildcard", "*:view", "image:view", true},
		{"action wildcard other action", "*:view", "recycled_factory:restore", false},

		{"no colon exact", "staff", "staff", true},
		{"no colon vs pair", "staff", "staff:view", false},
		{"empty granted", "", "factory:view", false},
		{"empty required", "factory:view", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MatchesPermission(tt.granted, tt.required))
		})
	}
}

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name     string
		granted  []string
		required string
		expected bool
	}{
		{"viewer can list recycled factories", []string{"*:view"}, Permission("recycled_factory", ActionView), true},
		{"viewer cannot restore", []string{"*:view"}, Permission("recycled_factory", "restore"), false},
		{"curator can restore", []string{"*:view", "recycled_factory:*"}, Permission("recycled_factory", "restore"), true},
		{"exporter exports factories only", []string{"factory:export_as_csv"}, Permission("image", "export_as_csv"), false},
		{"no permissions", nil, Permission("factory", ActionView), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HasPermission(tt.granted, tt.required))
		})
	}
}

func BenchmarkMatchesPermission_Wildcard(b *testing.B) {
	for i := 0; i < b.N; i++ {
		MatchesPermission("*:view", "factory:view")
	}
}
