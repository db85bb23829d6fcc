package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHostEntry(t *testing.T) {
	tests := []struct {
		name       string
		value      any
		host       string
		structured bool
		wantErr    bool
	}{
		{name: "bare address", value: "8.8.8.8", host: "8.8.8.8"},
		{name: "bare address with spaces", value: " 8.8.8.8 ", host: "8.8.8.8"},
		{name: "mapping", value: map[string]any{"host": "1.1.1.1", "name": "cf"}, host: "1.1.1.1", structured: true},
		{name: "mapping with any keys", value: map[any]any{"host": "10.0.0.1"}, host: "10.0.0.1", structured: true},
		{name: "empty string", value: "", wantErr: true},
		{name: "mapping without host", value: map[string]any{"name": "x"}, wantErr: true},
		{name: "mapping with non string host", value: map[string]any{"host": 42}, wantErr: true},
		{name: "number", value: 42, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := ParseHostEntry(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.host, entry.Address())
			assert.Equal(t, tt.structured, entry.Structured())
		})
	}
}

func TestParseHostEntry_KeepsMetadata(t *testing.T) {
	entry, err := ParseHostEntry(map[string]any{
		"host":  "1.1.1.1",
		"name":  "cloudflare",
		"color": "#f38020",
		"owner": "netops",
	})
	require.NoError(t, err)

	assert.Equal(t, "cloudflare", entry.Name)
	assert.Equal(t, "#f38020", entry.Color)
	assert.Equal(t, map[string]any{"owner": "netops"}, entry.Extra)
}
