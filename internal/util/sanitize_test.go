package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"plain name", "report.pptx", "report.pptx", false},
		{"surrounding whitespace", "  deck.docx  ", "deck.docx", false},
		{"path separators replaced", "a/b\\c.xlsx", "a_b_c.xlsx", false},
		{"reserved characters replaced", `q2<final>:"plan".pptx`, `q2_final___plan_.pptx`, false},
		{"empty", "   ", "", true},
		{"null byte", "bad\x00.pptx", "", true},
		{"dot only", ".", "", true},
		{"parent dir", "..", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SanitizeFilename(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestSanitizeFilenameStripsControlCharacters(t *testing.T) {
	got, err := SanitizeFilename("re​port\t.pptx")
	require.NoError(t, err)
	assert.Equal(t, "report.pptx", got)
}
