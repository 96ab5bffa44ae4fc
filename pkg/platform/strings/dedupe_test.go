package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil input", nil, []string{}},
		{"drops blanks", []string{" ", "", "a"}, []string{"a"}},
		{"keeps first occurrence", []string{" b ", "a", "b"}, []string{"b", "a"}},
		{"case sensitive", []string{"A", "a"}, []string{"A", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DedupeAndTrim(tt.in))
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList(""))
	assert.Nil(t, SplitList("   "))
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.in"},
		SplitList("http://localhost:3000, https://app.example.in,,http://localhost:3000"))
}
