package cities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "mixed case", in: []string{"Vancouver", "toronto", "MONTREAL"}, want: []string{"montreal", "toronto", "vancouver"}},
		{name: "duplicates and blanks", in: []string{"Calgary", " calgary ", "", "  ", "Ottawa"}, want: []string{"calgary", "ottawa"}},
		{name: "empty", in: nil, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestSort_CaseInsensitiveAndIdempotent(t *testing.T) {
	list := []string{"victoria", "Banff", "calgary", "Calgary", "edmonton"}

	Sort(list)
	first := append([]string(nil), list...)
	Sort(list)

	assert.Equal(t, []string{"Banff", "Calgary", "calgary", "edmonton", "victoria"}, first)
	assert.Equal(t, first, list)
}

func TestPromote(t *testing.T) {
	sorted := []string{"calgary", "montreal", "toronto", "vancouver"}

	t.Run("member moves to front", func(t *testing.T) {
		got := Promote(sorted, "toronto")
		assert.Equal(t, []string{"toronto", "calgary", "montreal", "vancouver"}, got)
		assert.Equal(t, []string{"calgary", "montreal", "toronto", "vancouver"}, sorted, "input untouched")
	})

	t.Run("already first", func(t *testing.T) {
		assert.Equal(t, sorted, Promote(sorted, "calgary"))
	})

	t.Run("removes every occurrence", func(t *testing.T) {
		assert.Equal(t, []string{"ottawa", "calgary"}, Promote([]string{"ottawa", "calgary", "ottawa"}, "ottawa"))
	})
}
