package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reassemble(chunks []string, overlap int) string {
	var b strings.Builder
	for i, c := range chunks {
		if i == 0 {
			b.WriteString(c)
			continue
		}
		b.WriteString(string([]rune(c)[overlap:]))
	}
	return b.String()
}

func TestChunk_TwoWindowsWithOverlap(t *testing.T) {
	text := strings.Repeat("A", 2400)

	chunks := Chunk(text, 500, 50)

	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], 2000)
	assert.Len(t, chunks[1], 600)
	assert.Equal(t, text[1800:], chunks[1])
}

func TestChunk_ShortText(t *testing.T) {
	assert.Equal(t, []string{"hello"}, Chunk("hello", 500, 50))
	assert.Equal(t, []string{""}, Chunk("", 500, 50))

	exact := strings.Repeat("b", 2000)
	assert.Equal(t, []string{exact}, Chunk(exact, 500, 50))
}

func TestChunk_RoundTrip(t *testing.T) {
	var b strings.Builder
	for i := 0; b.Len() < 9000; i++ {
		b.WriteString("Stainless steel fitting ")
		b.WriteString(strings.Repeat("x", i%7))
		b.WriteString(" ü ")
	}
	text := b.String()

	cases := []struct {
		name     string
		max, ovl int
	}{
		{"defaults", 500, 50},
		{"small", 10, 3},
		{"no overlap", 25, 0},
		{"large overlap", 40, 39},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			chunks := Chunk(text, tc.max, tc.ovl)
			size, step := Window(tc.max, tc.ovl)

			for i, c := range chunks {
				if i < len(chunks)-1 {
					assert.Equal(t, size, utf8.RuneCountInString(c))
				} else {
					assert.LessOrEqual(t, utf8.RuneCountInString(c), size)
				}
			}
			assert.Equal(t, text, reassemble(chunks, size-step))
		})
	}
}

func TestChunk_DegenerateOverlapTerminates(t *testing.T) {
	text := strings.Repeat("z", 1000)

	chunks := Chunk(text, 10, 10)
	require.Len(t, chunks, 25)
	assert.Equal(t, text, strings.Join(chunks, ""))

	chunks = Chunk(text, 10, 50)
	require.Len(t, chunks, 25)
}

func TestWindow(t *testing.T) {
	size, step := Window(0, -5)
	assert.Equal(t, 2000, size)
	assert.Equal(t, 2000, step)

	size, step = Window(500, 50)
	assert.Equal(t, 2000, size)
	assert.Equal(t, 1800, step)
}
