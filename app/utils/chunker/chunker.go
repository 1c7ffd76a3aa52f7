package chunker

// 1 token is approximated as 4 characters of text.
const (
	CharsPerToken        = 4
	DefaultMaxTokens     = 500
	DefaultOverlapTokens = 50
)

// Window returns the window size and the advance between window starts, both
// in runes. The advance is always positive: an overlap that would stall the
// walk is dropped.
func Window(maxTokens, overlapTokens int) (size, step int) {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if overlapTokens < 0 {
		overlapTokens = 0
	}
	size = maxTokens * CharsPerToken
	overlap := overlapTokens * CharsPerToken
	if overlap >= size {
		overlap = 0
	}
	return size, size - overlap
}

// Chunk splits text into windows of maxTokens*4 runes where every window after
// the first starts overlapTokens*4 runes before the end of the previous one.
// The result is never empty; text that fits in one window is returned as is.
func Chunk(text string, maxTokens, overlapTokens int) []string {
	size, step := Window(maxTokens, overlapTokens)

	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	out := make([]string, 0, len(runes)/step+1)
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return out
}

// Default chunks text with the default 500/50 token configuration.
func Default(text string) []string {
	return Chunk(text, DefaultMaxTokens, DefaultOverlapTokens)
}
