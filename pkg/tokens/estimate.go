package tokens

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	enc     *tiktoken.Tiktoken
	encOnce sync.Once
)

func encoder() *tiktoken.Tiktoken {
	encOnce.Do(func() {
		// cl100k_base is close enough for the llama-family models the chat
		// endpoint serves; this is an estimate for logging, not billing.
		enc, _ = tiktoken.GetEncoding("cl100k_base")
	})
	return enc
}

// Estimate returns the approximate token count of text, or a rune-based guess
// when the encoding tables are unavailable.
func Estimate(text string) int {
	e := encoder()
	if e == nil {
		return len([]rune(text)) / 4
	}
	return len(e.Encode(text, nil, nil))
}
