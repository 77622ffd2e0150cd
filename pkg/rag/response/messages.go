package response

const (
	FoundPrefix      = "I found some relevant information from the uploaded files: "
	TruncationSuffix = "..."
	NoContextMessage = "I don't have any relevant information from the uploaded files to answer your question."

	DefaultPreviewLength = 200
)

// Compose builds the reply for a resolved context. The suffix is appended
// even when the context is shorter than the preview.
func Compose(context string, previewLength int) string {
	if context == "" {
		return NoContextMessage
	}
	return FoundPrefix + Preview(context, previewLength) + TruncationSuffix
}

// Preview cuts text to at most n characters without splitting a rune.
func Preview(text string, n int) string {
	if n < 0 {
		n = DefaultPreviewLength
	}
	count := 0
	for i := range text {
		if count == n {
			return text[:i]
		}
		count++
	}
	return text
}
