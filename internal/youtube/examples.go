// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package youtube

// Example is a pre-canned URL offered next to the input field.
type Example struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

var examples = []Example{
	{Label: "Tech tutorial", URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
	{Label: "Short link", URL: "https://youtu.be/jNQXAC9IVRw"},
	{Label: "Embedded player", URL: "https://www.youtube.com/embed/9bZkp7q19f0"},
}

// Examples returns a copy of the example catalogue.
func Examples() []Example {
	out := make([]Example, len(examples))
	copy(out, examples)
	return out
}

// ExampleAt returns the example at index i.
func ExampleAt(i int) (Example, bool) {
	if i < 0 || i >= len(examples) {
		return Example{}, false
	}
	return examples[i], true
}
