package transform

import (
	"strings"
	"text/template"
)

var promptTpl = template.Must(template.New("prompt").Parse(`You are a helpful assistant. You will be given a transcription of an audio recording and you will generate a {{.Label}} based on the transcription with markdown formatting.
Only output the generation itself, with no introductions, explanations, or extra commentary.

The transcription is: {{.Transcript}}

{{.Instruction}}

Remember to use output language like the input transcription language.

Do not add phrases like "Based on the transcription" or "Let me know if you'd like me to help with anything else."
`))

// BuildPrompt wraps the transcript and the template instruction in the
// fixed instructional frame sent to the model.
func BuildPrompt(label, transcript, instruction string) string {
	var sb strings.Builder
	// Execute only fails on writer errors; strings.Builder never returns one.
	_ = promptTpl.Execute(&sb, struct{ Label, Transcript, Instruction string }{label, transcript, instruction})
	return sb.String()
}
