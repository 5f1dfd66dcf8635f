// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"bytes"
	"encoding/json"
	"text/template"
	"time"
)

// DateLayout is how dates appear in prompts and saved documents.
const DateLayout = "Mon Jan 2, 2006"

var summaryPromptTmpl = template.Must(template.New("summary").Parse(`You are summarizing a web page that was returned by a search engine. Today's date is {{.Date}}.

Write:
- summary: a concise summary of the page (one or two short paragraphs) that keeps the key facts, figures, names, and dates a researcher would need. Mention how recent the information is when the page makes that clear.
- filename: a short, descriptive, lowercase filename for saving the full page, using underscores instead of spaces and ending in ".md" (for example "go_generics_tutorial.md"). No directories.

Respond with a single JSON object of the form {"filename": "...", "summary": "..."} and nothing else.

Web page content:
{{.Content}}
`))

// summarySchema constrains structured-output backends to the PageSummary shape.
var summarySchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "filename": {"type": "string", "description": "Descriptive filename with an extension, e.g. topic_name.md"},
    "summary": {"type": "string", "description": "Concise summary of the page"}
  },
  "required": ["filename", "summary"],
  "additionalProperties": false
}`)

func renderPrompt(content string, now time.Time) (string, error) {
	var buf bytes.Buffer
	err := summaryPromptTmpl.Execute(&buf, struct {
		Date    string
		Content string
	}{Date: now.Format(DateLayout), Content: content})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
