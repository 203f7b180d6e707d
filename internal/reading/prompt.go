package reading

import (
	"bytes"
	"text/template"
)

const generatorSystemPrompt = `You write short reading comprehension exercises for Japanese learners of English preparing for the TOEIC test.

Rules:
- Write one passage of 80 to 150 words: an email, notice, advertisement or short article.
- Write exactly two questions. Each has exactly four options and one correct answer.
- Question 1 asks about the main idea or purpose. Question 2 asks about a specific detail.
- Distractors must be plausible but clearly wrong according to the passage.
- Use plain text. No Markdown.`

var generatorUserTemplate = template.Must(template.New("generate").Parse(`Exercise type: {{.Kind}}
Learner level (0-100): {{.Level}}
{{- if .Words}}
Try to use some of these words the learner is practising: {{range $i, $w := .Words}}{{if $i}}, {{end}}{{$w}}{{end}}
{{- end}}`))

type generatorPromptData struct {
	Kind  string
	Level int
	Words []string
}

const graderSystemPrompt = `You are a friendly English teacher explaining reading comprehension answers to a Japanese learner.

Rules:
- For each question, explain in Japanese why the correct option is correct, quoting the passage.
- Then give short feedback on the learner's choice. If they were wrong, say what misled them.
- Finish with one or two sentences of overall advice in Japanese.
- Return one entry per question, in order.`

var graderUserTemplate = template.Must(template.New("grade").Parse(`Passage:
{{.Passage}}
{{range $i, $q := .Items}}
Question {{$q.Number}}: {{$q.Text}}
Options: {{$q.Choices}}
Correct answer: {{$q.Answer}}
Learner's answer: {{$q.UserAnswer}}
{{end}}`))

type graderPromptItem struct {
	Number     int
	Text       string
	Choices    string
	Answer     string
	UserAnswer string
}

type graderPromptData struct {
	Passage string
	Items   []graderPromptItem
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
