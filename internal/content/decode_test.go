package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_YAMLList(t *testing.T) {
	src := `
- id: w1
  prompt: abandon
  meaning: 見捨てる
  pos: verb
  synonyms: [desert, leave]
- id: q1
  kind: choice
  prompt: "Pick the synonym of 'abandon'"
  choices: [keep, desert, hold, save]
  answer_key: b
`
	items, err := Decode(strings.NewReader(src), FormatYAML)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, KindCard, items[0].Kind, "kind defaults to card")
	assert.Equal(t, []string{"desert", "leave"}, items[0].Synonyms)
	assert.Equal(t, "B", items[1].AnswerKey)
}

func TestDecode_JSONObject(t *testing.T) {
	src := `{"items": [{"id": "f1", "kind": "free_text", "prompt": "S of: Birds sing.", "reference": "Birds"}]}`
	items, err := Decode(strings.NewReader(src), FormatJSON)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Birds", items[0].Reference)
}

func TestDecode_YAMLObject(t *testing.T) {
	items, err := Decode(strings.NewReader("items:\n  - id: w1\n    prompt: keen\n    meaning: 熱心な\n"), FormatYAML)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestDecode_InvalidItemFailsFile(t *testing.T) {
	_, err := Decode(strings.NewReader(`[{"id": "w1", "prompt": "word"}]`), FormatJSON)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestDecode_Empty(t *testing.T) {
	items, err := Decode(strings.NewReader("  \n"), FormatYAML)
	assert.NoError(t, err)
	assert.Empty(t, items)
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatOf("words.JSON"))
	assert.Equal(t, FormatYAML, FormatOf("words.yml"))
	assert.Equal(t, FormatYAML, FormatOf("words"))
}
