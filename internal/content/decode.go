package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is an item file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf picks the format from a file extension; anything that is not
// .json is read as YAML.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

type itemFile struct {
	Items []Item `json:"items" yaml:"items"`
}

// Decode reads a word list: either a bare list of items or an object with
// an "items" list. Items without a kind are cards. Every item is validated;
// the first invalid one fails the whole file.
func Decode(r io.Reader, f Format) ([]Item, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading items: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	var items []Item
	switch f {
	case FormatJSON:
		if raw[0] == '[' {
			err = json.Unmarshal(raw, &items)
		} else {
			var file itemFile
			err = json.Unmarshal(raw, &file)
			items = file.Items
		}
	default:
		var node yaml.Node
		if err = yaml.Unmarshal(raw, &node); err == nil && len(node.Content) > 0 {
			if node.Content[0].Kind == yaml.SequenceNode {
				err = node.Decode(&items)
			} else {
				var file itemFile
				err = node.Decode(&file)
				items = file.Items
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s items: %w", f, err)
	}

	for i := range items {
		if items[i].Kind == "" {
			items[i].Kind = KindCard
		}
		items[i].AnswerKey = strings.ToUpper(strings.TrimSpace(items[i].AnswerKey))
		if err := items[i].Validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
	}
	return items, nil
}
