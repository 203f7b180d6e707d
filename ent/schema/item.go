package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Item is a study item: a vocabulary card, a choice question or a
// free-text prompt.
type Item struct {
	ent.Schema
}

func (Item) Mixin() []ent.Mixin {
	return []ent.Mixin{CreatedMixin{}}
}

func (Item) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			Immutable(),
		field.String("kind").
			Comment("card, choice or free_text"),
		field.String("prompt").
			NotEmpty().
			Comment("Headword or question text"),
		field.String("meaning").Default(""),
		field.String("pos").Default("").
			Comment("Part of speech"),
		field.Text("example_en").Default(""),
		field.Text("example_ja").Default(""),
		field.Text("synonyms").Default("[]").
			Comment("JSON array"),
		field.Text("derived").Default("[]").
			Comment("JSON array"),
		field.Text("choices").Default("[]").
			Comment("JSON array of options, choice items only"),
		field.String("answer_key").Default(""),
		field.Text("reference").Default("").
			Comment("Model answer for free-text items"),
	}
}

func (Item) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("kind"),
	}
}
