package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Batch records the ordered item set drilled in one session.
type Batch struct {
	ent.Schema
}

func (Batch) Mixin() []ent.Mixin {
	return []ent.Mixin{CreatedMixin{}}
}

func (Batch) Fields() []ent.Field {
	return []ent.Field{
		field.String("batch_id").
			Unique().
			Immutable(),
		field.String("user_id").NotEmpty(),
		field.String("module"),
		field.Text("item_ids").Default("[]").
			Comment("JSON array, drill order"),
	}
}

func (Batch) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "module", "created_at"),
	}
}
