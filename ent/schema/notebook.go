package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Notebook is a user-curated list of items.
type Notebook struct {
	ent.Schema
}

func (Notebook) Mixin() []ent.Mixin {
	return []ent.Mixin{CreatedMixin{}}
}

func (Notebook) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").Immutable(),
		field.String("user_id").NotEmpty(),
		field.String("name").NotEmpty(),
		field.String("description").Default(""),
	}
}

func (Notebook) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "name").Unique(),
	}
}

// NotebookItem links an item into a notebook.
type NotebookItem struct {
	ent.Schema
}

func (NotebookItem) Mixin() []ent.Mixin {
	return []ent.Mixin{CreatedMixin{}}
}

func (NotebookItem) Fields() []ent.Field {
	return []ent.Field{
		field.String("notebook_id"),
		field.String("item_id"),
	}
}

func (NotebookItem) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("notebook_id", "item_id").Unique(),
	}
}
