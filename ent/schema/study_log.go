package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// StudyLog records a graded activity outside the card drills, such as a
// reading exercise.
type StudyLog struct {
	ent.Schema
}

func (StudyLog) Mixin() []ent.Mixin {
	return []ent.Mixin{CreatedMixin{}}
}

func (StudyLog) Fields() []ent.Field {
	return []ent.Field{
		field.String("user_id").NotEmpty(),
		field.String("module"),
		field.String("item_id").Default(""),
		field.Text("result").Default("{}").
			Comment("JSON payload"),
	}
}

func (StudyLog) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "module"),
	}
}
