package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ReviewState is the SM-2 state of one (user, item) pair.
type ReviewState struct {
	ent.Schema
}

func (ReviewState) Fields() []ent.Field {
	return []ent.Field{
		field.String("user_id").NotEmpty(),
		field.String("item_id").NotEmpty(),
		field.Float("easiness"),
		field.Float("interval_days"),
		field.Int("consecutive_correct"),
		field.String("next_review_date").
			Comment("Calendar date, YYYY-MM-DD"),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

func (ReviewState) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "item_id").Unique(),
		index.Fields("user_id", "next_review_date"),
	}
}
