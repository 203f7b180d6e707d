package store

import (
	"math"

	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const textSize = math.MaxInt32

var (
	// ItemsColumns holds the columns for the "items" table.
	ItemsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "kind", Type: field.TypeString},
		{Name: "prompt", Type: field.TypeString},
		{Name: "meaning", Type: field.TypeString, Default: ""},
		{Name: "pos", Type: field.TypeString, Default: ""},
		{Name: "example_en", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "example_ja", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "synonyms", Type: field.TypeString, Size: textSize, Default: "[]"},
		{Name: "derived", Type: field.TypeString, Size: textSize, Default: "[]"},
		{Name: "choices", Type: field.TypeString, Size: textSize, Default: "[]"},
		{Name: "answer_key", Type: field.TypeString, Default: ""},
		{Name: "reference", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	// ItemsTable holds the schema information for the "items" table.
	ItemsTable = &schema.Table{
		Name:       "items",
		Columns:    ItemsColumns,
		PrimaryKey: []*schema.Column{ItemsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "item_kind", Columns: []*schema.Column{ItemsColumns[1]}},
		},
	}

	// ReviewStatesColumns holds the columns for the "review_states" table.
	ReviewStatesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "item_id", Type: field.TypeString},
		{Name: "easiness", Type: field.TypeFloat64},
		{Name: "interval_days", Type: field.TypeFloat64},
		{Name: "consecutive_correct", Type: field.TypeInt},
		{Name: "next_review_date", Type: field.TypeString},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// ReviewStatesTable holds the schema information for the "review_states" table.
	ReviewStatesTable = &schema.Table{
		Name:       "review_states",
		Columns:    ReviewStatesColumns,
		PrimaryKey: []*schema.Column{ReviewStatesColumns[0]},
		Indexes: []*schema.Index{
			{Name: "reviewstate_user_id_item_id", Unique: true, Columns: []*schema.Column{ReviewStatesColumns[1], ReviewStatesColumns[2]}},
			{Name: "reviewstate_user_id_next_review_date", Columns: []*schema.Column{ReviewStatesColumns[1], ReviewStatesColumns[6]}},
		},
	}

	// BatchesColumns holds the columns for the "batches" table.
	BatchesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "batch_id", Type: field.TypeString, Unique: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "module", Type: field.TypeString},
		{Name: "item_ids", Type: field.TypeString, Size: textSize, Default: "[]"},
		{Name: "created_at", Type: field.TypeTime},
	}
	// BatchesTable holds the schema information for the "batches" table.
	BatchesTable = &schema.Table{
		Name:       "batches",
		Columns:    BatchesColumns,
		PrimaryKey: []*schema.Column{BatchesColumns[0]},
		Indexes: []*schema.Index{
			{Name: "batch_user_id_module_created_at", Columns: []*schema.Column{BatchesColumns[2], BatchesColumns[3], BatchesColumns[5]}},
		},
	}

	// NotebooksColumns holds the columns for the "notebooks" table.
	NotebooksColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString},
		{Name: "description", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	// NotebooksTable holds the schema information for the "notebooks" table.
	NotebooksTable = &schema.Table{
		Name:       "notebooks",
		Columns:    NotebooksColumns,
		PrimaryKey: []*schema.Column{NotebooksColumns[0]},
		Indexes: []*schema.Index{
			{Name: "notebook_user_id_name", Unique: true, Columns: []*schema.Column{NotebooksColumns[1], NotebooksColumns[2]}},
		},
	}

	// NotebookItemsColumns holds the columns for the "notebook_items" table.
	NotebookItemsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "notebook_id", Type: field.TypeString},
		{Name: "item_id", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeTime},
	}
	// NotebookItemsTable holds the schema information for the "notebook_items" table.
	NotebookItemsTable = &schema.Table{
		Name:       "notebook_items",
		Columns:    NotebookItemsColumns,
		PrimaryKey: []*schema.Column{NotebookItemsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "notebookitem_notebook_id_item_id", Unique: true, Columns: []*schema.Column{NotebookItemsColumns[1], NotebookItemsColumns[2]}},
		},
	}

	// StudyLogsColumns holds the columns for the "study_logs" table.
	StudyLogsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "module", Type: field.TypeString},
		{Name: "item_id", Type: field.TypeString, Default: ""},
		{Name: "result", Type: field.TypeString, Size: textSize, Default: "{}"},
		{Name: "created_at", Type: field.TypeTime},
	}
	// StudyLogsTable holds the schema information for the "study_logs" table.
	StudyLogsTable = &schema.Table{
		Name:       "study_logs",
		Columns:    StudyLogsColumns,
		PrimaryKey: []*schema.Column{StudyLogsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "studylog_user_id_module", Columns: []*schema.Column{StudyLogsColumns[1], StudyLogsColumns[2]}},
		},
	}

	// LLMRequestsColumns holds the columns for the "llm_requests" table.
	LLMRequestsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: textSize, Default: ""},
	}
	// LLMRequestsTable holds the schema information for the "llm_requests" table.
	LLMRequestsTable = &schema.Table{
		Name:       "llm_requests",
		Columns:    LLMRequestsColumns,
		PrimaryKey: []*schema.Column{LLMRequestsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequest_purpose", Columns: []*schema.Column{LLMRequestsColumns[4]}},
			{Name: "llmrequest_model", Columns: []*schema.Column{LLMRequestsColumns[3]}},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		ItemsTable,
		ReviewStatesTable,
		BatchesTable,
		NotebooksTable,
		NotebookItemsTable,
		StudyLogsTable,
		LLMRequestsTable,
	}
)
