package llm

import "context"

// Purpose labels used in the request log.
const (
	PurposeReadingGen   = "reading-gen"
	PurposeReadingGrade = "reading-grade"

	purposeUnset = "unknown"
)

type purposeKey struct{}

// WithPurpose tags ctx so the logging decorator can attribute the call.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if p, _ := ctx.Value(purposeKey{}).(string); p != "" {
		return p
	}
	return purposeUnset
}
