package model

// Outcome is one provider's result within a report: either the data it
// returned or the reason it is unavailable.
type Outcome[T any] struct {
	Provider string `json:"provider"`
	Label    string `json:"label"`
	Slug     string `json:"slug,omitempty"`
	Data     *T     `json:"data,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// Ok builds an available outcome.
func Ok[T any](provider, label, slug string, data *T) Outcome[T] {
	return Outcome[T]{Provider: provider, Label: label, Slug: slug, Data: data}
}

// Unavailable builds an outcome for a provider that could not deliver.
func Unavailable[T any](provider, label, slug, reason string) Outcome[T] {
	if reason == "" {
		reason = "unknown error"
	}
	return Outcome[T]{Provider: provider, Label: label, Slug: slug, Reason: reason}
}

// Available reports whether the outcome carries data.
func (o Outcome[T]) Available() bool {
	return o.Reason == "" && o.Data != nil
}
