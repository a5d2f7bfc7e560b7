package transform

// ErrorCollection accumulates validation failures keyed by field id. All
// independent validations run and report; nothing fails fast, so a single
// bad field never hides problems elsewhere in the form.
type ErrorCollection struct {
	errs  map[string][]string
	order []string
}

// NewErrorCollection returns an empty collection.
func NewErrorCollection() *ErrorCollection {
	return &ErrorCollection{errs: make(map[string][]string)}
}

// Add records a message key against a field id.
func (c *ErrorCollection) Add(fieldID, messageKey string) {
	if _, seen := c.errs[fieldID]; !seen {
		c.order = append(c.order, fieldID)
	}
	c.errs[fieldID] = append(c.errs[fieldID], messageKey)
}

// HasErrors reports whether anything was recorded.
func (c *ErrorCollection) HasErrors() bool {
	return len(c.errs) > 0
}

// Field returns the message keys recorded for a field id, in order.
func (c *ErrorCollection) Field(fieldID string) []string {
	return append([]string(nil), c.errs[fieldID]...)
}

// Fields returns every field id with at least one error, in first-error
// order.
func (c *ErrorCollection) Fields() []string {
	return append([]string(nil), c.order...)
}
