package domain

// Query is a free-text question plus its derived normalized terms.
// Terms keep their original order and duplicates so term frequency in the
// query contributes to scoring. A query with zero terms is valid and simply
// matches nothing.
type Query struct {
	Raw   string
	Terms []string
}

// IsEmpty reports whether normalization produced no usable terms.
func (q *Query) IsEmpty() bool { return len(q.Terms) == 0 }
