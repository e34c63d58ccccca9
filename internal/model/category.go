package model

// Category groups documents. Names are unique case-insensitively; the
// uniqueness check lives in the service layer, not in the store.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
