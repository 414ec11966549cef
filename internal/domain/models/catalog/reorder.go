package catalog

// ReorderItem assigns a new order to one chapter or lesson.
// Order is a pointer so a missing value can be told apart from 0.
type ReorderItem struct {
	ID    string `json:"id"`
	Order *int   `json:"order"`
}
