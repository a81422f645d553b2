package model

// Todo is a to-do list item.
type Todo struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
	Completed bool   `json:"completed"`
}
