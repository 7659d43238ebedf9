package domain

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatTurn is one entry of a session transcript. The transcript is
// append-only and owned by the session; nothing here persists it.
type ChatTurn struct {
	Role    string         `json:"role"`
	Content string         `json:"content"`
	Product *ProductRecord `json:"product,omitempty"`
}

// Recommendation pairs a generated message with the product it is grounded
// on. Product is nil when retrieval came back empty or a backend call failed.
type Recommendation struct {
	Message string         `json:"message"`
	Product *ProductRecord `json:"product,omitempty"`
}
