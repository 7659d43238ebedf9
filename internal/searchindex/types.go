package searchindex

// Query is the wire shape of one search call.
// Search "*" matches everything; an empty Search with VectorQueries set is a
// pure nearest-neighbor query.
type Query struct {
	Search        string        `json:"search,omitempty"`
	VectorQueries []VectorQuery `json:"vectorQueries,omitempty"`
	SearchFields  []string      `json:"searchFields,omitempty"`
	Select        []string      `json:"select,omitempty"`
	Top           int           `json:"top"`
}

// VectorQuery is one k-nearest-neighbor clause over a named vector field.
type VectorQuery struct {
	Kind   string    `json:"kind"`
	Vector []float32 `json:"vector"`
	K      int       `json:"k"`
	Fields string    `json:"fields"`
}

// NewVectorQuery builds a KNN clause for the given vector field.
func NewVectorQuery(vector []float32, k int, field string) VectorQuery {
	return VectorQuery{Kind: "vector", Vector: vector, K: k, Fields: field}
}

// UploadResult is the per-document outcome of a batch upload.
type UploadResult struct {
	Key          string `json:"key"`
	Succeeded    bool   `json:"status"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	StatusCode   int    `json:"statusCode"`
}

type queryResponse struct {
	Value []map[string]any `json:"value"`
}

type uploadRequest struct {
	Value []map[string]any `json:"value"`
}

type uploadResponse struct {
	Value []UploadResult `json:"value"`
}
