package domain

// Catalog field names as stored in the hosted index.
const (
	FieldID               = "id"
	FieldName             = "name"
	FieldBrand            = "brand"
	FieldDescription      = "description"
	FieldPrice            = "price"
	FieldImageURL         = "imageUrl"
	FieldImageCaption     = "imageCaption"
	FieldImageDescription = "imageDescription"
	FieldImageTags        = "imageTags"
	// FieldEmbedding is the vector field used for k-NN matching only.
	// It is written by the catalog loader and never selected back.
	FieldEmbedding = "embedding"
)

// SearchableFields lists the text fields a lexical query may be restricted to.
func SearchableFields() []string {
	return []string{
		FieldName, FieldBrand, FieldDescription,
		FieldImageCaption, FieldImageDescription, FieldImageTags,
	}
}

// SelectFields lists the fields retrieved for every hit (vector excluded).
func SelectFields() []string {
	return []string{
		FieldID, FieldName, FieldBrand, FieldDescription, FieldPrice,
		FieldImageURL, FieldImageCaption, FieldImageDescription, FieldImageTags,
	}
}

// ProductRecord is the unit of retrieval. Instances are transient: rebuilt
// from backend responses on every call and never mutated afterwards.
// Score is only meaningful within a single query execution.
type ProductRecord struct {
	ID               string   `json:"id"`
	Name             string   `json:"name,omitempty"`
	Brand            string   `json:"brand,omitempty"`
	Description      string   `json:"description,omitempty"`
	Price            *int     `json:"price,omitempty"`
	ImageURL         string   `json:"imageUrl,omitempty"`
	ImageCaption     string   `json:"imageCaption,omitempty"`
	ImageDescription string   `json:"imageDescription,omitempty"`
	ImageTags        []string `json:"imageTags"`
	Score            *float64 `json:"score,omitempty"`
	RerankerScore    *float64 `json:"rerankerScore,omitempty"`
}

// ProductFromDoc normalizes a raw backend document into a ProductRecord.
// Missing fields default to empty values instead of erroring; ImageTags is
// always non-nil. All payload access goes through this one function.
func ProductFromDoc(doc map[string]any) ProductRecord {
	p := ProductRecord{
		ID:               stringField(doc, FieldID),
		Name:             stringField(doc, FieldName),
		Brand:            stringField(doc, FieldBrand),
		Description:      stringField(doc, FieldDescription),
		ImageURL:         stringField(doc, FieldImageURL),
		ImageCaption:     stringField(doc, FieldImageCaption),
		ImageDescription: stringField(doc, FieldImageDescription),
		ImageTags:        stringsField(doc, FieldImageTags),
	}
	if v, ok := intField(doc, FieldPrice); ok && v >= 0 {
		p.Price = &v
	}
	if v, ok := floatField(doc, "@search.score"); ok {
		p.Score = &v
	}
	if v, ok := floatField(doc, "@search.rerankerScore"); ok {
		p.RerankerScore = &v
	}
	return p
}

func stringField(doc map[string]any, key string) string {
	s, _ := doc[key].(string)
	return s
}

// stringsField tolerates both []string and []any (JSON decoding yields the latter).
func stringsField(doc map[string]any, key string) []string {
	switch v := doc[key].(type) {
	case []string:
		if v == nil {
			return []string{}
		}
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

func intField(doc map[string]any, key string) (int, bool) {
	switch v := doc[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func floatField(doc map[string]any, key string) (float64, bool) {
	switch v := doc[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}
