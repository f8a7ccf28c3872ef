package domain

import "context"

// ProductDocument is a single product description from the knowledge base.
// ID is the document's position in the corpus and doubles as its position
// in the vector index.
type ProductDocument struct {
	ID   int
	Text string
}

// CustomerProfile is one row of the externally produced customer dataset.
// The feature pipeline owns these fields; compass only reads them.
type CustomerProfile struct {
	CustomerID        int
	Age               int
	Income            float64
	CreditScore       int
	DebtToIncomeRatio float64
	ExistingProducts  string
	ProductCount      int
	EngagementScore   int
	EmploymentStatus  string
}

// SearchResult is a single nearest-neighbor hit: the position of the stored
// vector (== ProductDocument.ID) and its squared Euclidean distance to the
// query.
type SearchResult struct {
	Position int
	Distance float32
}

// RecommendationResult carries the generated recommendation together with
// the documents that were retrieved to produce it, in retrieval order.
type RecommendationResult struct {
	Text      string
	Retrieved []ProductDocument
}

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimensions() int
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// ProfileSource resolves customer profiles by identifier.
type ProfileSource interface {
	Lookup(customerID int) (CustomerProfile, error)
}

// Generator dispatches an assembled prompt to the external language-model
// service and returns a single completion.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Recommender defines the operation exposed by the application core.
type Recommender interface {
	Recommend(ctx context.Context, customerID int) (RecommendationResult, error)
}
