// Package service coordinates the recommendation pipeline: profile lookup,
// query rendering, retrieval and prompt dispatch.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"compass/internal/domain"
	"compass/internal/index"
	"compass/internal/query"
)

// DefaultTopK is the retrieval depth used when none is configured.
const DefaultTopK = 3

// Engine produces a single product recommendation per request. All fields
// are read-only after construction, so an Engine is safe for concurrent use.
type Engine struct {
	profiles  domain.ProfileSource
	embedder  domain.Embedder
	index     *index.Flat
	documents []domain.ProductDocument
	generator domain.Generator
	topK      int
}

// NewEngine assembles a recommendation engine. The index and document list
// are positionally coupled, so a size mismatch between them is rejected
// here rather than surfacing later as a wrong retrieval.
func NewEngine(
	profiles domain.ProfileSource,
	embedder domain.Embedder,
	idx *index.Flat,
	documents []domain.ProductDocument,
	generator domain.Generator,
	topK int,
) (*Engine, error) {
	if idx.Len() != len(documents) {
		return nil, fmt.Errorf("index holds %d vectors but corpus has %d documents; regenerate both artifacts together", idx.Len(), len(documents))
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Engine{
		profiles:  profiles,
		embedder:  embedder,
		index:     idx,
		documents: documents,
		generator: generator,
		topK:      topK,
	}, nil
}

// Recommend resolves the customer's profile, retrieves the nearest product
// descriptions and asks the generation service to justify a single choice.
// The retrieved documents are returned alongside the text for auditing.
func (e *Engine) Recommend(ctx context.Context, customerID int) (domain.RecommendationResult, error) {
	profile, err := e.profiles.Lookup(customerID)
	if err != nil {
		return domain.RecommendationResult{}, err
	}

	queryText := query.Build(profile)
	vectors, err := e.embedder.Embed(ctx, []string{queryText})
	if err != nil {
		return domain.RecommendationResult{}, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return domain.RecommendationResult{}, fmt.Errorf("embed query: expected 1 vector, got %d", len(vectors))
	}

	hits, err := e.index.Search(vectors[0], e.topK)
	if err != nil {
		return domain.RecommendationResult{}, fmt.Errorf("search index: %w", err)
	}
	retrieved := make([]domain.ProductDocument, len(hits))
	for i, hit := range hits {
		retrieved[i] = e.documents[hit.Position]
	}
	slog.Debug("retrieved products", "customer_id", customerID, "count", len(retrieved))

	text, err := e.generator.Complete(ctx, buildPrompt(queryText, retrieved))
	if err != nil {
		return domain.RecommendationResult{}, err
	}
	return domain.RecommendationResult{Text: text, Retrieved: retrieved}, nil
}

// buildPrompt assembles the generation request. The retrieved documents are
// numbered in retrieval order, closest first; that ordering signals relative
// relevance to the model and must not be disturbed.
func buildPrompt(queryText string, retrieved []domain.ProductDocument) string {
	var b strings.Builder
	b.WriteString("You are an expert banking relationship manager. Your task is to recommend the single best product for a customer based on their profile and a list of relevant products.\n\n")
	b.WriteString("**Customer Profile:**\n")
	b.WriteString(queryText)
	b.WriteString("\n\n**Relevant Products (from our knowledge base):**\n")
	for i, doc := range retrieved {
		fmt.Fprintf(&b, "%d. %s\n", i+1, doc.Text)
	}
	b.WriteString("\n**Your Task:**\n")
	b.WriteString("Based on all of this information, what is the single best product to recommend to this customer?\n")
	b.WriteString("Provide a concise, one-paragraph justification explaining *why* it's the best fit, referencing the customer's profile.\n\n")
	b.WriteString("**Recommendation:**\n")
	return b.String()
}
