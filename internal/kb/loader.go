// Package kb loads the product knowledge base: a UTF-8 text file of product
// descriptions separated by a literal delimiter line.
package kb

import (
	"os"
	"strings"

	"compass/internal/domain"
	"compass/internal/errs"
)

// DefaultDelimiter is the separator line used by the stock products corpus.
const DefaultDelimiter = "--------------------------------"

// Load reads the corpus at path and splits it into product documents.
// Segments are trimmed of surrounding whitespace and empty segments are
// discarded; document IDs follow first-occurrence order.
func Load(path, delimiter string) ([]domain.ProductDocument, error) {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Configuration(err, "knowledge base file %q not readable", path)
	}
	segments := strings.Split(string(data), delimiter)
	docs := make([]domain.ProductDocument, 0, len(segments))
	for _, seg := range segments {
		text := strings.TrimSpace(seg)
		if text == "" {
			continue
		}
		docs = append(docs, domain.ProductDocument{ID: len(docs), Text: text})
	}
	if len(docs) == 0 {
		return nil, errs.Configuration(nil, "knowledge base %q contains no product descriptions", path)
	}
	return docs, nil
}

// Texts returns the raw description texts of docs in order, for embedding.
func Texts(docs []domain.ProductDocument) []string {
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}
	return texts
}
