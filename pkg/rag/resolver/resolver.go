// Package resolver picks the uploaded document that answers a chat query.
//
// Relevance is a literal substring test and the first document that passes
// wins. Callers depend on that single deterministic match, so a ranked
// Matcher must keep returning at most one document.
package resolver

import (
	"context"
	"fmt"
	"strings"

	"docchat-be/internal/repository/contract"
)

// Matcher decides whether a document text is relevant to a query.
// Ranking or semantic matching would plug in here.
type Matcher interface {
	Match(query, text string) bool
}

type SubstringMatcher struct{}

// Match is true for an empty query, including against an empty text.
func (SubstringMatcher) Match(query, text string) bool {
	return strings.Contains(text, query)
}

type ContextResolver struct {
	documents contract.DocumentRepository
	matcher   Matcher
}

func NewContextResolver(documents contract.DocumentRepository) *ContextResolver {
	return &ContextResolver{documents: documents, matcher: SubstringMatcher{}}
}

func (r *ContextResolver) WithMatcher(m Matcher) *ContextResolver {
	return &ContextResolver{documents: r.documents, matcher: m}
}

// Resolve returns the full text of the first matching document, or "".
//
// A nil restrictTo searches every stored document in listing order. A non-nil
// restrictTo searches only those identifiers, in the given order, skipping
// ones with no stored text; an empty non-nil slice therefore matches nothing.
func (r *ContextResolver) Resolve(ctx context.Context, query string, restrictTo []string) (string, error) {
	identifiers := restrictTo
	if identifiers == nil {
		docs, err := r.documents.ListDocuments(ctx)
		if err != nil {
			return "", fmt.Errorf("list documents: %w", err)
		}
		identifiers = make([]string, 0, len(docs))
		for _, d := range docs {
			identifiers = append(identifiers, d.Identifier)
		}
	}

	for _, id := range identifiers {
		text, found := r.documents.ReadDocument(ctx, id)
		if !found {
			continue
		}
		if r.matcher.Match(query, text) {
			return text, nil
		}
	}
	return "", nil
}
