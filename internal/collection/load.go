package collection

import (
	"context"
	stderrors "errors"
)

// Load reads every entry of b and parses it with b's schema. Schema
// problems do not stop loading; they are returned alongside the documents
// that passed. A loader failure is returned as err.
func Load(ctx context.Context, b Binding) (docs []Document, problems []*SchemaError, err error) {
	entries, err := b.Loader.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	schema := b.Schema
	if schema == nil {
		schema = PassthroughSchema{}
	}
	docs = make([]Document, 0, len(entries))
	for _, e := range entries {
		data, perr := schema.Parse(e)
		if perr != nil {
			var se *SchemaError
			if stderrors.As(perr, &se) {
				problems = append(problems, se)
				continue
			}
			return nil, nil, perr
		}
		docs = append(docs, Document{Entry: e, Data: data})
	}
	return docs, problems, nil
}

// Index maps public slugs to documents.
type Index map[string]Document

// NewIndex indexes docs by Document.Slug.
func NewIndex(docs []Document) Index {
	idx := make(Index, len(docs))
	for _, d := range docs {
		idx[d.Slug()] = d
	}
	return idx
}
