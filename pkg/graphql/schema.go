// Package graphql holds the schema helper for the read-only GraphQL API.
package graphql

import (
	"github.com/graphql-go/graphql"
)

// NewSchema creates a GraphQL schema from the provided root query object.
// The POS exposes queries only; there is no mutation root.
func NewSchema(query *graphql.Object) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query: query,
	})
}
