package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/Blawness/SimplePOS/app/repositories"
	"github.com/Blawness/SimplePOS/pkg/bind"
	gqlschema "github.com/Blawness/SimplePOS/pkg/graphql"
	"github.com/Blawness/SimplePOS/pkg/response"
)

// GraphQLController exposes a read-only query API over the catalog and the
// sales ledger for reporting integrations.
type GraphQLController struct {
	schema graphql.Schema
}

func NewGraphQLController() *GraphQLController {
	products := repositories.NewProductRepository()
	categories := repositories.NewCategoryRepository()
	transactions := repositories.NewTransactionRepository()

	categoryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: graphql.Fields{
			"id":   &graphql.Field{Type: graphql.Int},
			"name": &graphql.Field{Type: graphql.String},
		},
	})

	productType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.Int},
			"name":     &graphql.Field{Type: graphql.String},
			"price":    &graphql.Field{Type: graphql.Int},
			"stock":    &graphql.Field{Type: graphql.Int},
			"image":    &graphql.Field{Type: graphql.String},
			"category": &graphql.Field{Type: categoryType},
		},
	})

	transactionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Transaction",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.Int},
			"total":     &graphql.Field{Type: graphql.Int},
			"createdAt": &graphql.Field{Type: graphql.DateTime},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return products.All()
				},
			},
			"categories": &graphql.Field{
				Type: graphql.NewList(categoryType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return categories.All()
				},
			},
			"transactions": &graphql.Field{
				Type: graphql.NewList(transactionType),
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{
						Type:         graphql.Int,
						DefaultValue: 50,
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					limit, _ := p.Args["limit"].(int)
					return transactions.Recent(limit)
				},
			},
		},
	})

	// A schema that fails to build is a programming error; surface it at
	// boot instead of answering every query with a broken zero schema.
	schema, err := gqlschema.NewSchema(query)
	if err != nil {
		panic(fmt.Sprintf("graphql schema build failed: %v", err))
	}
	return &GraphQLController{schema: schema}
}

// Query executes one GraphQL query. Mutations are not part of the schema, so
// the endpoint cannot write.
func (c *GraphQLController) Query(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query     string                 `json:"query" validate:"required"`
		Variables map[string]interface{} `json:"variables"`
	}
	if errs, err := bind.JSON(r, &body); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         c.schema,
		RequestString:  body.Query,
		VariableValues: body.Variables,
		Context:        r.Context(),
	})

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}
