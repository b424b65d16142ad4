package controllers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Blawness/SimplePOS/app/controllers"
)

func TestNewGraphQLControllerBuildsSchema(t *testing.T) {
	// The schema is assembled from static type definitions; construction
	// must succeed without touching configuration or the database.
	var ctl *controllers.GraphQLController
	assert.NotPanics(t, func() { ctl = controllers.NewGraphQLController() })
	assert.NotNil(t, ctl)
}
