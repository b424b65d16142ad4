package controllers

import (
	"github.com/Blawness/SimplePOS/app/models"
	"github.com/Blawness/SimplePOS/pkg/resource"
)

// ProductResource shapes product JSON for the API.
type ProductResource struct{ resource.Base }

func (t *ProductResource) ToArray(v interface{}) resource.Map {
	p := v.(models.Product)
	return resource.Map{
		"id":       p.ID,
		"name":     p.Name,
		"price":    p.Price,
		"stock":    p.Stock,
		"image":    p.Image,
		"category": p.Category.Name,
	}
}

// CategoryResource shapes category JSON for the API.
type CategoryResource struct{ resource.Base }

func (t *CategoryResource) ToArray(v interface{}) resource.Map {
	c := v.(models.Category)
	return resource.Map{
		"id":   c.ID,
		"name": c.Name,
	}
}

// UserResource shapes user JSON for the management screens. The password
// hash never leaves the model but the role name is flattened in.
type UserResource struct{ resource.Base }

func (t *UserResource) ToArray(v interface{}) resource.Map {
	u := v.(models.User)
	return resource.Map{
		"id":       u.ID,
		"name":     u.Name,
		"email":    u.Email,
		"username": u.Username,
		"status":   u.Status,
		"role":     u.Role.Name,
	}
}

// TransactionResource shapes one ledger row.
type TransactionResource struct{ resource.Base }

func (t *TransactionResource) ToArray(v interface{}) resource.Map {
	tx := v.(models.Transaction)
	return resource.Map{
		"id":         tx.ID,
		"total":      tx.Total,
		"cashier":    tx.User.Name,
		"created_at": tx.CreatedAt,
	}
}
