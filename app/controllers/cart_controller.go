package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Blawness/SimplePOS/app/repositories"
	"github.com/Blawness/SimplePOS/app/services"
	"github.com/Blawness/SimplePOS/pkg/bind"
	"github.com/Blawness/SimplePOS/pkg/cart"
	"github.com/Blawness/SimplePOS/pkg/checkout"
	"github.com/Blawness/SimplePOS/pkg/logger"
	"github.com/Blawness/SimplePOS/pkg/middleware"
	"github.com/Blawness/SimplePOS/pkg/response"
)

// CartController serves the cart and the checkout flow for the active
// session. Checkout state lives in its own store keyed by the cart session.
type CartController struct {
	products     *repositories.ProductRepository
	transactions *services.TransactionService
	checkouts    *checkout.Store
}

func NewCartController() *CartController {
	return &CartController{
		products:     repositories.NewProductRepository(),
		transactions: services.NewTransactionService(repositories.NewTransactionRepository()),
		checkouts:    checkout.NewStore(),
	}
}

// cartPayload is the cart with its running totals, tax included so the
// frontend can show the amount due before checkout begins.
func cartPayload(c *cart.Cart) map[string]interface{} {
	subtotal := c.Subtotal()
	tax := checkout.Tax(subtotal)
	return map[string]interface{}{
		"items":    c.Items,
		"count":    c.Count(),
		"subtotal": subtotal,
		"tax":      tax,
		"total":    subtotal + tax,
	}
}

// Show returns the session's cart.
func (c *CartController) Show(w http.ResponseWriter, r *http.Request) {
	response.Success(w, cartPayload(cart.FromCtx(r)))
}

// AddItem puts one unit of a product in the cart. Adding a product already
// in the cart increments its quantity. The price is captured now and later
// catalog edits do not change it.
func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProductID uint `json:"product_id" validate:"required"`
	}
	if errs, err := bind.JSON(r, &body); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.products.Find(body.ProductID)
	if err != nil {
		response.NotFound(w)
		return
	}
	if product.Stock <= 0 {
		response.ValidationError(w, map[string]string{"product_id": "product is out of stock"})
		return
	}

	ct := cart.FromCtx(r)
	ct.Add(product)
	if err := cart.Persist(r); err != nil {
		logger.Error("cart save failed", "error", err)
		response.ServerError(w)
		return
	}
	response.Success(w, cartPayload(ct))
}

// UpdateItem sets an item's quantity. Zero or below removes the item.
func (c *CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid product id")
		return
	}
	var body struct {
		Quantity int `json:"quantity"`
	}
	if _, err := bind.JSON(r, &body); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	}

	ct := cart.FromCtx(r)
	ct.UpdateQuantity(id, body.Quantity)
	if err := cart.Persist(r); err != nil {
		logger.Error("cart save failed", "error", err)
		response.ServerError(w)
		return
	}
	response.Success(w, cartPayload(ct))
}

// RemoveItem takes a product out of the cart.
func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid product id")
		return
	}
	ct := cart.FromCtx(r)
	ct.Remove(id)
	if err := cart.Persist(r); err != nil {
		logger.Error("cart save failed", "error", err)
		response.ServerError(w)
		return
	}
	response.Success(w, cartPayload(ct))
}

// Clear empties the cart.
func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	ct := cart.FromCtx(r)
	ct.Clear()
	if err := cart.Persist(r); err != nil {
		logger.Error("cart save failed", "error", err)
		response.ServerError(w)
		return
	}
	response.Success(w, cartPayload(ct))
}

// Checkout snapshots the cart and records the sale in one request. A failed
// recording leaves the checkout FAILED with its snapshot intact so the
// cashier can retry without rebuilding the cart.
func (c *CartController) Checkout(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	var body struct {
		OrderName     string `json:"order_name" validate:"required,max=100"`
		PaymentMethod string `json:"payment_method" validate:"required"`
	}
	if errs, err := bind.JSON(r, &body); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	method, err := checkout.ParsePaymentMethod(body.PaymentMethod)
	if err != nil {
		response.ValidationError(w, map[string]string{"payment_method": "must be cash, qris or debit"})
		return
	}

	session := cart.SessionID(r)
	ct := cart.FromCtx(r)
	co := c.checkouts.Load(session)

	if err := co.Begin(ct, body.OrderName, method); err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			response.ValidationError(w, map[string]string{"cart": "cart is empty"})
		case errors.Is(err, checkout.ErrInvalidTransition):
			response.BadRequest(w, "a checkout is already in progress")
		default:
			response.BadRequest(w, err.Error())
		}
		return
	}

	if _, err := co.Confirm(r.Context(), c.transactions, user.ID); err != nil {
		logger.Error("checkout failed", "error", err, "user", user.ID)
	}
	if err := c.checkouts.Save(session, co); err != nil {
		logger.Error("checkout save failed", "error", err)
		response.ServerError(w)
		return
	}
	response.Success(w, co)
}

// Dismiss closes the receipt dialog. After a successful sale the cart is
// cleared; after a failure it is kept for the retry.
func (c *CartController) Dismiss(w http.ResponseWriter, r *http.Request) {
	session := cart.SessionID(r)
	ct := cart.FromCtx(r)
	co := c.checkouts.Load(session)

	if err := co.Dismiss(ct); err != nil {
		response.BadRequest(w, "nothing to dismiss")
		return
	}
	if err := cart.Persist(r); err != nil {
		logger.Error("cart save failed", "error", err)
		response.ServerError(w)
		return
	}
	if err := c.checkouts.Save(session, co); err != nil {
		logger.Error("checkout save failed", "error", err)
		response.ServerError(w)
		return
	}
	response.Success(w, map[string]interface{}{
		"checkout": co,
		"cart":     cartPayload(ct),
	})
}

// Receipt renders the last checkout's snapshot as a printable text receipt.
func (c *CartController) Receipt(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	co := c.checkouts.Load(cart.SessionID(r))
	if co.Snapshot == nil {
		response.NotFound(w)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(co.Snapshot.Receipt(user.Name, time.Now())))
}
