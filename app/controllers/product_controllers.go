package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/supermart/app/models"
	"github.com/shashiranjanraj/supermart/app/repositories"
	"github.com/shashiranjanraj/supermart/pkg/bind"
	"github.com/shashiranjanraj/supermart/pkg/event"
	"github.com/shashiranjanraj/supermart/pkg/logger"
	"github.com/shashiranjanraj/supermart/pkg/middleware"
	"github.com/shashiranjanraj/supermart/pkg/response"
)

type ProductController struct {
	products repositories.ProductRepository
}

func NewProductController(products repositories.ProductRepository) *ProductController {
	return &ProductController{products: products}
}

// Index lists all products.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	prods, err := c.products.All(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("list products", "error", err)
		response.Error(w, http.StatusInternalServerError, "Server error: "+err.Error())
		return
	}
	response.Success(w, prods)
}

// Show returns one product by id. The id is shape-checked before any
// store lookup.
func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		response.Message(w, http.StatusBadRequest, "Invalid product ID.")
		return
	}

	prod, err := c.products.Find(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			response.NotFound(w, "Product not found.")
			return
		}
		logger.WithCtx(r.Context()).Error("find product", "error", err)
		response.Error(w, http.StatusInternalServerError, "Server error: "+err.Error())
		return
	}
	response.Success(w, prod)
}

// Store creates a product for the authenticated caller. The controller
// only checks name and price presence; the store's write-time validation
// enforces the remaining required fields.
func (c *ProductController) Store(w http.ResponseWriter, r *http.Request) {
	body, err := bind.Map(r)
	if err != nil {
		response.Message(w, http.StatusBadRequest, "Name and price are required.")
		return
	}

	if !present(body, "name") || !present(body, "price") {
		response.Message(w, http.StatusBadRequest, "Name and price are required.")
		return
	}

	uid, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Message(w, http.StatusUnauthorized, "Unauthorized. Please log in.")
		return
	}

	patch, err := models.ProductPatchFromBody(body)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Failed to create product. "+err.Error())
		return
	}

	createdBy, _ := primitive.ObjectIDFromHex(uid)

	prod, err := c.products.Create(r.Context(), patch, createdBy)
	if err != nil {
		var ve *repositories.ValidationError
		if errors.As(err, &ve) {
			response.Error(w, http.StatusBadRequest, "Failed to create product. "+ve.Error())
			return
		}
		logger.WithCtx(r.Context()).Error("create product", "error", err)
		response.Error(w, http.StatusInternalServerError, "Server error: "+err.Error())
		return
	}

	event.Fire("product.created", *prod)
	response.Created(w, prod)
}

// Update applies a partial update. Numeric fields present in the body
// must coerce to numbers before the store is touched.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		response.Message(w, http.StatusBadRequest, "Invalid product ID format.")
		return
	}

	body, err := bind.Map(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if present(body, "price") && !models.IsNumeric(body["price"]) {
		response.Message(w, http.StatusBadRequest, "Price must be a number.")
		return
	}
	if present(body, "quantity") && !models.IsNumeric(body["quantity"]) {
		response.Message(w, http.StatusBadRequest, "Quantity must be a number.")
		return
	}

	patch, err := models.ProductPatchFromBody(body)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Server error: "+err.Error())
		return
	}

	prod, err := c.products.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			response.NotFound(w, "Product not found.")
			return
		}
		var ve *repositories.ValidationError
		if errors.As(err, &ve) {
			response.Error(w, http.StatusInternalServerError, "Server error: "+ve.Error())
			return
		}
		logger.WithCtx(r.Context()).Error("update product", "error", err)
		response.Error(w, http.StatusInternalServerError, "Server error: "+err.Error())
		return
	}

	event.Fire("product.updated", *prod)
	response.Success(w, prod)
}

// Destroy deletes a product by id.
func (c *ProductController) Destroy(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		response.Message(w, http.StatusBadRequest, "Invalid product ID format.")
		return
	}

	if err := c.products.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			response.NotFound(w, "Product not found.")
			return
		}
		logger.WithCtx(r.Context()).Error("delete product", "error", err)
		response.Error(w, http.StatusInternalServerError, "Server error: "+err.Error())
		return
	}

	event.Fire("product.deleted", id.Hex())
	response.Message(w, http.StatusOK, "Deleted successfully")
}

// present reports whether the body carries a non-null value for key.
func present(body map[string]interface{}, key string) bool {
	v, ok := body[key]
	return ok && v != nil
}
