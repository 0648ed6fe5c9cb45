package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/supermart/app/models"
	"github.com/shashiranjanraj/supermart/app/repositories"
	"github.com/shashiranjanraj/supermart/pkg/bind"
	"github.com/shashiranjanraj/supermart/pkg/event"
	"github.com/shashiranjanraj/supermart/pkg/logger"
	"github.com/shashiranjanraj/supermart/pkg/response"
)

type CategoryController struct {
	categories repositories.CategoryRepository
}

func NewCategoryController(categories repositories.CategoryRepository) *CategoryController {
	return &CategoryController{categories: categories}
}

// Index lists all categories, unfiltered and unpaginated.
func (c *CategoryController) Index(w http.ResponseWriter, r *http.Request) {
	cats, err := c.categories.All(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("list categories", "error", err)
		response.Error(w, http.StatusInternalServerError, "Server error: "+err.Error())
		return
	}
	response.Success(w, cats)
}

// Store creates a category. categoryName is required (trimmed) and unique.
func (c *CategoryController) Store(w http.ResponseWriter, r *http.Request) {
	var in struct {
		CategoryName string `json:"categoryName" validate:"required"`
		Description  string `json:"description"`
	}
	if errs, err := bind.JSON(r, &in); err != nil || errs != nil {
		response.Message(w, http.StatusBadRequest, "Category name is required.")
		return
	}

	cat := models.Category{
		CategoryName: strings.TrimSpace(in.CategoryName),
		Description:  in.Description,
	}
	if err := c.categories.Create(r.Context(), &cat); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			response.Message(w, http.StatusBadRequest, "Category name already exists.")
			return
		}
		logger.WithCtx(r.Context()).Error("create category", "error", err)
		response.Error(w, http.StatusInternalServerError, "Server error: "+err.Error())
		return
	}

	event.Fire("category.created", cat)
	response.Created(w, cat)
}

// Update applies a partial update to a category.
func (c *CategoryController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		response.Message(w, http.StatusBadRequest, "Invalid category ID.")
		return
	}

	body, err := bind.Map(r)
	if err != nil {
		response.Message(w, http.StatusBadRequest, "Category name is required.")
		return
	}

	var patch models.CategoryPatch
	if v, ok := body["categoryName"]; ok && v != nil {
		name := strings.TrimSpace(stringField(body, "categoryName"))
		if name == "" {
			response.Message(w, http.StatusBadRequest, "Category name is required.")
			return
		}
		patch.CategoryName = &name
	}
	if v, ok := body["description"]; ok && v != nil {
		desc := stringField(body, "description")
		patch.Description = &desc
	}

	cat, err := c.categories.Update(r.Context(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			response.NotFound(w, "Category not found.")
		case errors.Is(err, repositories.ErrDuplicate):
			response.Message(w, http.StatusBadRequest, "Category name already exists.")
		default:
			var ve *repositories.ValidationError
			if errors.As(err, &ve) {
				response.Message(w, http.StatusBadRequest, ve.Error())
				return
			}
			logger.WithCtx(r.Context()).Error("update category", "error", err)
			response.Error(w, http.StatusInternalServerError, "Server error: "+err.Error())
		}
		return
	}

	event.Fire("category.updated", *cat)
	response.Success(w, cat)
}

// Destroy deletes a category. No cascade: products keep the category name.
func (c *CategoryController) Destroy(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		response.Message(w, http.StatusBadRequest, "Invalid category ID.")
		return
	}

	if err := c.categories.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			response.NotFound(w, "Category not found.")
			return
		}
		logger.WithCtx(r.Context()).Error("delete category", "error", err)
		response.Error(w, http.StatusInternalServerError, "Server error: "+err.Error())
		return
	}

	event.Fire("category.deleted", id.Hex())
	response.Message(w, http.StatusOK, "Category deleted.")
}

func stringField(body map[string]interface{}, key string) string {
	if v, ok := body[key].(string); ok {
		return v
	}
	return ""
}
