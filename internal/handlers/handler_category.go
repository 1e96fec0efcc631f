package handlers

import (
	"net/http"

	portssvc "github.com/hotwellkz/app66/internal/core/ports/services"
	"github.com/hotwellkz/app66/internal/dto"
	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categoryService portssvc.CategorySvcFacade
}

func NewCategoryHandler(categoryService portssvc.CategorySvcFacade) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategory creates a new category bucket.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCategoryResponse(category))
}

// GetCategory retrieves a single category.
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	categoryID := c.Param("categoryID")

	category, err := h.categoryService.GetCategoryByID(c.Request.Context(), categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryResponse(category))
}

// ListCategories returns categories ordered by display row. Hidden categories
// are included only when includeHidden=true.
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	includeHidden := c.Query("includeHidden") == "true"

	categories, err := h.categoryService.ListCategories(c.Request.Context(), includeHidden)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryResponses(categories))
}
