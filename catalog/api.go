package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"newsstand/recipe"
	"newsstand/store"
)

// APIServer represents the HTTP API server for the recipe catalog.
type APIServer struct {
	catalog *Catalog
}

// NewAPIServer creates a new catalog API server.
func NewAPIServer(catalog *Catalog) *APIServer {
	return &APIServer{
		catalog: catalog,
	}
}

// SetupRouter configures the Gin router with all catalog API routes.
func (s *APIServer) SetupRouter() *gin.Engine {
	router := gin.Default()

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})

	api := router.Group("/api/v1")
	api.GET("/recipes", s.HandleListRecipes)
	api.GET("/recipes/:ref", s.HandleGetRecipe)
	api.GET("/recipes/:ref/export", s.HandleExportRecipe)
	api.POST("/recipes", s.HandleCreateRecipe)
	api.PUT("/recipes/:ref", s.HandleUpdateRecipe)
	api.DELETE("/recipes/:ref", s.HandleDeleteRecipe)

	meta := router.Group("/api/v1/meta")
	meta.GET("/defaults", s.HandleGetDefaults)
	meta.PUT("/defaults", s.HandleUpdateDefaults)

	return router
}

// ListRecipesResponse represents the response for GET /api/v1/recipes.
type ListRecipesResponse struct {
	Recipes []Entry `json:"recipes"`
	Total   int     `json:"total"`
}

// CreateRecipeRequest represents the request for POST /api/v1/recipes.
// The descriptor is kept raw so its shape errors surface through the
// descriptor decoder rather than generic binding failures.
type CreateRecipeRequest struct {
	Slug       string          `json:"slug,omitempty"`
	Descriptor json.RawMessage `json:"descriptor" binding:"required"`
}

// errorResponse creates a standardized error response.
func errorResponse(code, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}

// handleError maps domain errors to HTTP responses.
func (s *APIServer) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound) || errors.Is(err, store.ErrRecipeNotFound):
		c.JSON(http.StatusNotFound, errorResponse("not_found", err.Error()))
	case errors.Is(err, store.ErrDuplicateSlug):
		c.JSON(http.StatusConflict, errorResponse("conflict", err.Error()))
	case errors.Is(err, ErrBuiltinReadOnly):
		c.JSON(http.StatusForbidden, errorResponse("builtin_read_only", err.Error()))
	case errors.Is(err, recipe.ErrMalformedDescriptor),
		errors.Is(err, recipe.ErrInvalidDescriptor),
		errors.Is(err, store.ErrInvalidSlug),
		errors.Is(err, ErrUnknownFormat):
		c.JSON(http.StatusBadRequest, errorResponse("validation_error", err.Error()))
	case errors.Is(err, ErrNoStore):
		c.JSON(http.StatusServiceUnavailable, errorResponse("no_store", err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to process request"))
	}
}

// HandleListRecipes handles GET /api/v1/recipes.
func (s *APIServer) HandleListRecipes(c *gin.Context) {
	filter := Filter{
		Language: c.Query("language"),
		Tag:      c.Query("tag"),
	}

	switch origin := c.Query("origin"); origin {
	case "":
	case string(OriginBuiltin), string(OriginCustom):
		filter.Origin = Origin(origin)
	default:
		c.JSON(http.StatusBadRequest, errorResponse("validation_error", "origin must be builtin or custom"))
		return
	}

	entries, err := s.catalog.List(filter)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListRecipesResponse{
		Recipes: entries,
		Total:   len(entries),
	})
}

// HandleGetRecipe handles GET /api/v1/recipes/{ref}.
func (s *APIServer) HandleGetRecipe(c *gin.Context) {
	entry, err := s.catalog.Resolve(c.Param("ref"))
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// HandleExportRecipe handles GET /api/v1/recipes/{ref}/export. The format
// query selects yaml (default) or json.
func (s *APIServer) HandleExportRecipe(c *gin.Context) {
	format := c.DefaultQuery("format", FormatYAML)

	data, err := s.catalog.Export(c.Param("ref"), format)
	if err != nil {
		s.handleError(c, err)
		return
	}

	contentType := "application/yaml; charset=utf-8"
	if format == FormatJSON {
		contentType = "application/json; charset=utf-8"
	}
	c.Data(http.StatusOK, contentType, data)
}

// HandleCreateRecipe handles POST /api/v1/recipes.
func (s *APIServer) HandleCreateRecipe(c *gin.Context) {
	var req CreateRecipeRequest

	// Bind JSON -- Gin validates required fields automatically
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("validation_error", err.Error()))
		return
	}

	d, err := recipe.DecodeJSON(req.Descriptor)
	if err != nil {
		s.handleError(c, err)
		return
	}

	entry, err := s.catalog.Create(req.Slug, *d)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// HandleUpdateRecipe handles PUT /api/v1/recipes/{ref}. The body is the
// replacement descriptor document itself.
func (s *APIServer) HandleUpdateRecipe(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("bad_request", "Failed to read request body"))
		return
	}

	d, err := recipe.DecodeJSON(body)
	if err != nil {
		s.handleError(c, err)
		return
	}

	entry, err := s.catalog.Update(c.Param("ref"), *d)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// HandleDeleteRecipe handles DELETE /api/v1/recipes/{ref}.
func (s *APIServer) HandleDeleteRecipe(c *gin.Context) {
	if err := s.catalog.Delete(c.Param("ref")); err != nil {
		s.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// HandleGetDefaults handles GET /api/v1/meta/defaults.
func (s *APIServer) HandleGetDefaults(c *gin.Context) {
	st := s.catalog.Store()
	if st == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse("no_store", ErrNoStore.Error()))
		return
	}

	defaults, err := st.Defaults()
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to retrieve defaults"))
		return
	}

	c.JSON(http.StatusOK, defaults)
}

// HandleUpdateDefaults handles PUT /api/v1/meta/defaults. Omitted fields
// keep their current values.
func (s *APIServer) HandleUpdateDefaults(c *gin.Context) {
	st := s.catalog.Store()
	if st == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse("no_store", ErrNoStore.Error()))
		return
	}

	defaults, err := st.Defaults()
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to retrieve defaults"))
		return
	}

	// Binding over the current values gives patch semantics: keys absent
	// from the body keep what the store already has
	if err := c.ShouldBindJSON(&defaults); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("bad_request", err.Error()))
		return
	}

	if err := validateDefaults(defaults); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("validation_error", err.Error()))
		return
	}

	if err := st.SetDefaults(defaults); err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to update defaults"))
		return
	}

	c.JSON(http.StatusOK, defaults)
}

// validateDefaults checks authoring defaults before persisting them.
func validateDefaults(d store.Defaults) error {
	if d.Language != "" {
		if _, err := recipe.ParseLanguage(d.Language); err != nil {
			return errors.New("invalid language: must be a locale tag like en or en_GB")
		}
	}
	if d.OldestArticleDays <= 0 {
		return errors.New("invalid oldest_article_days: must be positive")
	}
	if d.MaxArticlesPerFeed <= 0 {
		return errors.New("invalid max_articles_per_feed: must be positive")
	}
	return nil
}
