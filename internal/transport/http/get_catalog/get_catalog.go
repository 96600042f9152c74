package getcatalog

import (
	"net/http"

	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/models/catalog"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/transport/http/response"
)

type catalogResponse struct {
	Success    bool               `json:"success"`
	Categories []catalog.Category `json:"categories"`
}

// GetCatalog serves the configured product categories.
func GetCatalog(w http.ResponseWriter, r *http.Request, c catalog.Catalog) {
	response.JSON(w, r, http.StatusOK, catalogResponse{
		Success:    true,
		Categories: c.Categories,
	})
}
