package health

import (
	"net/http"

	"github.com/mlylp/Catlogodeprodutospeixaria/internal/transport/http/response"
)

func Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Server is running",
	})
}
