package listorders

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/models/order"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/transport/http/response"
)

type service interface {
	ListRecentOrders(ctx context.Context, limit int) ([]order.Order, error)
}

type queryOrdersRequest struct {
	Limit int `schema:"limit,omitempty"`
}

type listOrdersResponse struct {
	Success bool          `json:"success"`
	Orders  []order.Order `json:"orders"`
	Count   int           `json:"count"`
}

// ListOrders handles the staff listing. A limit that does not parse is
// treated as absent.
func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	query := &queryOrdersRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		slog.DebugContext(r.Context(), "Ignoring malformed limit", "error", err)
		query.Limit = 0
	}

	orders, err := service.ListRecentOrders(r.Context(), query.Limit)
	if err != nil {
		response.Error(w, r, "Failed to fetch orders", err)

		return
	}

	response.JSON(w, r, http.StatusOK, listOrdersResponse{
		Success: true,
		Orders:  orders,
		Count:   len(orders),
	})
}
