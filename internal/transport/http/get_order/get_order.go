package getorder

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/models/order"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/transport/http/response"
)

type service interface {
	GetOrderStatus(ctx context.Context, orderID string) (order.Order, error)
}

type getOrderResponse struct {
	Success bool        `json:"success"`
	Order   order.Order `json:"order"`
}

func GetOrder(w http.ResponseWriter, r *http.Request, service service) {
	o, err := service.GetOrderStatus(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		response.Error(w, r, "Failed to fetch order", err)

		return
	}

	response.JSON(w, r, http.StatusOK, getOrderResponse{Success: true, Order: o})
}
