package createorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/models/order"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/transport/http/response"
)

const successMessage = "Pedido criado com sucesso!"

// service is an interface for the service layer.
type service interface {
	SubmitOrder(ctx context.Context, sub order.Submission) (string, error)
}

// createOrderResponse represents a create order response.
type createOrderResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId"`
	Message string `json:"message"`
}

// CreateOrder handles the checkout submission.
func CreateOrder(w http.ResponseWriter, r *http.Request, service service) {
	sub := order.Submission{}
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		slog.InfoContext(r.Context(), "Error decoding request body for create order", "error", err)
		response.BadRequest(w, r, "Invalid request body")

		return
	}

	orderID, err := service.SubmitOrder(r.Context(), sub)
	if err != nil {
		response.Error(w, r, "Failed to create order", err)

		return
	}

	response.JSON(w, r, http.StatusCreated, createOrderResponse{
		Success: true,
		OrderID: orderID,
		Message: successMessage,
	})
}
