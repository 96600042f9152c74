package updatestatus

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/models/order"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/transport/http/response"
)

const successMessage = "Status atualizado com sucesso!"

type service interface {
	ChangeStatus(ctx context.Context, orderID string, status order.Status) (order.Order, error)
}

type updateStatusRequest struct {
	Status order.Status `json:"status"`
}

type updateStatusResponse struct {
	Success bool        `json:"success"`
	Order   order.Order `json:"order"`
	Message string      `json:"message"`
}

// UpdateStatus handles a staff status change.
func UpdateStatus(w http.ResponseWriter, r *http.Request, service service) {
	req := updateStatusRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.InfoContext(r.Context(), "Error decoding request body for status update", "error", err)
		response.BadRequest(w, r, "Invalid request body")

		return
	}

	o, err := service.ChangeStatus(r.Context(), chi.URLParam(r, "orderId"), req.Status)
	if err != nil {
		response.Error(w, r, "Failed to update order status", err)

		return
	}

	response.JSON(w, r, http.StatusOK, updateStatusResponse{
		Success: true,
		Order:   o,
		Message: successMessage,
	})
}
