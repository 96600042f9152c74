package getcustomer

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/models/customer"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/models/order"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/transport/http/response"
)

type service interface {
	LookupCustomer(ctx context.Context, phone string) (customer.Customer, []order.Order, error)
}

type getCustomerResponse struct {
	Success  bool              `json:"success"`
	Customer customer.Customer `json:"customer"`
	Orders   []order.Order     `json:"orders"`
}

// GetCustomer returns the profile and order history for a phone number.
func GetCustomer(w http.ResponseWriter, r *http.Request, service service) {
	phone, err := url.PathUnescape(chi.URLParam(r, "phone"))
	if err != nil {
		response.BadRequest(w, r, "Invalid phone")

		return
	}

	c, orders, err := service.LookupCustomer(r.Context(), phone)
	if err != nil {
		response.Error(w, r, "Failed to fetch customer", err)

		return
	}

	response.JSON(w, r, http.StatusOK, getCustomerResponse{
		Success:  true,
		Customer: c,
		Orders:   orders,
	})
}
