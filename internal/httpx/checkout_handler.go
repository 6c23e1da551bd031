package httpx

import (
	"net/http"

	"github.com/ariefcatur/go-storefront/internal/checkout"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	Checkout *checkout.Service
	Log      *zap.Logger
}

// Register expects r to be behind RequireUser.
func (h *CheckoutHandler) Register(r chi.Router) {
	r.Get("/checkout", h.form)
	r.Post("/checkout", h.submit)
}

type paymentOptionDTO struct {
	Value checkout.PaymentMethod `json:"value"`
	Label string                 `json:"label"`
}

type checkoutFormDTO struct {
	Input          checkout.Input     `json:"input"`
	Items          []lineDTO          `json:"items"`
	Totals         totalsDTO          `json:"totals"`
	PaymentMethods []paymentOptionDTO `json:"payment_methods"`
}

type checkoutDTO struct {
	OrderID int64     `json:"order_id"`
	Order   orderDTO  `json:"order"`
	Totals  totalsDTO `json:"totals"`
	Message string    `json:"message"`
}

func paymentOptions() []paymentOptionDTO {
	ms := checkout.PaymentMethods()
	out := make([]paymentOptionDTO, len(ms))
	for i, m := range ms {
		out[i] = paymentOptionDTO{Value: m, Label: m.Label()}
	}
	return out
}

func (h *CheckoutHandler) form(w http.ResponseWriter, r *http.Request) {
	f, err := h.Checkout.Form(r.Context(), CurrentUser(r.Context()), SessionID(r.Context()))
	if err != nil {
		fail(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, checkoutFormDTO{
		Input:          f.Input,
		Items:          toLines(f.Items),
		Totals:         toTotals(f.Totals),
		PaymentMethods: paymentOptions(),
	})
}

func (h *CheckoutHandler) submit(w http.ResponseWriter, r *http.Request) {
	in := checkout.Input{
		PaymentMethod: form(r, "payment_method"),
		Street:        form(r, "street"),
		HouseNumber:   form(r, "house_number"),
		Neighborhood:  form(r, "neighborhood"),
		City:          form(r, "city"),
		Notes:         form(r, "notes"),
	}
	res, err := h.Checkout.Checkout(r.Context(), CurrentUser(r.Context()), SessionID(r.Context()), in)
	if err != nil {
		fail(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, checkoutDTO{
		OrderID: res.Order.ID,
		Order:   toOrder(res.Order),
		Totals:  toTotals(res.Totals),
		Message: checkout.ConfirmationMessage(res.Order),
	})
}
