package handler

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	models "storefront-cart/model"
	"storefront-cart/service"
)

// CartHandler exposes one session cart over HTTP. Calls are serialized because
// the cart itself is not safe for concurrent use.
type CartHandler struct {
	mu   sync.Mutex
	cart service.CartInterface
	rec  *service.Recorder
	log  logrus.FieldLogger
}

// NewCartHandler expects rec to be among the notifiers cart was built with;
// its messages are returned in each mutation response.
func NewCartHandler(cart service.CartInterface, rec *service.Recorder, log logrus.FieldLogger) *CartHandler {
	return &CartHandler{cart: cart, rec: rec, log: log}
}

func (h *CartHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/cart", h.ListCart).Methods("GET")
	r.HandleFunc("/cart/add", h.AddToCart).Methods("POST")
	r.HandleFunc("/cart/remove", h.RemoveFromCart).Methods("POST")
	r.HandleFunc("/cart/update", h.UpdateAmount).Methods("POST")
}

type cartReq struct {
	ProductID int64 `json:"product_id"`
	Amount    int   `json:"amount,omitempty"` // update only
}

type cartResp struct {
	Cart     []models.LineItem `json:"cart"`
	Messages []string          `json:"messages"`
}

func decodeCartReq(w http.ResponseWriter, r *http.Request) (cartReq, bool) {
	var req cartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return req, false
	}
	if req.ProductID <= 0 {
		writeErr(w, http.StatusBadRequest, "product_id must be > 0")
		return req, false
	}
	return req, true
}

// mutate runs fn under the cart lock and replies with the resulting cart and
// any notifications fn produced. The status is 200 either way.
func (h *CartHandler) mutate(w http.ResponseWriter, fn func()) {
	h.mu.Lock()
	h.rec.Drain()
	fn()
	resp := cartResp{Cart: h.cart.Cart(), Messages: h.rec.Drain()}
	h.mu.Unlock()

	if len(resp.Messages) > 0 {
		h.log.WithField("messages", resp.Messages).Debug("cart mutation reported to user")
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListCart handles GET /cart
func (h *CartHandler) ListCart(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	items := h.cart.Cart()
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"cart":    items,
		"summary": service.Summarize(items),
	})
}

// AddToCart handles POST /cart/add
// body: { "product_id": 1 }
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCartReq(w, r)
	if !ok {
		return
	}
	h.mutate(w, func() { h.cart.AddProduct(r.Context(), req.ProductID) })
}

// RemoveFromCart handles POST /cart/remove
// body: { "product_id": 1 }
func (h *CartHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCartReq(w, r)
	if !ok {
		return
	}
	h.mutate(w, func() { h.cart.RemoveProduct(r.Context(), req.ProductID) })
}

// UpdateAmount handles POST /cart/update
// body: { "product_id": 1, "amount": 3 }
func (h *CartHandler) UpdateAmount(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCartReq(w, r)
	if !ok {
		return
	}
	h.mutate(w, func() {
		h.cart.UpdateProductAmount(r.Context(), service.AmountUpdate{ProductID: req.ProductID, Amount: req.Amount})
	})
}
