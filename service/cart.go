package service

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	models "storefront-cart/model"
	"storefront-cart/store"
)

// ErrNotInCart is returned when an operation targets a product the cart does
// not hold.
var ErrNotInCart = errors.New("product not in cart")

// AmountUpdate is the input of UpdateProductAmount.
type AmountUpdate struct {
	ProductID int64 `json:"product_id"`
	Amount    int   `json:"amount"`
}

// CartStore holds the cart for one session and mirrors it to a key-value
// store after every successful mutation. It is not safe for concurrent use.
type CartStore struct {
	key    string
	api    StockAPI
	mirror store.Mirror
	notify Notifier
	log    logrus.FieldLogger
	tracer trace.Tracer

	cart []models.LineItem
}

// NewCartStore seeds the cart from the value mirrored under key. A missing or
// unparsable value yields an empty cart; any other read failure is returned so
// the stored cart is never overwritten by an empty one.
func NewCartStore(ctx context.Context, key string, api StockAPI, mirror store.Mirror, n Notifier, log logrus.FieldLogger) (*CartStore, error) {
	c := &CartStore{
		key:    key,
		api:    api,
		mirror: mirror,
		notify: n,
		log:    log.WithField("mirror_key", key),
		tracer: otel.Tracer("storefront-cart/service"),
	}
	cart, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	c.cart = cart
	return c, nil
}

func (c *CartStore) load(ctx context.Context) ([]models.LineItem, error) {
	raw, err := c.mirror.Get(ctx, c.key)
	if errors.Is(err, store.ErrMirrorMiss) {
		return []models.LineItem{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "load cart mirror")
	}

	var items []models.LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		c.log.WithError(err).Warn("cart mirror unparsable, starting empty")
		return []models.LineItem{}, nil
	}
	if err := validItems(items); err != nil {
		c.log.WithError(err).Warn("cart mirror invalid, starting empty")
		return []models.LineItem{}, nil
	}
	if items == nil {
		items = []models.LineItem{}
	}
	return items, nil
}

// validItems enforces one line item per product and amounts >= 1.
func validItems(items []models.LineItem) error {
	seen := make(map[int64]bool, len(items))
	for _, li := range items {
		if li.Amount < 1 {
			return errors.Errorf("product %d has amount %d", li.ID, li.Amount)
		}
		if seen[li.ID] {
			return errors.Errorf("product %d listed twice", li.ID)
		}
		seen[li.ID] = true
	}
	return nil
}

// Cart returns a copy of the current line items in insertion order.
func (c *CartStore) Cart() []models.LineItem {
	out := make([]models.LineItem, len(c.cart))
	copy(out, c.cart)
	return out
}

// AddProduct adds one unit of productID, fetching catalog data the first time
// the product enters the cart.
func (c *CartStore) AddProduct(ctx context.Context, productID int64) {
	ctx, span := c.start(ctx, "AddProduct", productID)
	defer span.End()

	next, err := c.addProduct(ctx, productID)
	if err == nil {
		err = c.commit(ctx, next)
	}
	if err != nil {
		c.fail(span, "add", productID, err, MsgAddOutOfStock, MsgAddFailed)
	}
}

func (c *CartStore) addProduct(ctx context.Context, productID int64) ([]models.LineItem, error) {
	idx := c.indexOf(productID)

	stock, err := c.api.GetStock(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(err, "get stock")
	}

	current := 0
	if idx >= 0 {
		current = c.cart[idx].Amount
	}
	requested := current + 1
	if requested > stock.Amount {
		return nil, errors.Wrapf(store.ErrInsufficientStock, "requested %d, available %d", requested, stock.Amount)
	}

	next := c.Cart()
	if idx >= 0 {
		next[idx] = next[idx].WithAmount(requested)
		return next, nil
	}

	p, err := c.api.GetProduct(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(err, "get product")
	}
	item := models.NewLineItem(p, 1)
	item.ID = productID
	return append(next, item), nil
}

// RemoveProduct drops productID from the cart.
func (c *CartStore) RemoveProduct(ctx context.Context, productID int64) {
	ctx, span := c.start(ctx, "RemoveProduct", productID)
	defer span.End()

	next := make([]models.LineItem, 0, len(c.cart))
	for _, li := range c.cart {
		if li.ID != productID {
			next = append(next, li)
		}
	}

	var err error
	if len(next) == len(c.cart) {
		err = ErrNotInCart
	} else {
		err = c.commit(ctx, next)
	}
	if err != nil {
		c.fail(span, "remove", productID, err, MsgRemoveFailed, MsgRemoveFailed)
	}
}

// UpdateProductAmount sets the amount of a product already in the cart.
// Amounts <= 0 are ignored; removal goes through RemoveProduct.
func (c *CartStore) UpdateProductAmount(ctx context.Context, u AmountUpdate) {
	if u.Amount <= 0 {
		return
	}

	ctx, span := c.start(ctx, "UpdateProductAmount", u.ProductID)
	defer span.End()
	span.SetAttributes(attribute.Int("cart.amount", u.Amount))

	next, err := c.updateProductAmount(ctx, u)
	if err == nil {
		err = c.commit(ctx, next)
	}
	if err != nil {
		c.fail(span, "update", u.ProductID, err, MsgUpdateOutOfStock, MsgUpdateFailed)
	}
}

func (c *CartStore) updateProductAmount(ctx context.Context, u AmountUpdate) ([]models.LineItem, error) {
	stock, err := c.api.GetStock(ctx, u.ProductID)
	if err != nil {
		return nil, errors.Wrap(err, "get stock")
	}
	if u.Amount > stock.Amount {
		return nil, errors.Wrapf(store.ErrInsufficientStock, "requested %d, available %d", u.Amount, stock.Amount)
	}

	idx := c.indexOf(u.ProductID)
	if idx < 0 {
		return nil, ErrNotInCart
	}
	next := c.Cart()
	next[idx] = next[idx].WithAmount(u.Amount)
	return next, nil
}

// commit writes the mirror first so a failed write leaves memory untouched.
func (c *CartStore) commit(ctx context.Context, next []models.LineItem) error {
	raw, err := json.Marshal(next)
	if err != nil {
		return errors.Wrap(err, "encode cart")
	}
	if err := c.mirror.Set(ctx, c.key, string(raw)); err != nil {
		return err
	}
	c.cart = next
	return nil
}

func (c *CartStore) indexOf(productID int64) int {
	for i, li := range c.cart {
		if li.ID == productID {
			return i
		}
	}
	return -1
}

func (c *CartStore) start(ctx context.Context, op string, productID int64) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, "CartStore."+op, trace.WithAttributes(attribute.Int64("cart.product_id", productID)))
}

func (c *CartStore) fail(span trace.Span, op string, productID int64, err error, stockMsg, genericMsg string) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	c.log.WithError(err).WithFields(logrus.Fields{
		"op":         op,
		"product_id": productID,
	}).Warn("cart mutation rejected")

	if errors.Is(err, store.ErrInsufficientStock) {
		c.notify.Error(stockMsg)
		return
	}
	c.notify.Error(genericMsg)
}
