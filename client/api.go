// Package client talks to the storefront stock/catalog API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	models "storefront-cart/model"
	"storefront-cart/store"
)

// API is a client for GET /stock/{id} and GET /products/{id}.
type API struct {
	baseURL string
	http    *http.Client
	tracer  trace.Tracer
}

func NewAPI(baseURL string, timeout time.Duration) *API {
	return &API{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tracer:  otel.Tracer("storefront-cart/client"),
	}
}

// GetStock returns the available amount for productID.
func (a *API) GetStock(ctx context.Context, productID int64) (models.Stock, error) {
	var s models.Stock
	if err := a.get(ctx, "GetStock", fmt.Sprintf("/stock/%d", productID), &s); err != nil {
		return models.Stock{}, err
	}
	return s, nil
}

// GetProduct returns catalog metadata for productID.
func (a *API) GetProduct(ctx context.Context, productID int64) (models.Product, error) {
	var p models.Product
	if err := a.get(ctx, "GetProduct", fmt.Sprintf("/products/%d", productID), &p); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func (a *API) get(ctx context.Context, op, path string, out interface{}) (err error) {
	ctx, span := a.tracer.Start(ctx, op, trace.WithAttributes(attribute.String("http.path", path)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return errors.Wrapf(err, "build request %s", path)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "GET %s", path)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errors.Wrapf(store.ErrNotFound, "GET %s", path)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return errors.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decode %s", path)
	}
	return nil
}
