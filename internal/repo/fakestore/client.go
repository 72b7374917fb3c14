package fakestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/nguyentranbao-ct/catalog/internal/config"
	"github.com/nguyentranbao-ct/catalog/internal/models"
	"github.com/nguyentranbao-ct/catalog/pkg/util"
)

var ErrUnexpectedStatus = errors.New("unexpected response status")

// Client reads the product list of the remote catalog.
type Client interface {
	ListProducts(ctx context.Context) ([]models.RemoteProduct, error)
}

type client struct {
	httpClient *resty.Client
	url        string
}

func NewClient(cfg *config.Config) Client {
	return &client{
		httpClient: util.NewRestyClient(cfg.Catalog.Timeout),
		url:        cfg.Catalog.SourceURL,
	}
}

// ListProducts issues a single GET of the product list endpoint.
func (c *client) ListProducts(ctx context.Context) ([]models.RemoteProduct, error) {
	var products []models.RemoteProduct
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		ForceContentType("application/json").
		SetResult(&products).
		Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("request products: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode())
	}
	if products == nil {
		products = []models.RemoteProduct{}
	}
	return products, nil
}
