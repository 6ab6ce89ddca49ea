package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Niranjannn-ux/hotel-ordering-system/display-svc/internal/domain"
)

// OrderClient reads the kitchen queue from the order service.
type OrderClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewOrderClient(baseURL string) *OrderClient {
	return &OrderClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *OrderClient) KitchenQueue(ctx context.Context) ([]domain.BoardOrder, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/kds/orders", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch kitchen queue: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch kitchen queue: unexpected status %d", resp.StatusCode)
	}
	var orders []domain.BoardOrder
	if err := json.NewDecoder(resp.Body).Decode(&orders); err != nil {
		return nil, fmt.Errorf("decode kitchen queue: %w", err)
	}
	return orders, nil
}
