package prediction

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Skufu/heartcheck/internal/assessment"
	"github.com/Skufu/heartcheck/internal/upstream"
)

const (
	predictPath     = "/predict"
	predictionsPath = "/predictions/predictions"

	DefaultListLimit = 10
)

// Client talks to the prediction service.
type Client struct {
	api *upstream.Client
}

// NewClient wraps an upstream client pointed at the prediction service.
func NewClient(api *upstream.Client) *Client {
	return &Client{api: api}
}

// Predict scores one clinical input. It sends exactly one request.
func (c *Client) Predict(ctx context.Context, in assessment.ClinicalInput) (Result, error) {
	var res Result
	if err := c.api.PostJSON(ctx, predictPath, in, &res); err != nil {
		return Result{}, fmt.Errorf("predict: %w", err)
	}
	return res, nil
}

// ListPredictions pages through predictions stored by the service. A
// non-positive limit falls back to DefaultListLimit.
func (c *Client) ListPredictions(ctx context.Context, skip, limit int) ([]StoredPrediction, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))

	var out []StoredPrediction
	if err := c.api.GetJSON(ctx, predictionsPath, q, &out); err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	return out, nil
}

// Ping checks that the service answers on its root path.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.api.GetJSON(ctx, "/", nil, nil); err != nil {
		return fmt.Errorf("ping prediction service: %w", err)
	}
	return nil
}
