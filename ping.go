package pesto

import (
	"context"
	"net/http"

	"github.com/teknologi-umum/pesto/types"
)

// Ping checks that the API is reachable and the token is accepted.
func (c *Client) Ping(ctx context.Context) (types.PingResult, error) {
	var out types.PingResult
	if err := c.do(ctx, OpPing, http.MethodGet, pingPath, nil, &out); err != nil {
		return types.PingResult{}, err
	}
	return out, nil
}
