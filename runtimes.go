package pesto

import (
	"context"
	"net/http"

	"github.com/teknologi-umum/pesto/types"
)

// ListRuntimes returns the runtimes the API offers, in API order.
func (c *Client) ListRuntimes(ctx context.Context) (types.RuntimeCatalog, error) {
	var out types.RuntimeCatalog
	if err := c.do(ctx, OpListRuntimes, http.MethodGet, listRuntimesPath, nil, &out); err != nil {
		return types.RuntimeCatalog{}, err
	}
	return out, nil
}
