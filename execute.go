package pesto

import (
	"context"
	"net/http"

	"github.com/teknologi-umum/pesto/types"
)

// Execute submits code and waits for the result. The submission is sent as
// given; the API is the only validator. A program that fails to compile or
// exits non-zero is still a successful call: inspect the exit codes in the
// result, or use ExecutionResult.Failed.
func (c *Client) Execute(ctx context.Context, sub types.CodeSubmission) (types.ExecutionResult, error) {
	var out types.ExecutionResult
	if err := c.do(ctx, OpExecute, http.MethodPost, executePath, sub, &out); err != nil {
		return types.ExecutionResult{}, err
	}
	return out, nil
}
