package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
)

// maxCostPeekBytes bounds how much of a batch body is read to price it.
const maxCostPeekBytes = 64 << 10

// RequestCost is the rate-limit charge for a lookup request. A batch costs
// one unit per code (capped at MaxBatchSize); anything else costs one. The
// body is left readable for the handler.
func RequestCost(r *http.Request) int {
	if r.Method != http.MethodPost || r.Body == nil {
		return 1
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxCostPeekBytes))
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(raw), r.Body), r.Body}
	if err != nil {
		return 1
	}

	var req BatchRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return 1
	}
	req.Normalize()
	return min(max(len(req.CEPs), 1), MaxBatchSize)
}
