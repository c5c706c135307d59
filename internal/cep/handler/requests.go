package handler

import (
	"fmt"
	"strings"

	dErrors "brasilsearch/pkg/domain-errors"
)

// MaxBatchSize bounds the number of codes in a batch request.
const MaxBatchSize = 20

// BatchRequest is the body of POST /api/cep/batch.
type BatchRequest struct {
	CEPs []string `json:"ceps"`
}

// Normalize trims whitespace and drops blank entries.
func (r *BatchRequest) Normalize() {
	ceps := r.CEPs[:0]
	for _, c := range r.CEPs {
		if c = strings.TrimSpace(c); c != "" {
			ceps = append(ceps, c)
		}
	}
	r.CEPs = ceps
}

func (r *BatchRequest) Validate() error {
	if len(r.CEPs) == 0 {
		return dErrors.New(dErrors.CodeValidation, "ceps must contain at least one code")
	}
	if len(r.CEPs) > MaxBatchSize {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("ceps must contain at most %d codes", MaxBatchSize))
	}
	return nil
}
