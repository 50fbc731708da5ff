package catalog

import "github.com/fekuna/omnipos-stock/internal/apperror"

// ErrProductNotFound is returned by ProductSummary when a model code has no variants.
var ErrProductNotFound = apperror.NotFound("product not found")
