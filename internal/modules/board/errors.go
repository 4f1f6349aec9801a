package board

import "errors"

var ErrPipelineNotFound = errors.New("pipeline not found")
