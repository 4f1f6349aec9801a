package deal

import "errors"

var (
	ErrValidation         = errors.New("validation error")
	ErrDealNotFound       = errors.New("deal not found")
	ErrLeadNotFound       = errors.New("lead not found")
	ErrStageNotFound      = errors.New("stage not found")
	ErrPipelineNotFound   = errors.New("pipeline not found")
	ErrStageNotInPipeline = errors.New("stage does not belong to the deal's pipeline")
	ErrPipelineEmpty      = errors.New("pipeline has no stages")
	ErrInvalidOutcome     = errors.New("invalid sale outcome")
	ErrLossReasonNotFound = errors.New("loss reason not found")
)
