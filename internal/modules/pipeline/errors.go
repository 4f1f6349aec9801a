package pipeline

import "errors"

var (
	ErrValidation       = errors.New("validation error")
	ErrPipelineNotFound = errors.New("pipeline not found")
	ErrStageNotFound    = errors.New("stage not found")
	ErrPipelineInUse    = errors.New("pipeline has deals attached")
	ErrStageInUse       = errors.New("stage has deals attached")
	ErrDefaultPipeline  = errors.New("default pipeline cannot be deleted")
	ErrFixedStages      = errors.New("pipeline stages are fixed")
	ErrSystemStage      = errors.New("system stage cannot be modified")
	ErrOrderTaken       = errors.New("stage order already in use")
	ErrStageTypeTaken   = errors.New("pipeline already has a stage of this type")
)
