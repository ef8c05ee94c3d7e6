package util

import "errors"

var (
	ErrQuestionNotFound        = errors.New("question not found")
	ErrKnowledgePointNotFound  = errors.New("knowledge point not found")
	ErrDuplicateKnowledgePoint = errors.New("knowledge point already exists")
	ErrInvalidHierarchy        = errors.New("invalid knowledge hierarchy")
	ErrEmptyContent            = errors.New("question content is required")
	ErrEmptyName               = errors.New("knowledge point name is required")
	ErrAIDisabled              = errors.New("ai suggestion is not configured")
)

var ErrGraphDisabled = errors.New("neo4j is not configured")
