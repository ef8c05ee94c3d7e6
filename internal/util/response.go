package util

import (
	"errors"
	"k12_kg_backend/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 错误响应结构
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Success 成功响应直接输出业务结构，与前端约定的字段保持一致
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	InternalServerError(c)
}

// HandleError 将领域错误映射为 HTTP 状态码
func HandleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrQuestionNotFound), errors.Is(err, ErrKnowledgePointNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, ErrDuplicateKnowledgePoint):
		Conflict(c, err.Error())
	case errors.Is(err, ErrInvalidHierarchy), errors.Is(err, ErrEmptyContent), errors.Is(err, ErrEmptyName):
		BadRequest(c, err.Error())
	case errors.Is(err, ErrAIDisabled), errors.Is(err, ErrGraphDisabled):
		Error(c, http.StatusServiceUnavailable, err.Error())
	default:
		LogInternalError(c, err)
	}
}
