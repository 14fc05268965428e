package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"trialbalance/config"
	"trialbalance/logger"
	"trialbalance/middleware"
	"trialbalance/parser"
	"trialbalance/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Ingester 导入服务
type Ingester interface {
	Ingest(ctx context.Context, filename string, content []byte) (*service.IngestResult, error)
}

// UploadHandler 对账单上传
type UploadHandler struct {
	ingester Ingester
	maxBytes int64
}

// NewUploadHandler maxMB 为单个文件大小上限（MB）
func NewUploadHandler(ingester Ingester, maxMB int64) *UploadHandler {
	return &UploadHandler{ingester: ingester, maxBytes: maxMB << 20}
}

// Upload 上传并导入一份试算平衡表
// @Summary 上传对账单
// @Description 上传 xlsx 试算平衡表。同一银行同一期间重复上传返回已有对账单，不重复写入
// @Tags 对账单
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "xlsx 文件"
// @Success 200 {object} Response "对账单已存在"
// @Success 201 {object} Response "导入成功"
// @Failure 400 {object} Response "缺少文件"
// @Failure 413 {object} Response "文件过大"
// @Failure 422 {object} Response "工作簿无法解析"
// @Failure 500 {object} Response "保存失败"
// @Failure 504 {object} Response "导入超时"
// @Router /uploads [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	// multipart 头部留出余量
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+1<<20)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			Error(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("文件不能超过 %d MB", h.maxBytes>>20))
			return
		}
		BadRequest(c, "请上传文件（字段名 file）")
		return
	}
	if fh.Size > h.maxBytes {
		Error(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("文件不能超过 %d MB", h.maxBytes>>20))
		return
	}

	f, err := fh.Open()
	if err != nil {
		InternalError(c, config.SafeErrorMessage(err, "读取上传文件失败"))
		return
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		InternalError(c, config.SafeErrorMessage(err, "读取上传文件失败"))
		return
	}

	res, err := h.ingester.Ingest(c.Request.Context(), filepath.Base(fh.Filename), content)
	if err != nil {
		status, msg := ingestErrorStatus(err)
		if status >= http.StatusInternalServerError {
			logger.L().Error("对账单导入失败",
				zap.String("request_id", middleware.GetRequestID(c)),
				zap.String("filename", fh.Filename),
				zap.Error(err))
		}
		Error(c, status, msg)
		return
	}

	if res.Duplicate {
		SuccessWithMessage(c, "对账单已存在", res)
		return
	}
	Created(c, "导入成功", res)
}

// ingestErrorStatus 导入错误到 HTTP 状态码
// 文件内容问题原样返回给调用方，内部错误经 SafeErrorMessage 处理
func ingestErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrEmptyFilename):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, parser.ErrMalformedWorkbook),
		errors.Is(err, parser.ErrMissingMetadata),
		errors.Is(err, parser.ErrInvalidPeriod):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "导入超时，已回滚"
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout, "请求已取消"
	default:
		return http.StatusInternalServerError, config.SafeErrorMessage(err, "保存对账单失败")
	}
}
