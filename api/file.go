package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"trialbalance/config"
	"trialbalance/database"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// FileHandler 已上传的源文件
type FileHandler struct {
	repo database.Repository
}

func NewFileHandler(repo database.Repository) *FileHandler {
	return &FileHandler{repo: repo}
}

// List 源文件列表（不含内容）
// @Summary 源文件列表
// @Tags 源文件
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Router /files [get]
func (h *FileHandler) List(c *gin.Context) {
	files, err := h.repo.ListSourceFiles(c.Request.Context())
	if err != nil {
		InternalError(c, config.SafeErrorMessage(err, "查询源文件失败"))
		return
	}
	Success(c, files)
}

// Download 下载上传时保存的原始文件
// @Summary 下载源文件
// @Tags 源文件
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param id path int true "源文件 ID"
// @Success 200 {file} file "原始 xlsx"
// @Failure 404 {object} Response "源文件不存在"
// @Router /files/{id}/download [get]
func (h *FileHandler) Download(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	f, err := h.repo.GetSourceFile(c.Request.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		NotFound(c, "源文件不存在")
		return
	}
	if err != nil {
		InternalError(c, config.SafeErrorMessage(err, "查询源文件失败"))
		return
	}

	setAttachment(c, f.Filename)
	c.Data(http.StatusOK, xlsxContentType, f.Content)
}

// setAttachment 设置下载文件名，非 ASCII 文件名按 RFC 5987 编码
func setAttachment(c *gin.Context, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(filename)))
}
