package api

import (
	"errors"

	"trialbalance/config"
	"trialbalance/database"

	"github.com/gin-gonic/gin"
)

// DocumentHandler 对账单查询和删除
type DocumentHandler struct {
	repo database.Repository
}

func NewDocumentHandler(repo database.Repository) *DocumentHandler {
	return &DocumentHandler{repo: repo}
}

// List 列出全部对账单
// @Summary 对账单列表
// @Description 返回全部对账单及其明细和类别，按起始日期倒序
// @Tags 对账单
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Router /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.repo.ListDocuments(c.Request.Context())
	if err != nil {
		InternalError(c, config.SafeErrorMessage(err, "查询对账单失败"))
		return
	}
	Success(c, docs)
}

// Get 获取单个对账单
// @Summary 对账单详情
// @Tags 对账单
// @Produce json
// @Security BearerAuth
// @Param id path int true "对账单 ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response "对账单不存在"
// @Router /documents/{id} [get]
func (h *DocumentHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	doc, err := h.repo.GetDocument(c.Request.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		NotFound(c, "对账单不存在")
		return
	}
	if err != nil {
		InternalError(c, config.SafeErrorMessage(err, "查询对账单失败"))
		return
	}
	Success(c, doc)
}

// Delete 删除对账单及其明细
// @Summary 删除对账单
// @Tags 对账单
// @Produce json
// @Security BearerAuth
// @Param id path int true "对账单 ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response "对账单不存在"
// @Router /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	err := h.repo.DeleteDocument(c.Request.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		NotFound(c, "对账单不存在")
		return
	}
	if err != nil {
		InternalError(c, config.SafeErrorMessage(err, "删除对账单失败"))
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}
