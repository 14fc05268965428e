package api

import (
	"errors"

	"trialbalance/config"
	"trialbalance/database"

	"github.com/gin-gonic/gin"
)

// CategoryHandler 类别表
type CategoryHandler struct {
	repo database.Repository
}

func NewCategoryHandler(repo database.Repository) *CategoryHandler {
	return &CategoryHandler{repo: repo}
}

// List 列出所有类别
// @Summary 类别列表
// @Description 导入过程中自动登记的类别，名称不区分大小写唯一
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Router /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	list, err := h.repo.ListCategories(c.Request.Context())
	if err != nil {
		InternalError(c, config.SafeErrorMessage(err, "查询类别失败"))
		return
	}
	Success(c, list)
}

// Delete 删除类别，引用它的明细一并删除
// @Summary 删除类别
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别 ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response "类别不存在"
// @Router /categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	err := h.repo.DeleteCategory(c.Request.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		NotFound(c, "类别不存在")
		return
	}
	if err != nil {
		InternalError(c, config.SafeErrorMessage(err, "删除类别失败"))
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}
