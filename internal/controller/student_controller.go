package controller

import (
	"school_admin_backend/internal/service"
	"school_admin_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StudentController struct {
	Roster *service.RosterService
}

func NewStudentController(roster *service.RosterService) *StudentController {
	return &StudentController{Roster: roster}
}

// CreateStudent godoc
// @Summary 创建学生（含账号）
// @Tags 学生管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.StudentRequest true "学生信息"
// @Success 201 {object} util.Response{data=model.Student}
// @Failure 409 {object} util.Response "用户名或学号重复"
// @Router /api/students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req service.StudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	st, err := c.Roster.CreateStudent(req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Created(ctx, st)
}

// ListStudents godoc
// @Summary 获取学生列表（按角色过滤可见范围）
// @Tags 学生管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	ss, err := c.Roster.ListStudents(claims)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, ss)
}

// GetStudent godoc
// @Summary 获取学生详情
// @Tags 学生管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "学生ID"
// @Success 200 {object} util.Response{data=model.Student}
// @Router /api/students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	st, err := c.Roster.GetStudent(claims, id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, st)
}

// UpdateStudent godoc
// @Summary 更新学生信息
// @Description 仅管理员可修改 assignedTeacherId，其他角色提交该字段会被忽略并返回提示
// @Tags 学生管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "学生ID"
// @Param body body service.StudentUpdateRequest true "可更新字段"
// @Success 200 {object} util.Response{data=model.Student}
// @Router /api/students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req service.StudentUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	st, warning, err := c.Roster.UpdateStudent(claims, id, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	if warning != "" {
		util.SuccessWithWarning(ctx, st, warning)
		return
	}
	util.Success(ctx, st)
}

// DeleteStudent godoc
// @Summary 删除学生（同时删除其账号）
// @Tags 学生管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "学生ID"
// @Success 200 {object} util.Response
// @Router /api/students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	if err := c.Roster.DeleteStudent(claims, id); err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": id})
}
