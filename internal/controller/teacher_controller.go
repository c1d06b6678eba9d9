package controller

import (
	"strconv"

	"school_admin_backend/internal/service"
	"school_admin_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TeacherController struct {
	Roster *service.RosterService
}

func NewTeacherController(roster *service.RosterService) *TeacherController {
	return &TeacherController{Roster: roster}
}

func parseIDParam(ctx *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		util.BadRequest(ctx, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// CreateTeacher godoc
// @Summary 创建教师（含账号）
// @Tags 教师管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.TeacherRequest true "教师信息"
// @Success 201 {object} util.Response{data=model.Teacher}
// @Failure 409 {object} util.Response "用户名或工号重复"
// @Router /api/teachers [post]
func (c *TeacherController) CreateTeacher(ctx *gin.Context) {
	var req service.TeacherRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	t, err := c.Roster.CreateTeacher(req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Created(ctx, t)
}

// ListTeachers godoc
// @Summary 获取教师列表（按角色过滤可见范围）
// @Tags 教师管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/teachers [get]
func (c *TeacherController) ListTeachers(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	ts, err := c.Roster.ListTeachers(claims)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, ts)
}

// GetTeacher godoc
// @Summary 获取教师详情
// @Tags 教师管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "教师ID"
// @Success 200 {object} util.Response{data=model.Teacher}
// @Router /api/teachers/{id} [get]
func (c *TeacherController) GetTeacher(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	t, err := c.Roster.GetTeacher(claims, id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, t)
}

// UpdateTeacher godoc
// @Summary 更新教师信息
// @Tags 教师管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "教师ID"
// @Param body body service.TeacherUpdateRequest true "可更新字段"
// @Success 200 {object} util.Response{data=model.Teacher}
// @Router /api/teachers/{id} [put]
func (c *TeacherController) UpdateTeacher(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req service.TeacherUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	t, err := c.Roster.UpdateTeacher(id, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, t)
}

// DeleteTeacher godoc
// @Summary 删除教师（同时删除其账号）
// @Tags 教师管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "教师ID"
// @Success 200 {object} util.Response
// @Router /api/teachers/{id} [delete]
func (c *TeacherController) DeleteTeacher(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	if err := c.Roster.DeleteTeacher(id); err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": id})
}

// TeacherStudents godoc
// @Summary 获取某教师名下的学生
// @Tags 教师管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "教师ID"
// @Success 200 {object} util.Response
// @Router /api/teachers/{id}/students [get]
func (c *TeacherController) TeacherStudents(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	students, err := c.Roster.StudentsOfTeacher(id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, students)
}

// GetSelf godoc
// @Summary 教师端：获取本人档案
// @Tags 教师管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.Teacher}
// @Router /api/teacher/me [get]
func (c *TeacherController) GetSelf(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	t, err := c.Roster.GetOwnTeacher(claims)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, t)
}

// UpdateSelf godoc
// @Summary 教师端：更新本人档案（仅电话）
// @Tags 教师管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.TeacherSelfUpdateRequest true "可更新字段"
// @Success 200 {object} util.Response{data=model.Teacher}
// @Router /api/teacher/me [put]
func (c *TeacherController) UpdateSelf(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.TeacherSelfUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	t, err := c.Roster.UpdateOwnTeacher(claims, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, t)
}
