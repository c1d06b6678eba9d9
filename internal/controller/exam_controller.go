package controller

import (
	"strconv"

	"school_admin_backend/internal/service"
	"school_admin_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	Exams       *service.ExamService
	Submissions *service.SubmissionService
}

func NewExamController(exams *service.ExamService, submissions *service.SubmissionService) *ExamController {
	return &ExamController{Exams: exams, Submissions: submissions}
}

// CreateExam godoc
// @Summary 创建考试（必须恰好 5 道题）
// @Tags 考试管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.ExamRequest true "考试信息"
// @Success 201 {object} util.Response{data=model.Exam}
// @Failure 400 {object} util.Response "题目数量不为 5"
// @Router /api/exams [post]
func (c *ExamController) CreateExam(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.Exams.CreateExam(claims, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Created(ctx, exam)
}

// ListExams godoc
// @Summary 获取考试列表（按角色过滤可见范围）
// @Tags 考试管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/exams [get]
func (c *ExamController) ListExams(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	exams, err := c.Exams.ListExams(claims)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, exams)
}

// GetExam godoc
// @Summary 获取考试详情
// @Tags 考试管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "考试ID"
// @Success 200 {object} util.Response{data=model.Exam}
// @Router /api/exams/{id} [get]
func (c *ExamController) GetExam(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	exam, err := c.Exams.GetExam(claims, id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, exam)
}

// UpdateExam godoc
// @Summary 更新考试（提交题目时整组替换，仍须恰好 5 道）
// @Tags 考试管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "考试ID"
// @Param body body service.ExamUpdateRequest true "可更新字段"
// @Success 200 {object} util.Response{data=model.Exam}
// @Router /api/exams/{id} [put]
func (c *ExamController) UpdateExam(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req service.ExamUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.Exams.UpdateExam(claims, id, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, exam)
}

// DeleteExam godoc
// @Summary 删除考试（连带题目、答卷）
// @Tags 考试管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "考试ID"
// @Success 200 {object} util.Response
// @Router /api/exams/{id} [delete]
func (c *ExamController) DeleteExam(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	if err := c.Exams.DeleteExam(claims, id); err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": id})
}

// ListQuestions godoc
// @Summary 获取考试题目（学生端不含正确答案）
// @Tags 考试管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "考试ID"
// @Success 200 {object} util.Response
// @Router /api/exams/{id}/questions [get]
func (c *ExamController) ListQuestions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	qs, err := c.Exams.ListQuestions(claims, id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, qs)
}

// Attend godoc
// @Summary 学生提交答卷（每场考试仅可提交一次）
// @Description 五道题的答案一次性提交，服务端自动判分
// @Tags 考试管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "考试ID"
// @Param body body service.SubmissionRequest true "答案列表"
// @Success 201 {object} util.Response{data=model.ExamAttempt}
// @Failure 400 {object} util.Response "重复提交或答案数量不为 5"
// @Router /api/exams/{id}/attend [post]
func (c *ExamController) Attend(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req service.SubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.Submissions.Submit(claims, id, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Created(ctx, attempt)
}

// MyMarks godoc
// @Summary 学生端：查看本人成绩
// @Tags 考试管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/exams/my-marks [get]
func (c *ExamController) MyMarks(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	attempts, err := c.Submissions.MyMarks(claims)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, attempts)
}

// ListAttempts godoc
// @Summary 获取答卷列表（按角色过滤，可按考试筛选）
// @Tags 考试管理
// @Produce json
// @Security BearerAuth
// @Param exam_id query int false "考试ID"
// @Success 200 {object} util.Response
// @Router /api/student-exams [get]
func (c *ExamController) ListAttempts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var examID uint
	if raw := ctx.Query("exam_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			util.BadRequest(ctx, "invalid exam_id")
			return
		}
		examID = uint(id)
	}

	attempts, err := c.Submissions.ListAttempts(claims, examID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, attempts)
}
