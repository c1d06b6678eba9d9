package controller

import (
	"fmt"
	"net/http"
	"time"

	"school_admin_backend/internal/service"
	"school_admin_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CsvController struct {
	Csv *service.CsvService
}

func NewCsvController(csvService *service.CsvService) *CsvController {
	return &CsvController{Csv: csvService}
}

func writeCSVHeaders(ctx *gin.Context, name string) {
	filename := fmt.Sprintf("%s_%s.csv", name, time.Now().Format("20060102"))
	ctx.Header("Content-Type", "text/csv")
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

// ExportStudents godoc
// @Summary 导出学生 CSV（仅管理员）
// @Tags 数据导入导出
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {string} string "CSV 文件"
// @Router /api/export/students [get]
func (c *CsvController) ExportStudents(ctx *gin.Context) {
	writeCSVHeaders(ctx, "students")
	if err := c.Csv.ExportStudents(ctx.Writer); err != nil {
		util.LogInternalError(ctx, err)
	}
}

// ExportTeachers godoc
// @Summary 导出教师 CSV（仅管理员）
// @Tags 数据导入导出
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {string} string "CSV 文件"
// @Router /api/export/teachers [get]
func (c *CsvController) ExportTeachers(ctx *gin.Context) {
	writeCSVHeaders(ctx, "teachers")
	if err := c.Csv.ExportTeachers(ctx.Writer); err != nil {
		util.LogInternalError(ctx, err)
	}
}

// ImportStudents godoc
// @Summary 批量导入学生 CSV（仅管理员）
// @Description 逐行独立处理，失败行不影响其他行；存在失败行时返回 206
// @Tags 数据导入导出
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV 文件"
// @Success 201 {object} util.Response{data=service.ImportResult}
// @Success 206 {object} util.Response{data=service.ImportResult} "部分行导入失败"
// @Router /api/import/students [post]
func (c *CsvController) ImportStudents(ctx *gin.Context) {
	fh, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing file field")
		return
	}

	f, err := fh.Open()
	if err != nil {
		util.BadRequest(ctx, "cannot open uploaded file")
		return
	}
	defer f.Close()

	result, err := c.Csv.ImportStudents(f)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	status := http.StatusCreated
	if result.Failed > 0 {
		status = http.StatusPartialContent
	}
	ctx.JSON(status, util.Response{Code: status, Message: "import finished", Data: result})
}
