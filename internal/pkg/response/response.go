package response

import (
	"Blogstone/internal/api/dto"
	"Blogstone/internal/pkg/util"
	"Blogstone/internal/service"
	stdjson "encoding/json"
	"errors"
	"io"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// Success 成功返回封装
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.Response{Success: true, Data: data})
}

// Message 仅带提示信息的成功返回
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, dto.Response{Success: true, Message: message})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.Response{Success: true, Data: data})
}

// Accepted 修改成功统一返回 202
func Accepted(c *gin.Context, data any) {
	c.JSON(http.StatusAccepted, dto.Response{Success: true, Data: data})
}

// NoContent 删除成功，data 为空对象而非 null
func NoContent(c *gin.Context) {
	c.JSON(http.StatusNoContent, dto.Response{Success: true, Data: gin.H{}})
}

// List 分页列表返回
func List(c *gin.Context, data any, details *dto.PageDetails) {
	c.JSON(http.StatusOK, dto.ListResponse{Success: true, Data: data, Details: details})
}

// JSON 自定义结构的成功返回，自动补充 success 字段
func JSON(c *gin.Context, status int, body gin.H) {
	body["success"] = true
	c.JSON(status, body)
}

// Fail 失败返回封装
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, dto.Response{Success: false, Error: message})
}

// Error 处理错误
func Error(c *gin.Context, err error) {
	var ve *util.ValidationError
	if errors.As(err, &ve) {
		Fail(c, http.StatusBadRequest, ve.Error())
		return
	}

	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		Fail(c, http.StatusBadRequest, "Invalid parameters")
		return
	}

	// gin 绑定走标准库解码，两套类型都要识别
	var unmarshalTypeError *json.UnmarshalTypeError
	var syntaxError *json.SyntaxError
	var stdTypeError *stdjson.UnmarshalTypeError
	var stdSyntaxError *stdjson.SyntaxError
	if errors.As(err, &unmarshalTypeError) || errors.As(err, &syntaxError) ||
		errors.As(err, &stdTypeError) || errors.As(err, &stdSyntaxError) || errors.Is(err, io.EOF) {
		Fail(c, http.StatusBadRequest, "Malformed JSON body")
		return
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		Fail(c, http.StatusBadRequest, "Upload too large")
		return
	}

	code, public := service.Classify(err)
	if code >= http.StatusInternalServerError {
		log.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "err", err)
	}
	Fail(c, code, public.Error())
}
