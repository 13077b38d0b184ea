package handler

import (
	"Blogstone/internal/pkg/util"
	"Blogstone/internal/service"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// bind 绑定请求体 (JSON 或表单) 并按 validate 标签校验
func bind(c *gin.Context, obj any) error {
	if err := c.ShouldBind(obj); err != nil {
		return err
	}
	return util.ValidateDTO(obj)
}

func pathID(c *gin.Context, name string) (primitive.ObjectID, error) {
	return service.ParseObjectID(c.Param(name))
}

// readUpload 读取可选的上传文件，未携带时返回 nil
func readUpload(c *gin.Context, field string, maxBytes int64) (*service.ImageUpload, error) {
	file, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if maxBytes > 0 && file.Size > maxBytes {
		return nil, service.ErrFileTooLarge
	}

	reader, err := file.Open()
	if err != nil {
		return nil, service.ErrParamInvalid
	}
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	return &service.ImageUpload{Filename: file.Filename, Data: data}, nil
}
