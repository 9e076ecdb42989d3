package controller

import (
	"heritage_edu_backend/internal/service"
	"heritage_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UploadController struct {
	StorageService *service.StorageService
}

func NewUploadController(storageService *service.StorageService) *UploadController {
	return &UploadController{StorageService: storageService}
}

// UploadImage godoc
// @Summary 上传图片
// @Description 限 10MB，只收常见图片格式，文件名重写为 UUID
// @Tags 上传
// @Accept  multipart/form-data
// @Produce  json
// @Param   image formData file true "图片文件"
// @Success 201 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "文件过大或类型不支持"
// @Router /api/upload/image [post]
func (c *UploadController) UploadImage(ctx *gin.Context) {
	header, err := ctx.FormFile("image")
	if err != nil {
		util.BadRequest(ctx, "image file is required")
		return
	}

	url, err := c.StorageService.UploadImage(ctx.Request.Context(), header)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, gin.H{"url": url})
}
