package controller

import (
	"errors"
	"heritage_edu_backend/internal/model"
	"heritage_edu_backend/internal/service"
	"heritage_edu_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type SiteController struct {
	SiteService *service.SiteService
}

func NewSiteController(siteService *service.SiteService) *SiteController {
	return &SiteController{SiteService: siteService}
}

// GetFeatureCollection godoc
// @Summary 地点 GeoJSON
// @Description 全部地点的 FeatureCollection，properties 含保护状态与行为准则
// @Tags 地点
// @Produce  json
// @Param   conservation_status query string false "按保护状态筛选 critical/watch/good"
// @Success 200 {object} service.FeatureCollection
// @Router /api/sites/geojson [get]
func (c *SiteController) GetFeatureCollection(ctx *gin.Context) {
	status := model.ConservationStatus(ctx.Query("conservation_status"))
	fc, err := c.SiteService.GetFeatureCollection(status)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	// GeoJSON 端点直接返回裸 FeatureCollection，方便地图库消费
	ctx.JSON(200, fc)
}

// ListSites godoc
// @Summary 地点列表
// @Tags 地点
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Site}
// @Router /api/sites [get]
func (c *SiteController) ListSites(ctx *gin.Context) {
	sites, err := c.SiteService.ListSites()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, sites)
}

// GetSite godoc
// @Summary 地点详情
// @Tags 地点
// @Produce  json
// @Param   id path int true "地点 ID"
// @Success 200 {object} util.Response{data=model.Site}
// @Failure 404 {object} util.Response "地点不存在"
// @Router /api/sites/{id} [get]
func (c *SiteController) GetSite(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		// 兼容字符串 site_id 查询
		site, serr := c.SiteService.GetSiteBySiteID(ctx.Param("id"))
		if serr != nil {
			util.NotFound(ctx)
			return
		}
		util.Success(ctx, site)
		return
	}

	site, err := c.SiteService.GetSite(uint(id))
	if err != nil {
		if errors.Is(err, util.ErrSiteNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, site)
}

// CreateSite godoc
// @Summary 创建地点
// @Tags 地点
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.SiteInput true "地点信息"
// @Success 201 {object} util.Response{data=model.Site}
// @Router /api/admin/sites [post]
func (c *SiteController) CreateSite(ctx *gin.Context) {
	var in service.SiteInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	site, err := c.SiteService.CreateSite(in)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, site)
}

// UpdateSite godoc
// @Summary 更新地点
// @Tags 地点
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "地点 ID"
// @Param   body body service.SiteInput true "地点信息"
// @Success 200 {object} util.Response{data=model.Site}
// @Failure 404 {object} util.Response "地点不存在"
// @Router /api/admin/sites/{id} [put]
func (c *SiteController) UpdateSite(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid site id")
		return
	}

	var in service.SiteInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	site, err := c.SiteService.UpdateSite(uint(id), in)
	if err != nil {
		if errors.Is(err, util.ErrSiteNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, site)
}

// DeleteSite godoc
// @Summary 删除地点
// @Tags 地点
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "地点 ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "地点不存在"
// @Router /api/admin/sites/{id} [delete]
func (c *SiteController) DeleteSite(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid site id")
		return
	}

	if err := c.SiteService.DeleteSite(uint(id)); err != nil {
		if errors.Is(err, util.ErrSiteNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
