package repository

import (
	"errors"
	"heritage_edu_backend/internal/model"
	"heritage_edu_backend/internal/util"

	"gorm.io/gorm"
)

type SiteRepository struct {
	DB *gorm.DB
}

func NewSiteRepository(db *gorm.DB) *SiteRepository {
	return &SiteRepository{DB: db}
}

func (r *SiteRepository) Create(site *model.Site) error {
	return r.DB.Create(site).Error
}

func (r *SiteRepository) FindByID(id uint) (*model.Site, error) {
	var site model.Site
	err := r.DB.First(&site, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSiteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *SiteRepository) FindBySiteID(siteID string) (*model.Site, error) {
	var site model.Site
	err := r.DB.Where("site_id = ?", siteID).First(&site).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSiteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *SiteRepository) FindAll() ([]model.Site, error) {
	var sites []model.Site
	err := r.DB.Order("id").Find(&sites).Error
	return sites, err
}

// FindByConservationStatus 按保护状态筛选
func (r *SiteRepository) FindByConservationStatus(status model.ConservationStatus) ([]model.Site, error) {
	var sites []model.Site
	err := r.DB.Where("conservation_status = ?", status).Order("id").Find(&sites).Error
	return sites, err
}

func (r *SiteRepository) Update(site *model.Site) error {
	return r.DB.Save(site).Error
}

func (r *SiteRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Site{}, id).Error
}

func (r *SiteRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Site{}).Count(&count).Error
	return count, err
}
