package service

import (
	"encoding/json"
	"heritage_edu_backend/internal/model"
	"heritage_edu_backend/internal/repository"

	"gorm.io/datatypes"
)

type SiteService struct {
	SiteRepo *repository.SiteRepository
}

func NewSiteService(siteRepo *repository.SiteRepository) *SiteService {
	return &SiteService{SiteRepo: siteRepo}
}

// GeoFeature GeoJSON Feature，properties 里合并保护状态与行为准则
type GeoFeature struct {
	Type       string                 `json:"type"`
	Geometry   json.RawMessage        `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// FeatureCollection 标准 GeoJSON FeatureCollection
type FeatureCollection struct {
	Type     string       `json:"type"`
	Features []GeoFeature `json:"features"`
}

// siteToFeature 把存储的 GeoJSON 展开并注入平台字段
func siteToFeature(site *model.Site) GeoFeature {
	feature := GeoFeature{
		Type:       "Feature",
		Properties: map[string]interface{}{},
	}

	// 存储的可能是完整 Feature，也可能只有 geometry
	var stored struct {
		Type       string                 `json:"type"`
		Geometry   json.RawMessage        `json:"geometry"`
		Properties map[string]interface{} `json:"properties"`
	}
	if err := json.Unmarshal(site.GeoJSON, &stored); err == nil && stored.Geometry != nil {
		feature.Geometry = stored.Geometry
		if stored.Properties != nil {
			feature.Properties = stored.Properties
		}
	} else {
		feature.Geometry = json.RawMessage(site.GeoJSON)
	}

	feature.Properties["id"] = site.ID
	feature.Properties["site_id"] = site.SiteID
	feature.Properties["name"] = site.Name
	feature.Properties["conservation_status"] = site.ConservationStatus
	feature.Properties["status_description"] = site.StatusDescription

	if len(site.ImageURLs) > 0 {
		var urls []string
		if err := json.Unmarshal(site.ImageURLs, &urls); err == nil {
			feature.Properties["image_urls"] = urls
		}
	}
	if len(site.Conduct) > 0 {
		var conduct map[string]interface{}
		if err := json.Unmarshal(site.Conduct, &conduct); err == nil {
			feature.Properties["conduct"] = conduct
		}
	}

	return feature
}

// GetFeatureCollection 全部地点的 GeoJSON 视图，可按保护状态筛选
func (s *SiteService) GetFeatureCollection(status model.ConservationStatus) (*FeatureCollection, error) {
	var sites []model.Site
	var err error
	if status != "" {
		sites, err = s.SiteRepo.FindByConservationStatus(status)
	} else {
		sites, err = s.SiteRepo.FindAll()
	}
	if err != nil {
		return nil, err
	}

	fc := &FeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]GeoFeature, 0, len(sites)),
	}
	for i := range sites {
		fc.Features = append(fc.Features, siteToFeature(&sites[i]))
	}
	return fc, nil
}

func (s *SiteService) GetSite(id uint) (*model.Site, error) {
	return s.SiteRepo.FindByID(id)
}

func (s *SiteService) GetSiteBySiteID(siteID string) (*model.Site, error) {
	return s.SiteRepo.FindBySiteID(siteID)
}

func (s *SiteService) ListSites() ([]model.Site, error) {
	return s.SiteRepo.FindAll()
}

// SiteInput 创建/更新地点的入参
type SiteInput struct {
	SiteID             string                   `json:"site_id" binding:"required"`
	Name               string                   `json:"name" binding:"required"`
	GeoJSON            json.RawMessage          `json:"geojson" binding:"required"`
	ImageURLs          []string                 `json:"image_urls"`
	ConservationStatus model.ConservationStatus `json:"conservation_status"`
	StatusDescription  string                   `json:"status_description"`
	Conduct            json.RawMessage          `json:"conduct"`
}

func (in *SiteInput) apply(site *model.Site) error {
	site.SiteID = in.SiteID
	site.Name = in.Name
	site.GeoJSON = datatypes.JSON(in.GeoJSON)
	site.StatusDescription = in.StatusDescription

	if in.ConservationStatus != "" {
		site.ConservationStatus = in.ConservationStatus
	} else if site.ConservationStatus == "" {
		site.ConservationStatus = model.StatusGood
	}

	if in.ImageURLs != nil {
		data, err := json.Marshal(in.ImageURLs)
		if err != nil {
			return err
		}
		site.ImageURLs = datatypes.JSON(data)
	}
	if in.Conduct != nil {
		site.Conduct = datatypes.JSON(in.Conduct)
	}
	return nil
}

func (s *SiteService) CreateSite(in SiteInput) (*model.Site, error) {
	site := &model.Site{}
	if err := in.apply(site); err != nil {
		return nil, err
	}
	if err := s.SiteRepo.Create(site); err != nil {
		return nil, err
	}
	return site, nil
}

func (s *SiteService) UpdateSite(id uint, in SiteInput) (*model.Site, error) {
	site, err := s.SiteRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(site); err != nil {
		return nil, err
	}
	if err := s.SiteRepo.Update(site); err != nil {
		return nil, err
	}
	return site, nil
}

func (s *SiteService) DeleteSite(id uint) error {
	if _, err := s.SiteRepo.FindByID(id); err != nil {
		return err
	}
	return s.SiteRepo.Delete(id)
}
