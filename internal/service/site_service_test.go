package service

import (
	"encoding/json"
	"heritage_edu_backend/internal/model"
	"heritage_edu_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetSite(t *testing.T) {
	env := newTestEnv(t)
	svc := NewSiteService(env.sites)

	site, err := svc.CreateSite(SiteInput{
		SiteID:  "aqueduct",
		Name:    "Skopje Aqueduct",
		GeoJSON: json.RawMessage(`{"type":"Point","coordinates":[21.42,42.02]}`),
		Conduct: json.RawMessage(`{"dos":["stay on paths"],"donts":["no climbing"]}`),
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusGood, site.ConservationStatus)

	byID, err := svc.GetSite(site.ID)
	require.NoError(t, err)
	assert.Equal(t, "Skopje Aqueduct", byID.Name)

	bySlug, err := svc.GetSiteBySiteID("aqueduct")
	require.NoError(t, err)
	assert.Equal(t, site.ID, bySlug.ID)

	_, err = svc.GetSite(9999)
	assert.ErrorIs(t, err, util.ErrSiteNotFound)
}

func TestUpdateSite(t *testing.T) {
	env := newTestEnv(t)
	svc := NewSiteService(env.sites)
	site := env.createSite(t, "curcer", "Old Name")

	updated, err := svc.UpdateSite(site.ID, SiteInput{
		SiteID:             "curcer",
		Name:               "New Name",
		GeoJSON:            json.RawMessage(`{"type":"Point","coordinates":[1,2]}`),
		ConservationStatus: model.StatusCritical,
		StatusDescription:  "erosion damage",
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, model.StatusCritical, updated.ConservationStatus)
}

func TestFeatureCollection(t *testing.T) {
	env := newTestEnv(t)
	svc := NewSiteService(env.sites)

	good := env.createSite(t, "good-site", "Good Site")
	critical, err := svc.CreateSite(SiteInput{
		SiteID:             "fragile-site",
		Name:               "Fragile Site",
		GeoJSON:            json.RawMessage(`{"type":"Point","coordinates":[20.8,41.1]}`),
		ConservationStatus: model.StatusCritical,
		ImageURLs:          []string{"/uploads/fragile.jpg"},
	})
	require.NoError(t, err)

	fc, err := svc.GetFeatureCollection("")
	require.NoError(t, err)
	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 2)

	byID := map[string]GeoFeature{}
	for _, f := range fc.Features {
		assert.Equal(t, "Feature", f.Type)
		assert.NotNil(t, f.Geometry)
		byID[f.Properties["site_id"].(string)] = f
	}

	// createSite 存的是完整 Feature，geometry 被展开
	var geom map[string]interface{}
	require.NoError(t, json.Unmarshal(byID["good-site"].Geometry, &geom))
	assert.Equal(t, "Point", geom["type"])
	assert.Equal(t, good.Name, byID["good-site"].Properties["name"])

	// 裸 geometry 原样保留并注入平台字段
	fragile := byID["fragile-site"]
	assert.Equal(t, critical.Name, fragile.Properties["name"])
	assert.Equal(t, model.StatusCritical, fragile.Properties["conservation_status"])
	assert.Equal(t, []string{"/uploads/fragile.jpg"}, fragile.Properties["image_urls"])

	// 按保护状态筛选
	filtered, err := svc.GetFeatureCollection(model.StatusCritical)
	require.NoError(t, err)
	require.Len(t, filtered.Features, 1)
	assert.Equal(t, "fragile-site", filtered.Features[0].Properties["site_id"])
}

func TestDeleteSite(t *testing.T) {
	env := newTestEnv(t)
	svc := NewSiteService(env.sites)
	site := env.createSite(t, "doomed", "Doomed Site")

	require.NoError(t, svc.DeleteSite(site.ID))
	_, err := svc.GetSite(site.ID)
	assert.ErrorIs(t, err, util.ErrSiteNotFound)
}
