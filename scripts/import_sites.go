// 一次性导入地点数据脚本
//
// 从 GeoJSON 文件读取 FeatureCollection，清空 sites 表后逐条导入。
// feature.properties 里的 id/name/images/conservation_status/dos/donts/legal_excerpt
// 会分别落到对应字段，feature 本体原样存进 geojson 列。
//
// 用法: go run scripts/import_sites.go [fixtures/initial_sites.geojson]

package main

import (
	"encoding/json"
	"heritage_edu_backend/internal/config"
	"heritage_edu_backend/internal/model"
	"heritage_edu_backend/pkg/database"
	"heritage_edu_backend/pkg/logger"
	"log"
	"os"

	"gorm.io/datatypes"
)

type feature struct {
	Type       string                 `json:"type"`
	Geometry   json.RawMessage        `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

func strProp(props map[string]interface{}, key, fallback string) string {
	if v, ok := props[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func main() {
	path := "fixtures/initial_sites.geojson"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}
	logger.InitLogger(cfg)

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("无法读取 GeoJSON 文件 %s: %v", path, err)
	}

	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		log.Fatalf("解析 GeoJSON 失败: %v", err)
	}

	// 全量重导：先清空
	var deleted int64
	db.Model(&model.Site{}).Count(&deleted)
	if err := db.Unscoped().Where("1 = 1").Delete(&model.Site{}).Error; err != nil {
		log.Fatalf("清空 sites 表失败: %v", err)
	}
	log.Printf("已删除 %d 条旧记录", deleted)

	imported := 0
	for _, f := range fc.Features {
		props := f.Properties

		rawFeature, err := json.Marshal(f)
		if err != nil {
			log.Printf("跳过无法序列化的 feature: %v", err)
			continue
		}

		images := []interface{}{}
		if v, ok := props["images"].([]interface{}); ok {
			images = v
		}
		imageJSON, _ := json.Marshal(images)

		conduct := map[string]interface{}{
			"dos":        props["dos"],
			"donts":      props["donts"],
			"lawExcerpt": strProp(props, "legal_excerpt", ""),
			"lawLink":    "",
		}
		conductJSON, _ := json.Marshal(conduct)

		site := model.Site{
			SiteID:             strProp(props, "id", ""),
			Name:               strProp(props, "name", ""),
			GeoJSON:            datatypes.JSON(rawFeature),
			ImageURLs:          datatypes.JSON(imageJSON),
			ConservationStatus: model.ConservationStatus(strProp(props, "conservation_status", "good")),
			Conduct:            datatypes.JSON(conductJSON),
		}

		if err := db.Create(&site).Error; err != nil {
			log.Printf("导入 %s 失败: %v", site.Name, err)
			continue
		}
		log.Printf("✓ %s - %s", site.Name, site.ConservationStatus)
		imported++
	}

	log.Printf("共导入 %d 个地点", imported)
}
