package model

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// MaxCommentImages 每条评论的图片上限
const MaxCommentImages = 3

// Comment 地点评论，被举报后仅标记，删除由管理员手动执行
type Comment struct {
	BaseModel
	SiteRefID   uint           `gorm:"column:site_ref_id;index:idx_site_created;not null" json:"site"`
	Site        *Site          `gorm:"foreignKey:SiteRefID" json:"-"`
	UserName    string         `gorm:"size:200;index;not null" json:"user_name"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	Images      datatypes.JSON `json:"images"`
	IsReported  bool           `gorm:"default:false;index" json:"is_reported"`
	ReportCount int            `gorm:"default:0" json:"report_count"`
	ReportedBy  datatypes.JSON `json:"reported_by"`
	UserID      *uint          `json:"user"`
	User        *User          `gorm:"foreignKey:UserID" json:"-"`
}

func (Comment) TableName() string {
	return "comments"
}

// ImageList 解 JSON 列
func (c *Comment) ImageList() []string {
	var urls []string
	if len(c.Images) > 0 {
		_ = json.Unmarshal(c.Images, &urls)
	}
	return urls
}

// ReporterNames 解 JSON 列
func (c *Comment) ReporterNames() []string {
	var names []string
	if len(c.ReportedBy) > 0 {
		_ = json.Unmarshal(c.ReportedBy, &names)
	}
	return names
}

// HasReported 该用户名是否已举报过
func (c *Comment) HasReported(userName string) bool {
	for _, n := range c.ReporterNames() {
		if n == userName {
			return true
		}
	}
	return false
}

// AddReporter 追加举报人并同步计数与标记
func (c *Comment) AddReporter(userName string) error {
	names := append(c.ReporterNames(), userName)
	data, err := json.Marshal(names)
	if err != nil {
		return err
	}
	c.ReportedBy = datatypes.JSON(data)
	c.ReportCount++
	c.IsReported = true
	return nil
}
