package model

// Feedback 游客/学生对地点的反馈，提交后邮件通知管理员
type Feedback struct {
	BaseModel
	SiteRefID uint   `gorm:"column:site_ref_id;index;not null" json:"site"`
	Site      *Site  `gorm:"foreignKey:SiteRefID" json:"-"`
	Name      string `gorm:"size:200" json:"name"`
	Email     string `gorm:"size:254;index" json:"email"`
	Category  string `gorm:"size:50;not null" json:"category"`
	Message   string `gorm:"type:text;not null" json:"message"`
	ImageURL  string `gorm:"size:255" json:"image"`
}

func (Feedback) TableName() string {
	return "feedbacks"
}
