package model

import (
	"time"
)

type UserRole string

const (
	Student    UserRole = "student"
	Tourist    UserRole = "tourist"
	Teacher    UserRole = "teacher"
	SuperAdmin UserRole = "super_admin"
)

// ValidRoles 系统支持的全部角色
var ValidRoles = []UserRole{Student, Tourist, Teacher, SuperAdmin}

// PublicRegisterRoles 公开注册只允许的角色，其他一律回落为 student
var PublicRegisterRoles = []UserRole{Student, Tourist}

func IsValidRole(r UserRole) bool {
	for _, v := range ValidRoles {
		if v == r {
			return true
		}
	}
	return false
}

// IsElevated 教师与超级管理员拥有管理权限
func (r UserRole) IsElevated() bool {
	return r == Teacher || r == SuperAdmin
}

// swagger:model User
type User struct {
	BaseModel
	Username     string     `gorm:"size:150;unique;not null" json:"username"`
	Email        string     `gorm:"size:100" json:"email"`
	Password     string     `gorm:"size:100;not null" json:"-"`
	Role         UserRole   `gorm:"size:20;default:'student'" json:"role"`
	Phone        string     `gorm:"size:20" json:"phone"`
	Organization string     `gorm:"size:100" json:"organization"`
	ClassName    string     `gorm:"size:100" json:"className"`
	SchoolName   string     `gorm:"size:200" json:"schoolName"`
	Notes        string     `gorm:"type:text" json:"notes"`
	LastLogin    *time.Time `json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}
