package models

import (
	"gorm.io/datatypes"
)

type Upload struct {
	BaseModel
	UserID          string `gorm:"type:varchar(36);not null;index"`
	OriginalName    string `gorm:"column:original_name;type:varchar(255)"`
	Path            string `gorm:"type:varchar(1024);not null"`
	URL             string `gorm:"column:url;type:varchar(1024)"`
	MimeType        string `gorm:"type:varchar(100)"`
	Size            int64
	StorageProvider string         `gorm:"column:storage_provider;type:varchar(20);default:'local'"`
	Metadata        datatypes.JSON `gorm:"column:metadata"`
}
