package entity

import (
	"time"

	"gorm.io/gorm"
)

type Article struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Slug        string         `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Subtitle    *string        `gorm:"size:255" json:"subtitle"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	CoverImage  string         `gorm:"type:text" json:"cover_image"`
	CategoryID  *uint          `gorm:"index" json:"category_id"`
	Category    *Category      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"category,omitempty"`
	AuthorID    uint           `gorm:"not null;index" json:"author_id"`
	Author      User           `gorm:"foreignKey:AuthorID" json:"-"`
	Published   bool           `gorm:"not null" json:"published"`
	PublishedAt *time.Time     `json:"published_at"`
	Tags        []Tag          `gorm:"many2many:article_tags" json:"tags"`
	Gallery     []GalleryImage `gorm:"foreignKey:ArticleID" json:"gallery"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// GalleryImage belongs to exactly one article and is only ever appended.
type GalleryImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ArticleID uint      `gorm:"not null;index" json:"article_id"`
	URL       string    `gorm:"type:text;not null" json:"url"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
