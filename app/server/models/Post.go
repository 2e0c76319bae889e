package models

import (
	"strings"

	"gorm.io/gorm"
)

type Post struct {
	gorm.Model

	Title       string  `gorm:"column:title"`
	Content     string  `gorm:"column:content;type:text"` // markdown source
	Excerpt     string  `gorm:"column:excerpt"`
	Category    string  `gorm:"column:category;default:general;index"`
	Tags        string  `gorm:"column:tags"` // normalized comma-joined form, see TagList
	IsPublished bool    `gorm:"column:is_published;index"`
	FeatureImg  *string `gorm:"column:featured_image"` // /uploads/... or a remote URL, NULL when absent

	AuthorID uint  `gorm:"column:author_id;index"` // weak reference, display join only
	Author   *User `gorm:"foreignKey:AuthorID"`
}

func (p *Post) TableName() string {
	return "blog_posts"
}

// TagList splits the stored comma-joined form back into the ordered sequence
// it was created from. Empty storage means no tags, not [""].
func (p *Post) TagList() []string {
	if p.Tags == "" {
		return []string{}
	}
	return strings.Split(p.Tags, ",")
}
