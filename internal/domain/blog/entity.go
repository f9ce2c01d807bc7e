// internal/domain/blog/entity.go
package blog

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/labuuit/backend/internal/domain/user"
)

// Blog represents a blog post. Tags and Categories are stored as
// comma-separated strings; category names are free text, not references
// to the product category taxonomy.
type Blog struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Title           string         `gorm:"not null;size:255" json:"title"`
	Slug            string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	MetaTitle       string         `gorm:"size:255" json:"meta_title"`
	MetaDescription string         `gorm:"size:500" json:"meta_description"`
	Content         string         `gorm:"type:text;not null" json:"content"`
	AuthorID        uint           `gorm:"not null;index" json:"author_id"`
	Image           string         `gorm:"size:500" json:"image"`
	ImageAlt        string         `gorm:"size:255" json:"image_alt"`
	Tags            string         `gorm:"size:500" json:"-"`
	Categories      string         `gorm:"size:500" json:"-"`
	Published       bool           `gorm:"not null" json:"published"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Author user.User `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"author"`
}

// TableName overrides the table name
func (Blog) TableName() string {
	return "blogs"
}

// TagList returns the post's tags as a slice
func (b *Blog) TagList() []string {
	return SplitList(b.Tags)
}

// CategoryList returns the post's category names as a slice
func (b *Blog) CategoryList() []string {
	return SplitList(b.Categories)
}

// SplitList splits a comma-separated value list, trimming whitespace and
// dropping empty entries.
func SplitList(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// JoinList builds the stored comma-separated form of a value list.
func JoinList(values []string) string {
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			cleaned = append(cleaned, v)
		}
	}
	return strings.Join(cleaned, ",")
}
