package models

import (
	"time"
)

type Post struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	AuthorID  string    `gorm:"size:64;not null;index:idx_post_author_created,priority:1" json:"authorId"`
	Content   string    `gorm:"size:255;not null" json:"content"`
	ParentID  *string   `gorm:"size:36;index:idx_post_parent_created,priority:1" json:"parentId"` // Nullable for top-level posts
	LikeCount int       `gorm:"default:0;not null" json:"likeCount"`                                // 由 LikeCounter 异步回填
	CreatedAt time.Time `gorm:"not null;index:idx_post_author_created,priority:2;index:idx_post_parent_created,priority:2" json:"createdAt"`

	// Direct children only, loaded on reads
	Comments []Post `gorm:"foreignKey:ParentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"comments"`

	// 非数据库字段，用于查询时填充
	CommentCount int `gorm:"-" json:"commentCount"`
}

// IsComment reports whether the post replies to another post.
func (p *Post) IsComment() bool {
	return p.ParentID != nil
}
