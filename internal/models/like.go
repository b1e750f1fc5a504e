package models

import (
	"time"
)

// Like 点赞 - 每个用户对同一帖子最多一条
type Like struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex:idx_like_user_post" json:"userId"`
	PostID    string    `gorm:"size:36;not null;index;uniqueIndex:idx_like_user_post" json:"postId"`
	Post      Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}
