package utils

import (
	"net/url"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// DefaultAvatarURL 根据用户名生成默认头像地址
func DefaultAvatarURL(username string) string {
	return "https://api.dicebear.com/7.x/identicon/svg?seed=" + url.QueryEscape(username)
}
