package utils

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// GenerateShareCode returns a short public code used in event share links.
func GenerateShareCode() string {
	code, err := gonanoid.Generate("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz", 8)
	if err != nil {
		return ""
	}
	return code
}
