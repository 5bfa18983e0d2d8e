package storage

import "errors"

var (
	ErrPackageNotFound    = errors.New("package not found")
	ErrBlogNotFound       = errors.New("blog not found")
	ErrQueryNotFound      = errors.New("query not found")
	ErrSlugExists         = errors.New("slug already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

var (
	ErrFileTooLarge    = errors.New("file size exceeds limit")
	ErrInvalidFileType = errors.New("invalid file type")
)
