package usecase

import "errors"

var (
	// ErrValidation はグループ名が空、または色の形式が不正な場合のエラーです。
	ErrValidation = errors.New("invalid group")
	// ErrNotFound は指定IDのグループが存在しない場合のエラーです。
	ErrNotFound = errors.New("group not found")
)
