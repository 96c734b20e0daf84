package usecase

import "errors"

var (
	// ErrDuplicateCode は同じコードの銘柄が既に登録されている場合のエラーです。
	ErrDuplicateCode = errors.New("stock code already registered")
	// ErrValidation はコードまたは銘柄名が空の場合のエラーです。
	ErrValidation = errors.New("invalid stock")
	// ErrNotFound は指定コードの銘柄、または指定グループが存在しない場合のエラーです。
	ErrNotFound = errors.New("not found")
)
