package usecase

import "errors"

var (
	// ErrValidation は銘柄コードが指定されていないことを示します。
	ErrValidation = errors.New("stock code is required")
	// ErrUnknownSite はサイト表に存在しないサイトが指定されたことを示します。
	ErrUnknownSite = errors.New("unknown site")
)
