package usecase

import "errors"

// ErrValidation は選択する銘柄コードが空であることを示します。
var ErrValidation = errors.New("stock code is required")
