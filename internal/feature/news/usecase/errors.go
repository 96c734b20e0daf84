package usecase

import "errors"

// ErrUnknownKind は対応していないフィード種別が指定されたことを示します。
var ErrUnknownKind = errors.New("unknown news kind")
