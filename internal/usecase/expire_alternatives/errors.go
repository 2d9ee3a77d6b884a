package expire_alternatives

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("expire_alternatives: internal error")
)
