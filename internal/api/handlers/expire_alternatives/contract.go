package expire_alternatives

import (
	"context"

	expireAlternatives "github.com/m04kA/SMC-SchedulingService/internal/usecase/expire_alternatives"
)

type ExpireAlternativesUseCase interface {
	Execute(ctx context.Context) (*expireAlternatives.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
