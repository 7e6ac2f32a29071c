package system

import "backdrop-api/internal/domain"

type methodsProvider interface {
	Methods() []domain.MethodInfo
	APIConfigured() bool
}
