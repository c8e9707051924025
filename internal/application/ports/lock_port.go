package ports

import (
	"context"
	"errors"
)

// ErrLockNotObtained el recurso ya está bloqueado por otro proceso.
var ErrLockNotObtained = errors.New("lock: recurso ocupado")

// Locker define el puerto de salida para exclusión mutua entre instancias (ej. Redis).
// Obtain devuelve la función que libera el lock; si el lock está tomado retorna ErrLockNotObtained.
type Locker interface {
	Obtain(ctx context.Context, key string) (release func(context.Context) error, err error)
}

// NoopLocker no bloquea nada; se usa cuando no hay Redis configurado (una sola instancia).
type NoopLocker struct{}

// Obtain siempre concede el lock.
func (NoopLocker) Obtain(context.Context, string) (func(context.Context) error, error) {
	return func(context.Context) error { return nil }, nil
}
