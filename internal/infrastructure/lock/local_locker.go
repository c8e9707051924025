package lock

import (
	"context"
	"sync"

	"github.com/jhoicas/warenwelt-api/internal/application/ports"
)

// LocalLocker locks dentro del proceso, para despliegues de una sola instancia sin Redis.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewLocalLocker crea el locker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: map[string]struct{}{}}
}

// Obtain toma key si está libre; si no, devuelve ports.ErrLockNotObtained.
func (l *LocalLocker) Obtain(_ context.Context, key string) (func(context.Context) error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[key]; busy {
		return nil, ports.ErrLockNotObtained
	}
	l.held[key] = struct{}{}
	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
		return nil
	}, nil
}
