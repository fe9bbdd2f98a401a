package shader

import (
	"fmt"

	"go.uber.org/zap"
)

// Library compiles embedded programs on first request and keeps them for
// the lifetime of the GL context.
type Library struct {
	programs map[string]*Program
	log      *zap.Logger
}

// NewLibrary creates an empty library.
func NewLibrary(log *zap.Logger) *Library {
	return &Library{
		programs: make(map[string]*Program),
		log:      log,
	}
}

// Program returns the program called name, compiling it if needed.
func (l *Library) Program(name string) (*Program, error) {
	if p, ok := l.programs[name]; ok {
		return p, nil
	}

	src, err := LoadSource(name)
	if err != nil {
		return nil, err
	}
	p, err := NewProgram(name, src.Vertex, src.Fragment, l.log)
	if err != nil {
		return nil, fmt.Errorf("compiling program %q: %w", name, err)
	}

	l.programs[name] = p
	l.log.Debug("program compiled", zap.String("name", name), zap.Uint32("id", p.ID()))
	return p, nil
}

// Close deletes every compiled program.
func (l *Library) Close() {
	for name, p := range l.programs {
		p.Destroy()
		delete(l.programs, name)
	}
}
