package shader

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed glsl/*.vert glsl/*.frag
var glslFS embed.FS

// Source holds the GLSL stages of one program.
type Source struct {
	Vertex   string
	Fragment string
}

// LoadSource returns the embedded sources of the program called name
// (glsl/<name>.vert and glsl/<name>.frag).
func LoadSource(name string) (Source, error) {
	vert, err := glslFS.ReadFile(path.Join("glsl", name+".vert"))
	if err != nil {
		return Source{}, fmt.Errorf("program %q: %w", name, err)
	}
	frag, err := glslFS.ReadFile(path.Join("glsl", name+".frag"))
	if err != nil {
		return Source{}, fmt.Errorf("program %q: %w", name, err)
	}
	return Source{Vertex: string(vert), Fragment: string(frag)}, nil
}

// Names lists every program with a vertex stage embedded, sorted.
func Names() []string {
	entries, err := fs.Glob(glslFS, "glsl/*.vert")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(path.Base(e), ".vert"))
	}
	sort.Strings(names)
	return names
}
