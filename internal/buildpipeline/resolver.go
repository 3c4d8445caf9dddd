package buildpipeline

import (
	"weslbuild/internal/compiler"
	"weslbuild/internal/modpath"
	"weslbuild/internal/source"
)

// treeResolver serves sibling module sources to the compiler from the walked
// tree, reading files on first use.
type treeResolver struct {
	units map[string]*source.Unit
}

func newTreeResolver(units []source.Unit) *treeResolver {
	r := &treeResolver{units: make(map[string]*source.Unit, len(units))}
	for i := range units {
		r.units[units[i].Module.String()] = &units[i]
	}
	return r
}

var _ compiler.Resolver = (*treeResolver)(nil)

func (r *treeResolver) Resolve(path modpath.Path) (string, bool) {
	u, ok := r.units[path.String()]
	if !ok {
		return "", false
	}
	if u.Text == "" {
		if err := u.Load(); err != nil {
			return "", false
		}
	}
	return u.Text, true
}
