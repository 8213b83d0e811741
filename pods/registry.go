package pods

import (
	"errors"
	"sort"
)

var registry = map[string]Pod{}

func init() {
	Register(ReducePod{})
}

// Register adds a pod under its own name, replacing any previous one.
func Register(p Pod) { registry[p.Name()] = p }

// Names lists registered pods in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Run dispatches in to the named pod.
func Run(name string, ctx *ExecContext, in any) (any, error) {
	p, ok := registry[name]
	if !ok {
		return nil, errors.New("unknown pod: " + name)
	}
	return p.Run(ctx, in)
}
