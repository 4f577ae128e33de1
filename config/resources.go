package config

import (
	"fmt"
	"strings"
)

// Resources is the set of collections the endpoint exposes.
type Resources int

const (
	Tasks Resources = 1 << iota
	Tests
	Evals
	Experiments
	Variants
	Steps
)

// AllResources enables every collection.
const AllResources = Tasks | Tests | Evals | Experiments | Variants | Steps

var resourceNames = []struct {
	name     string
	resource Resources
}{
	{"Tasks", Tasks},
	{"Tests", Tests},
	{"Evals", Evals},
	{"Experiments", Experiments},
	{"Variants", Variants},
	{"Steps", Steps},
}

func ResourcesOf(names ...string) (Resources, error) {
	var r Resources
	err := r.Add(names...)
	return r, err
}

func (r *Resources) Set(res Resources)           { *r |= res }
func (r *Resources) Clear(res Resources)         { *r &= ^res }
func (r Resources) IsEnabled(res Resources) bool { return r&res != 0 }

func (r *Resources) Add(names ...string) error {
	for _, name := range names {
		found := false
		for _, entry := range resourceNames {
			if strings.EqualFold(entry.name, name) {
				r.Set(entry.resource)
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("invalid resource: %s", name)
		}
	}
	return nil
}

func (r Resources) String() string {
	names := make([]string, 0, len(resourceNames))
	for _, entry := range resourceNames {
		if r.IsEnabled(entry.resource) {
			names = append(names, entry.name)
		}
	}
	return strings.Join(names, ",")
}
