package app

import (
	"github.com/vk/bbscript/internal/hcl"
	"github.com/vk/bbscript/internal/profile"
	"github.com/vk/bbscript/internal/yaml"
)

// coreLoaders is the list of profile formats compiled into the binary, in
// lookup order.
func coreLoaders() []profile.Loader {
	return []profile.Loader{
		hcl.NewLoader(),
		yaml.NewLoader(),
	}
}
