package profile

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed profiles/*.yaml
var builtinFS embed.FS

// Builtin returns the profiles shipped with dircheck.
func Builtin() []*Profile {
	matches, err := fs.Glob(builtinFS, "profiles/*.yaml")
	if err != nil {
		panic(err)
	}

	profiles := make([]*Profile, 0, len(matches))
	for _, m := range matches {
		data, err := builtinFS.ReadFile(m)
		if err != nil {
			panic(err)
		}
		p, err := Parse(data)
		if err != nil {
			panic(fmt.Sprintf("built-in profile %s: %v", m, err))
		}
		profiles = append(profiles, p)
	}
	return profiles
}
