// Package procname names the server process so it is easy to spot in ps and top.
package procname

import "strings"

// kernelLimit is the longest comm name Linux keeps, excluding the NUL.
const kernelLimit = 15

// Clip trims name and cuts it to what the kernel will keep.
func Clip(name string) string {
	name = strings.TrimSpace(name)
	if len(name) > kernelLimit {
		name = name[:kernelLimit]
	}
	return name
}
