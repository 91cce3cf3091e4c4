package triangle

import (
	"strings"

	vk "github.com/vulkan-go/vulkan"
)

var end = "\x00"
var endChar byte = '\x00'

// safeString makes sure a string handed to Vulkan is NUL terminated
func safeString(s string) string {
	if len(s) == 0 {
		return end
	}
	if s[len(s)-1] != endChar {
		return s + end
	}
	return s
}

// safeStrings returns a NUL terminated copy of list, the input is left untouched
func safeStrings(list []string) []string {
	ret := make([]string, len(list))
	for i := range list {
		ret[i] = safeString(list[i])
	}
	return ret
}

func trimEnd(s string) string {
	return strings.TrimRight(s, end)
}

func containsName(names []string, name string) bool {
	name = trimEnd(name)
	for _, n := range names {
		if trimEnd(n) == name {
			return true
		}
	}
	return false
}

func boolToVK(b bool) vk.Bool32 {
	if b {
		return vk.True
	}
	return vk.False
}

func clampUint32(v, min, max uint32) uint32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
