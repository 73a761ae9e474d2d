package node

import "os"

// Name returns the name this node reports itself with. The first non
// empty value wins: override, $NODE_NAME, $HOSTNAME, the kernel host
// name and finally "unknown".
func Name(override string) string {
	if override != "" {
		return override
	}
	for _, key := range []string{"NODE_NAME", "HOSTNAME"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	if h, err := os.Hostname(); err == nil && h != "" {
		return h
	}
	return "unknown"
}
