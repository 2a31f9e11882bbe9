// Package urls provides centralized constants for the documentation URLs
// printed in error hints and help text.
//
// Usage:
//
//	import "github.com/muurk/mmprobe/internal/urls"
//
//	fmt.Printf("For more information, see: %s\n", urls.PingEndpoint)
package urls
