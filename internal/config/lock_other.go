//go:build !unix

package config

// lockFile is a no-op where flock is unavailable; JSONStore's mutex still
// serializes writers within the process.
func lockFile(string) (func(), error) {
	return func() {}, nil
}
