// Package subprocess manages the kernel child process lifecycle:
// spawning, stdio pipe capture, liveness detection, and termination.
package subprocess
