// SPDX-License-Identifier: MPL-2.0

package platform

// Host OS name constants for runtime.GOOS comparisons.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)
