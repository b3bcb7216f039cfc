// Package platform provides filesystem operations whose behaviour differs
// across platforms: permission changes and atomic file replacement. On
// Windows, permission bits are not applied.
package platform
