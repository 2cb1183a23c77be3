// Package ntpatch locates the native ntdll without the loader's help,
// resolves exports straight out of mapped PE images, and patches memory in
// other processes with protection save/restore.
//
// The root package is a convenience surface; the work happens under pkg/.
package ntpatch
