//go:build (darwin || freebsd || linux || netbsd) && !android

package oodle

import "github.com/ebitengine/purego"

func openLibrary(path string) (func(string) (uintptr, error), error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, err
	}
	return func(name string) (uintptr, error) {
		return purego.Dlsym(handle, name)
	}, nil
}
