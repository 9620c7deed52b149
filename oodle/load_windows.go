//go:build windows

package oodle

import "golang.org/x/sys/windows"

func openLibrary(path string) (func(string) (uintptr, error), error) {
	handle, err := windows.LoadLibrary(path)
	if err != nil {
		return nil, err
	}
	return func(name string) (uintptr, error) {
		return windows.GetProcAddress(handle, name)
	}, nil
}
