//go:build windows

package loader

import (
	"sync"

	"golang.org/x/sys/windows"
)

var (
	dllsMu sync.Mutex
	dlls   = map[uintptr]*windows.DLL{}
)

func open(path string) (uintptr, error) {
	dll, err := windows.LoadDLL(path)
	if err != nil {
		return 0, err
	}
	h := uintptr(dll.Handle)
	dllsMu.Lock()
	dlls[h] = dll
	dllsMu.Unlock()
	return h, nil
}

func symbol(handle uintptr, name string) (uintptr, error) {
	dllsMu.Lock()
	dll := dlls[handle]
	dllsMu.Unlock()
	if dll == nil {
		return 0, windows.ERROR_INVALID_HANDLE
	}
	proc, err := dll.FindProc(name)
	if err != nil {
		return 0, err
	}
	return proc.Addr(), nil
}

func closeLib(handle uintptr) error {
	dllsMu.Lock()
	dll := dlls[handle]
	delete(dlls, handle)
	dllsMu.Unlock()
	if dll == nil {
		return nil
	}
	return dll.Release()
}
