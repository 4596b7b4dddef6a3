//go:build !linux

package kaio

import (
	"syscall"
	"time"
)

type aioContextT uintptr

func ioSetup(nrEvents uint32) (aioContextT, error) {
	return 0, syscall.ENOSYS
}

func ioDestroy(ctx aioContextT) error {
	return syscall.ENOSYS
}

func ioSubmit(ctx aioContextT, iocbs []*Iocb) (int, error) {
	return 0, syscall.ENOSYS
}

func ioCancel(ctx aioContextT, iocb *Iocb) (*Event, error) {
	return nil, syscall.ENOSYS
}

func ioGetevents(ctx aioContextT, minRequests, maxRequests int, timeout time.Duration) ([]Event, error) {
	return nil, syscall.ENOSYS
}

func eventfd() (int, error) {
	return -1, syscall.ENOSYS
}

func readEventfdCounter(fd int) (uint64, error) {
	return 0, syscall.ENOSYS
}
