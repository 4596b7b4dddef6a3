// Command aio-demo exercises one goaio back-end against a scratch file:
// write a payload, then read it back, through the kernel native-AIO context
// or the thread-pool context as chosen by -backend (kernel by default). The
// kernel path also fsyncs the file between the write and the read.
package main

import (
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/kernelaio/goaio"
	"github.com/kernelaio/goaio/internal/logging"
)

func main() {
	backend := flag.String("backend", "kernel", "backend to use: kernel or thread")
	path := flag.String("file", "", "scratch file path (defaults to a temp file)")
	flag.Parse()

	logging.SetDefault(logging.NewLogger(&logging.Config{Level: logging.LevelDebug, Output: os.Stderr}))

	file := *path
	if file == "" {
		f, err := os.CreateTemp("", "aio-demo")
		if err != nil {
			fmt.Fprintln(os.Stderr, "create temp file:", err)
			os.Exit(1)
		}
		file = f.Name()
		defer os.Remove(file)
		f.Close()
	}

	f, err := os.OpenFile(file, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	defer f.Close()
	fd := int(f.Fd())

	payload := []byte("hello from goaio\n")

	switch *backend {
	case "kernel":
		if err := runKernel(fd, payload); err != nil {
			fmt.Fprintln(os.Stderr, "kernel backend:", err)
			os.Exit(1)
		}
	case "thread":
		if err := runThread(fd, payload); err != nil {
			fmt.Fprintln(os.Stderr, "thread backend:", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "unknown backend:", *backend)
		os.Exit(2)
	}
}

func runKernel(fd int, payload []byte) error {
	ctx, err := aio.NewKernelContext(0)
	if err != nil {
		return err
	}
	defer ctx.Close()

	write, err := aio.Write(payload, fd, 0, 0)
	if err != nil {
		return err
	}
	if _, err := ctx.Submit(write); err != nil {
		return err
	}
	if _, err := ctx.ProcessEvents(1, 0, 5*time.Second); err != nil {
		return err
	}
	if _, err := write.Value(); err != nil {
		return err
	}

	fsyncOp := aio.Fsync(fd, 0)
	if _, err := ctx.Submit(fsyncOp); err != nil {
		return err
	}
	if _, err := ctx.ProcessEvents(1, 0, 5*time.Second); err != nil {
		return err
	}

	read, err := aio.Read(len(payload), fd, 0, 0)
	if err != nil {
		return err
	}
	if _, err := ctx.Submit(read); err != nil {
		return err
	}
	if _, err := ctx.ProcessEvents(1, 0, 5*time.Second); err != nil {
		return err
	}
	v, err := read.Value()
	if err != nil {
		return err
	}
	fmt.Printf("kernel backend read back: %q\n", v)
	return nil
}

func runThread(fd int, payload []byte) error {
	ctx, err := aio.NewThreadContext(0, 0)
	if err != nil {
		return err
	}
	defer ctx.Close()

	var wg sync.WaitGroup

	write, err := aio.Write(payload, fd, 0, 0)
	if err != nil {
		return err
	}
	wg.Add(1)
	write.SetCallback(func(int64) { wg.Done() })
	if _, err := ctx.Submit(write); err != nil {
		return err
	}
	wg.Wait()
	if _, err := write.Value(); err != nil {
		return err
	}

	read, err := aio.Read(len(payload), fd, 0, 0)
	if err != nil {
		return err
	}
	wg.Add(1)
	read.SetCallback(func(int64) { wg.Done() })
	if _, err := ctx.Submit(read); err != nil {
		return err
	}
	wg.Wait()
	v, err := read.Value()
	if err != nil {
		return err
	}
	fmt.Printf("thread backend read back: %q\n", v)
	return nil
}
