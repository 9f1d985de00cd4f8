//go:build !windows

// Package stderr captures what native audio libraries write straight to
// file descriptor 2, so it cannot corrupt the terminal UI, and forwards it
// to a logger.
package stderr

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"
)

// redirect is an installed capture of fd 2.
type redirect struct {
	fd    int
	saved int
	r, w  *os.File
	done  chan struct{}
}

// Capture points fd 2 at a pipe whose lines are logged at warn level.
// The returned func restores the original stderr and must run before the
// process exits. On error stderr is left untouched.
func Capture(logger *log.Logger) (func(), error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	rd := &redirect{fd: int(os.Stderr.Fd()), r: r, w: w, done: make(chan struct{})}
	if err := rd.install(); err != nil {
		r.Close()
		w.Close()
		return nil, err
	}
	go func() {
		defer close(rd.done)
		forward(r, logger)
	}()
	return rd.restore, nil
}

func (rd *redirect) install() error {
	saved, err := unix.Dup(rd.fd)
	if err != nil {
		return err
	}
	if err := unix.Dup2(int(rd.w.Fd()), rd.fd); err != nil {
		unix.Close(saved)
		return err
	}
	rd.saved = saved
	return nil
}

// restore puts the saved descriptor back and waits for buffered lines to
// be logged.
func (rd *redirect) restore() {
	_ = unix.Dup2(rd.saved, rd.fd)
	_ = unix.Close(rd.saved)
	// fd 2 no longer refers to the pipe; closing w ends the reader.
	rd.w.Close()
	<-rd.done
	rd.r.Close()
}

// forward logs every non-blank line read from r until EOF.
func forward(r io.Reader, logger *log.Logger) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			logger.Warn("native output", "line", line)
		}
	}
}
