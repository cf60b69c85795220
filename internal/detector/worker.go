package detector

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"
)

// worker is a long-running child process answering length-prefixed requests
// with one line each. It is started on the first call and stopped after
// sitting idle for the configured duration.
type worker struct {
	name string
	args []string
	idle time.Duration

	mu    sync.Mutex
	cmd   *exec.Cmd
	in    io.WriteCloser
	out   *bufio.Reader
	timer *time.Timer
}

func newWorker(name string, args []string, idle time.Duration) *worker {
	return &worker{name: name, args: args, idle: idle}
}

// call sends one payload and returns the reply line. Any I/O failure stops
// the process so the next call starts a fresh one.
func (w *worker) call(payload []byte) ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cmd == nil {
		if err := w.start(); err != nil {
			return nil, err
		}
	}

	line, err := w.exchange(payload)
	if err != nil {
		w.stop()
		return nil, err
	}

	w.armTimer()
	return line, nil
}

func (w *worker) exchange(payload []byte) ([]byte, error) {
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))

	if _, err := w.in.Write(header[:]); err != nil {
		return nil, fmt.Errorf("write length: %w", err)
	}
	if _, err := w.in.Write(payload); err != nil {
		return nil, fmt.Errorf("write payload: %w", err)
	}

	line, err := w.out.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read reply: %w", err)
	}
	return line, nil
}

func (w *worker) start() error {
	cmd := exec.Command(w.name, w.args...)
	cmd.Stderr = os.Stderr

	in, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}
	out, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", w.name, err)
	}

	w.cmd, w.in, w.out = cmd, in, bufio.NewReader(out)
	return nil
}

// stop closes stdin and waits for the process. w.mu must be held.
func (w *worker) stop() error {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if w.cmd == nil {
		return nil
	}

	w.in.Close()
	err := w.cmd.Wait()
	w.cmd, w.in, w.out = nil, nil, nil
	return err
}

func (w *worker) armTimer() {
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.idle, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		w.stop()
	})
}

// running reports whether the process is up.
func (w *worker) running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cmd != nil
}

// close stops the process if it is running.
func (w *worker) close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stop()
}
