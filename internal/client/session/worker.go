package session

import (
	"context"
	"errors"

	"github.com/splitvault/splitvault/internal/cryptox"
)

// ErrClosed is returned by Derive after the session has been torn down.
var ErrClosed = errors.New("session closed")

type deriveRequest struct {
	username string
	password []byte
	// reply is buffered so an abandoned caller never blocks the worker.
	reply chan deriveResult
}

type deriveResult struct {
	secrets *cryptox.DerivedSecrets
	err     error
}

// deriveWorker runs password hashing off the interactive path on a single
// long-lived goroutine. The request channel is unbuffered: exactly one
// derivation is in flight, a second caller queues on the send.
type deriveWorker struct {
	params   cryptox.Argon2Params
	requests chan deriveRequest
	done     chan struct{}
}

func newDeriveWorker(params cryptox.Argon2Params) *deriveWorker {
	w := &deriveWorker{
		params:   params,
		requests: make(chan deriveRequest),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w
}

func (w *deriveWorker) loop() {
	for {
		select {
		case req := <-w.requests:
			secrets, err := cryptox.DeriveSecrets(req.username, req.password, w.params)
			req.reply <- deriveResult{secrets: secrets, err: err}
		case <-w.done:
			return
		}
	}
}

// derive submits one request and waits for the result. If ctx ends first,
// the in-flight work is abandoned and its result discarded.
func (w *deriveWorker) derive(ctx context.Context, username string, password []byte) (*cryptox.DerivedSecrets, error) {
	req := deriveRequest{
		username: username,
		password: password,
		reply:    make(chan deriveResult, 1),
	}

	select {
	case w.requests <- req:
	case <-w.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-req.reply:
		return res.secrets, res.err
	case <-w.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (w *deriveWorker) close() {
	close(w.done)
}
