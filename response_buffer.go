package rhttp

import (
	"bytes"
	"net/http"
	"sync"

	"github.com/cockroachdb/errors"
)

// ErrBufferFull is returned from writes that would grow the buffered response beyond the
// configured limit. Nothing of the offending write is kept.
var ErrBufferFull = errors.New("rhttp: response buffer is full")

var bufPool = sync.Pool{New: func() any { return new(bytes.Buffer) }}

// ResponseBuffer implements http.ResponseWriter while keeping all writes in memory until
// flushed. Until the first explicit flush the response can be reset and rebuilt from
// scratch; after that the status and headers are on the wire and the response counts
// as started.
type ResponseBuffer struct {
	resp    http.ResponseWriter
	buf     *bytes.Buffer
	limit   int
	header  http.Header
	status  int
	flushed bool
}

// NewResponseBuffer inits a buffered response on top of resp. A negative limit disables
// the size check.
func NewResponseBuffer(resp http.ResponseWriter, limit int) *ResponseBuffer {
	buf, _ := bufPool.Get().(*bytes.Buffer)

	return &ResponseBuffer{
		resp:   resp,
		buf:    buf,
		limit:  limit,
		header: make(http.Header),
	}
}

// Header returns the header map of the buffered response. It is applied to the underlying
// writer on the first flush; changes after that point are not transmitted.
func (b *ResponseBuffer) Header() http.Header { return b.header }

// WriteHeader records the status code for the buffered response. The first call since
// construction (or the last [ResponseBuffer.Reset]) wins.
func (b *ResponseBuffer) WriteHeader(status int) {
	if b.status == 0 {
		b.status = status
	}
}

// Write appends p to the buffer. It fails with [ErrBufferFull] without keeping any part
// of p when the write would exceed the limit.
func (b *ResponseBuffer) Write(p []byte) (int, error) {
	if b.limit >= 0 && b.buf.Len()+len(p) > b.limit {
		return 0, ErrBufferFull
	}

	return b.buf.Write(p)
}

// Started reports whether the response has begun transmission. It latches on the first
// explicit flush and never resets for the life of the response.
func (b *ResponseBuffer) Started() bool { return b.flushed }

// Flush implements http.Flusher, discarding any flush error.
func (b *ResponseBuffer) Flush() { _ = b.FlushError() }

// FlushError sends headers and the buffered bytes to the underlying writer and marks the
// response as started. The buffer is drained so follow-up writes start a fresh chunk.
func (b *ResponseBuffer) FlushError() error {
	b.sendHeader()

	if _, err := b.buf.WriteTo(b.resp); err != nil {
		return errors.Wrap(err, "failed to flush buffered response")
	}

	if fl, ok := b.resp.(http.Flusher); ok {
		fl.Flush()
	}

	return nil
}

// FlushBuffer performs the final implicit flush after the request has been served. Unlike
// [ResponseBuffer.FlushError] it does not force bytes onto the wire eagerly.
func (b *ResponseBuffer) FlushBuffer() error {
	b.sendHeader()

	if _, err := b.buf.WriteTo(b.resp); err != nil {
		return errors.Wrap(err, "failed to write buffered response")
	}

	return nil
}

// Reset discards everything written or set on the buffered response so far, allowing a
// completely new response to be formulated. It panics when the response was already flushed.
func (b *ResponseBuffer) Reset() {
	if b.flushed {
		panic("rhttp: cannot reset: response already flushed")
	}

	b.buf.Reset()
	b.status = 0
	clear(b.header)
}

// Free returns the underlying buffer to the pool. The ResponseBuffer must not be used
// afterwards.
func (b *ResponseBuffer) Free() {
	if b.buf == nil {
		return
	}

	b.buf.Reset()
	bufPool.Put(b.buf)
	b.buf = nil
}

// Unwrap returns the underlying writer, which allows http.ResponseController to reach
// optional interfaces we don't implement ourselves.
func (b *ResponseBuffer) Unwrap() http.ResponseWriter { return b.resp }

// setStatus force-sets the status regardless of earlier WriteHeader calls. It backs the
// context's response status mutation and is a no-op once the header went out.
func (b *ResponseBuffer) setStatus(status int) {
	if b.flushed {
		return
	}

	b.status = status
}

func (b *ResponseBuffer) sendHeader() {
	if b.flushed {
		return
	}

	b.flushed = true

	dst := b.resp.Header()
	for k, v := range b.header {
		dst[k] = v
	}

	status := b.status
	if status == 0 {
		status = http.StatusOK
	}

	b.resp.WriteHeader(status)
}
