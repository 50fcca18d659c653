package jobqueue

import (
	"encoding/json"
	stderrors "errors"

	"VenueHub/app/common/consts/errno"

	"github.com/zeromicro/x/errors"
)

type Kind int

const (
	KindOk Kind = iota
	KindRetryable
	KindFatal
)

// Result is what a handler hands back to the dispatch loop. Ok and Fatal
// complete the job; Retryable fails the attempt.
type Result struct {
	kind  Kind
	value any
	err   error
}

func Ok(v any) Result { return Result{kind: KindOk, value: v} }

func Retryable(err error) Result { return Result{kind: KindRetryable, err: err} }

func Fatal(err error) Result { return Result{kind: KindFatal, err: err} }

func (r Result) Kind() Kind { return r.kind }
func (r Result) Err() error { return r.err }
func (r Result) Value() any { return r.value }

// Classify turns a (value, error) pair into a Result: coded domain errors
// are deterministic and become Fatal, anything else is retried.
func Classify(v any, err error) Result {
	if err == nil {
		return Ok(v)
	}
	var cm *errors.CodeMsg
	if stderrors.As(err, &cm) {
		return Fatal(err)
	}
	return Retryable(err)
}

// Reply is the structured value stored for a completed job.
type Reply struct {
	Error   bool            `json:"error"`
	Data    json.RawMessage `json:"data,omitempty"`
	Code    int             `json:"code,omitempty"`
	Status  int             `json:"status,omitempty"`
	Message string          `json:"message,omitempty"`
}

func (r Result) reply() (Reply, error) {
	if r.kind == KindFatal {
		code, msg := errno.InternalError, "job failed"
		var cm *errors.CodeMsg
		switch {
		case stderrors.As(r.err, &cm):
			code, msg = cm.Code, cm.Msg
		case r.err != nil:
			msg = r.err.Error()
		}
		return Reply{Error: true, Code: code, Status: errno.HTTPStatus(code), Message: msg}, nil
	}
	if r.value == nil {
		return Reply{}, nil
	}
	if raw, ok := r.value.(json.RawMessage); ok {
		return Reply{Data: raw}, nil
	}
	b, err := json.Marshal(r.value)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Data: b}, nil
}

// Err re-raises a structured failure as the coded error it came from.
func (r Reply) Err() error {
	if !r.Error {
		return nil
	}
	code := r.Code
	if code == 0 {
		code = errno.InternalError
	}
	return errors.New(code, r.Message)
}
