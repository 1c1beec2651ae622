package notify

import (
	"context"
	"net/http"
	"sync"
)

// Recorder is a Sender that keeps messages instead of sending them. Err, when
// set, is returned from every Send.
type Recorder struct {
	Err error

	mutex    sync.Mutex
	messages []Message
}

func (r *Recorder) Send(ctx context.Context, msg Message) (Response, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.messages = append(r.messages, msg)
	if r.Err != nil {
		return Response{}, r.Err
	}
	return Response{StatusCode: http.StatusAccepted, Headers: http.Header{}}, nil
}

// Messages returns a copy of every message passed to Send.
func (r *Recorder) Messages() []Message {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}
