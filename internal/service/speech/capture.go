package speech

import "sync"

// Replies surfaced into the conversation when capture cannot run. The client
// reports the condition; the orchestrator announces these texts.
const (
	CaptureUnavailableReply = "I can't access speech recognition in this browser. Try Chrome or Edge for full features."
	CaptureErrorReply       = "I couldn't hear anything. Please make sure microphone access is granted."
)

// CaptureEvent kinds. Each activation terminates in exactly one of these.
const (
	CaptureResult = "result"
	CaptureError  = "error"
	CaptureEnded  = "ended"
)

// CaptureEvent is the tagged outcome of one capture activation.
type CaptureEvent struct {
	Kind       string
	Transcript string
	Err        string
}

// Capturer holds the exclusive speech-capture session state. Only one session
// may be active; requesting capture while one is active stops it instead.
type Capturer struct {
	mu     sync.Mutex
	active bool
}

// NewCapturer returns an idle capturer.
func NewCapturer() *Capturer {
	return &Capturer{}
}

// Toggle flips the session: it reports true when a new session started and
// false when an active one was stopped. Stopping emits no result.
func (c *Capturer) Toggle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = !c.active
	return c.active
}

// Stop force-ends the session, e.g. after a capture error.
func (c *Capturer) Stop() {
	c.mu.Lock()
	c.active = false
	c.mu.Unlock()
}

// Listening reports whether a capture session is active.
func (c *Capturer) Listening() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Deliver terminates the active session with the event and reports whether a
// session was actually active. Events arriving after a stop are dropped.
func (c *Capturer) Deliver(CaptureEvent) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return false
	}
	c.active = false
	return true
}
