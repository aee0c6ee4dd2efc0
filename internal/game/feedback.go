package game

import "time"

const (
	MsgSwish       = "Swish!"
	MsgBucket      = "Bucket!"
	MsgNewRound    = "New Round"
	MsgPracticeOn  = "Practice Mode On - Endless"
	MsgPracticeOff = "Practice Mode Off"
)

type FeedbackKind string

const (
	KindToast FeedbackKind = "toast"
	KindCue   FeedbackKind = "cue"
)

// Cue names a sound the client may play.
type Cue string

const (
	CueRim       Cue = "rim"
	CueBackboard Cue = "backboard"
	CueDribble   Cue = "dribble"
	CueNet       Cue = "net"
)

// Feedback is a user-facing event produced by the core.
type Feedback struct {
	Kind    FeedbackKind `json:"kind"`
	Message string       `json:"message"`
}

// Toast is the current toast message and whether it is showing.
type Toast struct {
	Message string `json:"message"`
	Visible bool   `json:"visible"`
}

// setToast shows msg, replacing any toast still on screen and its hide timer.
func (c *Core) setToast(msg string) {
	c.toast = Toast{Message: msg, Visible: true}
	c.feedback = append(c.feedback, Feedback{Kind: KindToast, Message: msg})
	c.sched.After(keyToast, time.Duration(c.tun.Feedback.ToastMs)*time.Millisecond, func() {
		c.toast.Visible = false
	})
}

func (c *Core) cue(q Cue) {
	c.feedback = append(c.feedback, Feedback{Kind: KindCue, Message: string(q)})
}

// DrainFeedback returns and clears the events produced since the last call.
func (c *Core) DrainFeedback() []Feedback {
	out := c.feedback
	c.feedback = nil
	return out
}
