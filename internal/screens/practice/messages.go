package practice

import "github.com/abhisek/parley/internal/listen"

// replyMsg carries the tutor's reply for the turn in flight.
type replyMsg struct {
	Reply string
	Err   error
}

// listenStateMsg reports a capture progressing to a non-terminal state.
type listenStateMsg struct {
	State listen.State
}

// listenDoneMsg is the final message of every capture, also sent when the
// listener panics.
type listenDoneMsg struct {
	Result listen.Result
	Err    error
}

// quitTickMsg fires once the goodbye has had time to play.
type quitTickMsg struct{}
