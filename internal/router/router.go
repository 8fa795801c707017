package router

import (
	"github.com/abhisek/parley/internal/screen"

	tea "charm.land/bubbletea/v2"
)

// PushScreenMsg requests the router to push a new screen onto the stack.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg requests the router to pop the current screen off the stack.
// A non-nil Result is delivered to the screen that becomes active.
type PopScreenMsg struct {
	Result tea.Msg
}

// ReplaceScreenMsg requests the router to swap the current screen for another.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// Router manages a stack of screens.
type Router struct {
	stack []screen.Screen
}

// New creates a new Router with the given initial screen.
func New(initial screen.Screen) *Router {
	return &Router{
		stack: []screen.Screen{initial},
	}
}

// Push adds a screen on top of the stack and calls its Init().
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop removes the top screen. No-op if stack depth would become 0.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) <= 1 {
		return nil
	}
	r.stack = r.stack[:len(r.stack)-1]
	return nil
}

// Replace swaps the top screen for s and calls its Init().
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	if len(r.stack) == 0 {
		r.stack = []screen.Screen{s}
	} else {
		r.stack[len(r.stack)-1] = s
	}
	return s.Init()
}

// Active returns the top screen on the stack.
func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

// Depth returns the number of screens on the stack.
func (r *Router) Depth() int {
	return len(r.stack)
}

// Update handles navigation messages and forwards everything else to the
// active screen, except background results owned by a covered screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		cmd := r.Pop()
		if msg.Result == nil {
			return cmd
		}
		result := msg.Result
		return tea.Batch(cmd, func() tea.Msg { return result })
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	}

	if len(r.stack) == 0 {
		return nil
	}

	idx := r.owner(msg)
	updated, cmd := r.stack[idx].Update(msg)
	r.stack[idx] = updated
	return cmd
}

// owner returns the stack index that should receive msg: the nearest
// covered screen claiming it as a background result, else the top screen.
func (r *Router) owner(msg tea.Msg) int {
	top := len(r.stack) - 1
	for i := top - 1; i >= 0; i-- {
		if br, ok := r.stack[i].(screen.BackgroundReceiver); ok && br.Owns(msg) {
			return i
		}
	}
	return top
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	active := r.Active()
	if active == nil {
		return ""
	}
	return active.View(width, height)
}
