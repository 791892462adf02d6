package loop

import (
	"github.com/plus3/blockfall/board"
)

// Command is one discrete player action.
type Command int

const (
	CommandNone Command = iota
	CommandLeft
	CommandRight
	// CommandDown is a soft drop: one gravity step on demand.
	CommandDown
	CommandRotate
	// CommandDrop is a hard drop.
	CommandDrop
)

var commandNames = map[Command]string{
	CommandNone:   "none",
	CommandLeft:   "left",
	CommandRight:  "right",
	CommandDown:   "down",
	CommandRotate: "rotate",
	CommandDrop:   "drop",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseCommand resolves a command name as used in configuration files.
func ParseCommand(name string) (Command, bool) {
	for c, n := range commandNames {
		if n == name && c != CommandNone {
			return c, true
		}
	}
	return CommandNone, false
}

// Apply runs cmd against b and reports whether it changed the active piece's
// position or orientation. Unknown commands are ignored.
func Apply(b *board.Board, cmd Command) bool {
	switch cmd {
	case CommandLeft:
		return b.MoveLeft()
	case CommandRight:
		return b.MoveRight()
	case CommandDown:
		b.Tick()
		return true
	case CommandRotate:
		return b.Rotate()
	case CommandDrop:
		b.HardDrop()
		return true
	default:
		return false
	}
}

// Commands buffers player commands until the scheduler applies them to the
// board, so input arriving between frames is handled in order inside one.
type Commands struct {
	queued []Command
	defers []func()
}

func newCommands() *Commands {
	return &Commands{}
}

// Push queues commands in arrival order.
func (c *Commands) Push(cmds ...Command) {
	c.queued = append(c.queued, cmds...)
}

// Defer queues fn to run after the queued commands have been applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Len is the number of queued commands.
func (c *Commands) Len() int {
	return len(c.queued)
}

// Flush applies every queued command to b, runs deferred functions and resets
// the buffer. It returns the number of commands applied.
func (c *Commands) Flush(b *board.Board) int {
	n := len(c.queued)
	for _, cmd := range c.queued {
		Apply(b, cmd)
	}

	for _, fn := range c.defers {
		fn()
	}

	c.queued = c.queued[:0]
	c.defers = c.defers[:0]
	return n
}
