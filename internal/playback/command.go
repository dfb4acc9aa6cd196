package playback

import "fmt"

// CommandKind enumerates the operations a host can ask of a session.
// Raw device input is translated into these at the boundary, see package input.
type CommandKind int

const (
	CommandTogglePlay CommandKind = iota + 1
	CommandPaceUp
	CommandPaceDown
	CommandStepBack
	CommandStepForward
	CommandReset
	CommandClose
	// CommandJump carries the target token index in Arg.
	CommandJump
	// CommandSetPace carries the absolute wpm in Arg (pace slider).
	CommandSetPace
	CommandStart
	CommandPause
)

var commandNames = map[CommandKind]string{
	CommandTogglePlay:  "toggle",
	CommandPaceUp:      "pace_up",
	CommandPaceDown:    "pace_down",
	CommandStepBack:    "step_back",
	CommandStepForward: "step_forward",
	CommandReset:       "reset",
	CommandClose:       "close",
	CommandJump:        "jump",
	CommandSetPace:     "set_pace",
	CommandStart:       "start",
	CommandPause:       "pause",
}

// String returns the stable wire name of the kind.
func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return fmt.Sprintf("CommandKind(%d)", int(k))
}

// HasArg reports whether commands of this kind carry an argument.
func (k CommandKind) HasArg() bool {
	return k == CommandJump || k == CommandSetPace
}

// ParseCommandKind is the inverse of CommandKind.String.
func ParseCommandKind(name string) (CommandKind, error) {
	for k, n := range commandNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown command %q", name)
}

// Command is one host request.
type Command struct {
	Kind CommandKind
	Arg  int
}

// Cmd builds an argument-less command.
func Cmd(kind CommandKind) Command {
	return Command{Kind: kind}
}

// Jump builds a click-on-word command.
func Jump(tokenIndex int) Command {
	return Command{Kind: CommandJump, Arg: tokenIndex}
}

// SetPace builds a pace-slider command.
func SetPace(wpm int) Command {
	return Command{Kind: CommandSetPace, Arg: wpm}
}

// String renders the command as "name" or "name(arg)".
func (c Command) String() string {
	if c.Kind.HasArg() {
		return fmt.Sprintf("%s(%d)", c.Kind, c.Arg)
	}
	return c.Kind.String()
}
