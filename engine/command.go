package engine

import "fmt"

type CommandKind uint8

const (
	CommandDrop CommandKind = iota
	CommandSpell
)

// Command is what the player sends for a turn. The zero value is Drop(0, 0).
type Command struct {
	Kind     CommandKind
	Column   int
	Rotation int
}

func DropCommand(column, rotation int) Command {
	return Command{Kind: CommandDrop, Column: column, Rotation: rotation}
}

func SpellCommand() Command {
	return Command{Kind: CommandSpell}
}

func (c Command) IsSpell() bool {
	return c.Kind == CommandSpell
}

func (c Command) String() string {
	if c.Kind == CommandSpell {
		return "S"
	}
	return fmt.Sprintf("%d %d", c.Column, c.Rotation)
}
