package core

// CommandHandler handles one command. args holds exactly the number of
// argument bytes the command declared.
type CommandHandler func(args []byte) error

// Command describes one opcode of the I2C command set
type Command struct {
	Opcode  byte
	Name    string
	Args    uint8 // argument bytes following the opcode
	Handler CommandHandler
}

// MaxCommandArgs bounds the argument bytes any command may declare
const MaxCommandArgs = 4

// CommandTable maps opcodes to commands. It is filled once at startup and
// only read afterwards, so lookups from the receive context take no lock.
type CommandTable struct {
	commands [256]*Command
	count    int
}

// NewCommandTable creates an empty table
func NewCommandTable() *CommandTable {
	return &CommandTable{}
}

// Register adds a command. Registering an opcode twice keeps the first
// registration and returns it.
func (t *CommandTable) Register(opcode byte, name string, args uint8, handler CommandHandler) *Command {
	if cmd := t.commands[opcode]; cmd != nil {
		return cmd
	}
	if args > MaxCommandArgs {
		panic("command " + name + " declares too many arguments")
	}

	cmd := &Command{
		Opcode:  opcode,
		Name:    name,
		Args:    args,
		Handler: handler,
	}
	t.commands[opcode] = cmd
	t.count++
	return cmd
}

// Lookup returns the command registered for an opcode
func (t *CommandTable) Lookup(opcode byte) (*Command, bool) {
	cmd := t.commands[opcode]
	return cmd, cmd != nil
}

// Count returns the number of registered commands
func (t *CommandTable) Count() int {
	return t.count
}

// Commands returns the registered commands ordered by opcode
func (t *CommandTable) Commands() []*Command {
	out := make([]*Command, 0, t.count)
	for _, cmd := range t.commands {
		if cmd != nil {
			out = append(out, cmd)
		}
	}
	return out
}

// Describe returns one "0xNN name args=N" line per command
func (t *CommandTable) Describe() string {
	desc := ""
	for _, cmd := range t.Commands() {
		desc += hex8(cmd.Opcode) + " " + cmd.Name + " args=" + itoa(int(cmd.Args)) + "\n"
	}
	return desc
}
