package core

import (
	"strings"
	"testing"
)

func TestCommandTable(t *testing.T) {
	table := NewCommandTable()

	var got []byte
	handler := func(args []byte) error {
		got = append(got, args...)
		return nil
	}

	cmd := table.Register(0x20, "test_command", 1, handler)
	if cmd.Opcode != 0x20 || cmd.Args != 1 {
		t.Errorf("Unexpected command: %+v", cmd)
	}

	found, ok := table.Lookup(0x20)
	if !ok {
		t.Fatal("Failed to look up registered command")
	}
	if found.Name != "test_command" {
		t.Errorf("Expected command name 'test_command', got '%s'", found.Name)
	}

	if err := found.Handler([]byte{42}); err != nil {
		t.Errorf("Handler failed: %v", err)
	}
	if len(got) != 1 || got[0] != 42 {
		t.Errorf("Handler received %v, want [42]", got)
	}

	if _, ok := table.Lookup(0x21); ok {
		t.Error("Expected lookup of unregistered opcode to fail")
	}
}

func TestCommandTableDuplicate(t *testing.T) {
	table := NewCommandTable()

	first := table.Register(0x01, "first", 0, func(args []byte) error { return nil })
	second := table.Register(0x01, "second", 2, func(args []byte) error { return nil })

	if first != second {
		t.Error("Duplicate registration should return the original command")
	}
	if table.Count() != 1 {
		t.Errorf("Expected 1 command, got %d", table.Count())
	}
}

func TestCommandTableOrdering(t *testing.T) {
	table := NewCommandTable()

	table.Register(0x10, "c", 1, nil)
	table.Register(0x02, "b", 1, nil)
	table.Register(0x01, "a", 0, nil)

	cmds := table.Commands()
	if len(cmds) != 3 {
		t.Fatalf("Expected 3 commands, got %d", len(cmds))
	}
	if cmds[0].Opcode != 0x01 || cmds[1].Opcode != 0x02 || cmds[2].Opcode != 0x10 {
		t.Errorf("Commands not ordered by opcode: %02X %02X %02X", cmds[0].Opcode, cmds[1].Opcode, cmds[2].Opcode)
	}

	desc := table.Describe()
	if !strings.Contains(desc, "0x02 b args=1") {
		t.Errorf("Describe missing entry:\n%s", desc)
	}
	t.Logf("Commands:\n%s", desc)
}
