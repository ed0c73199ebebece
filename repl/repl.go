// Package repl implements an interactive shell for driving a Bitstream by
// hand: connect or listen on a TCP address, send values, and inspect
// interning/schema-mismatch counters as traffic flows. Grounded on the
// corpus's own repl.go (a REPL struct owning a readline.Instance,
// dispatching on the first whitespace-separated token), generalized from a
// CRDT-replica shell to a Bitstream shell since this module has no object
// store of its own to browse.
package repl

import (
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/SaracenOne/bitwire"
	"github.com/SaracenOne/bitwire/classreg"
	"github.com/SaracenOne/bitwire/wire"
	"github.com/ergochat/readline"
)

var completer = readline.NewPrefixCompleter(
	readline.PcItem("help"),
	readline.PcItem("listen"),
	readline.PcItem("connect"),
	readline.PcItem("send"),
	readline.PcItem("show"),
	readline.PcItem("exit"),
	readline.PcItem("quit"),
)

func filterInput(r rune) (rune, bool) {
	switch r {
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

// REPL owns the current session's readline instance and, once connected,
// the Bitstream driving the active connection.
type REPL struct {
	rl   *readline.Instance
	conn net.Conn
	bs   *bitwire.Bitstream

	wireReg  *wire.Registry
	classReg *classreg.Registry
}

// New constructs a REPL against the given registries — most callers pass
// wire.Default and classreg.Default so the shell sees whatever the host
// binary has registered from its own init() functions.
func New(wireReg *wire.Registry, classReg *classreg.Registry) *REPL {
	return &REPL{wireReg: wireReg, classReg: classReg}
}

func (r *REPL) Open() (err error) {
	r.rl, err = readline.NewEx(&readline.Config{
		Prompt:              "bitwire> ",
		HistoryFile:         "/tmp/bitwire_inspect_history.txt",
		AutoComplete:        completer,
		InterruptPrompt:     "^C",
		EOFPrompt:           "exit",
		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	return err
}

func (r *REPL) Close() error {
	if r.conn != nil {
		_ = r.conn.Close()
		r.conn = nil
	}
	if r.rl != nil {
		_ = r.rl.Close()
		r.rl = nil
	}
	return nil
}

// Run drives the read-eval-print loop until the user quits or EOF.
func (r *REPL) Run() {
	for {
		line, err := r.rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		args := strings.Fields(line)
		cmd, args := args[0], args[1:]

		if err := r.dispatch(cmd, args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		}
		if cmd == "exit" || cmd == "quit" {
			break
		}
	}
}

func (r *REPL) dispatch(cmd string, args []string) error {
	switch cmd {
	case "help":
		fmt.Println("commands: listen <addr> | connect <addr> | send <int64> | show | exit | quit")
		return nil
	case "listen":
		return r.cmdListen(args)
	case "connect":
		return r.cmdConnect(args)
	case "send":
		return r.cmdSend(args)
	case "show":
		return r.cmdShow()
	case "exit", "quit":
		return r.Close()
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func (r *REPL) cmdListen(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: listen <addr>")
	}
	ln, err := net.Listen("tcp", args[0])
	if err != nil {
		return err
	}
	defer ln.Close()
	fmt.Printf("listening on %s, waiting for one connection\n", args[0])
	conn, err := ln.Accept()
	if err != nil {
		return err
	}
	r.attach(conn)
	fmt.Printf("connected to %s\n", conn.RemoteAddr())
	return nil
}

func (r *REPL) cmdConnect(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: connect <addr>")
	}
	conn, err := net.Dial("tcp", args[0])
	if err != nil {
		return err
	}
	r.attach(conn)
	fmt.Printf("connected to %s\n", conn.RemoteAddr())
	return nil
}

func (r *REPL) attach(conn net.Conn) {
	if r.conn != nil {
		_ = r.conn.Close()
	}
	r.conn = conn
	r.bs = bitwire.NewBitstream(conn, r.wireReg, r.classReg, bitwire.DefaultConfig())
}

func (r *REPL) cmdSend(args []string) error {
	if r.bs == nil {
		return fmt.Errorf("not connected: use listen or connect first")
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: send <int64>")
	}
	v, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return err
	}
	if err := r.bs.WriteValue(wire.Int64(), v); err != nil {
		return err
	}
	return r.bs.Flush()
}

func (r *REPL) cmdShow() error {
	if r.bs == nil {
		fmt.Println("not connected")
		return nil
	}
	s := r.bs.Stats()
	fmt.Printf("bytes written=%d read=%d types=%d classes=%d attrs=%d strings=%d shared=%d mismatches=%d\n",
		s.BytesWritten, s.BytesRead, s.TypeDescriptorsInterned, s.ClassDescriptorsInterned,
		s.AttributesInterned, s.ScriptStringsInterned, s.SharedObjectsInterned, s.SchemaMismatches)
	return nil
}
