package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"labsim/internal/catalog"
	"labsim/internal/logging"
	"labsim/internal/session"
	"labsim/internal/simstate"
	"labsim/internal/store"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive simulated terminal",
	Long: `Starts a read-eval loop against the simulated machine. Commands are
validated against the definition catalog and applied to in-memory state.

Shell builtins (not part of the simulation):
  :state      dump the simulated state domains
  :whoami     show the current privilege level
  :history    show executed commands
  exit        leave the shell`,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	loader := newLoader()
	if _, err := loader.LoadAll(cmd.Context()); err != nil {
		return err
	}

	var sink session.AttemptSink
	if cfg.Store.Enabled {
		s, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer s.Close()
		sink = s
	}

	sess, err := session.New(loader, defaultState(), sink)
	if err != nil {
		return err
	}

	// A reload refreshes the loader's registry, which tokenizing picks up on
	// the next line. The running session was built against the registry as
	// loaded at startup and keeps it; changed definitions take effect for
	// its grammar validation but not for its engine until a new session.
	if cfg.Pack.Dir != "" && cfg.Pack.Watch {
		watcher, err := catalog.NewPackWatcher(cfg.Pack.Dir, func(changed []string) {
			if _, err := loader.Reload(cmd.Context()); err != nil {
				logging.L(logging.CategoryCLI).Warn("pack reload failed", logging.Err(err))
			}
		})
		if err != nil {
			logging.L(logging.CategoryCLI).Warn("pack watch unavailable", logging.Err(err))
		} else {
			if err := watcher.Start(cmd.Context()); err == nil {
				defer watcher.Stop()
			}
		}
	}

	registry, _ := loader.Registry()
	fmt.Printf("labsim shell: %d commands loaded. Type 'exit' to leave.\n", registry.Count())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(prompt(sess))
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}
		if strings.HasPrefix(line, ":") {
			runBuiltin(sess, line)
			continue
		}
		runLine(sess, registry, line)
		registry, _ = loader.Registry()
	}
	return scanner.Err()
}

// defaultState seeds the shell's simulated node: a healthy GPU compute
// node with an active InfiniBand link, an idle scheduler slot, and a
// reachable BMC. Lab scenarios seed their own state per step instead.
func defaultState() simstate.Snapshot {
	return simstate.NewSnapshot(map[string]map[string]any{
		"gpu_state": {
			"temperature":      41,
			"power_draw":       68,
			"utilization":      0,
			"memory_used":      0,
			"driver_version":   "550.54.15",
			"persistence_mode": false,
		},
		"ib_state": {
			"port_state":    "Active",
			"port_rate":     "400 Gb/sec (4X NDR)",
			"lid":           12,
			"symbol_errors": 0,
			"link_downed":   0,
		},
		"bmc_state": {
			"power_status":    "on",
			"sensor_readings": "ok",
			"sel_entries":     0,
		},
		"cluster_state": {
			"node_state": "idle",
			"job_state":  "none",
			"partitions": "gpu",
		},
		"container_state": {
			"running_containers": 0,
			"images":             3,
		},
		"kernel_state": {
			"ring_buffer": "clean",
		},
		"pci_state": {
			"devices": "8 GPUs, 2 HCAs",
		},
	})
}

func prompt(sess *session.Session) string {
	if sess.Context().Elevated() {
		return "[root@node01]# "
	}
	return "[operator@node01]$ "
}

// runLine submits one command line. A leading "sudo" runs as its own
// invocation first (granting elevation through its state effect), then
// the wrapped command runs under the elevated context.
func runLine(sess *session.Session, reg *catalog.Registry, line string) {
	rest := strings.TrimSpace(line)
	if fields := strings.Fields(rest); len(fields) > 1 && fields[0] == "sudo" {
		if out := sess.Run(parseLine(reg, "sudo")); out.Status != session.StatusExecuted {
			fmt.Println(out.Message())
			return
		}
		rest = strings.TrimSpace(strings.TrimPrefix(rest, "sudo"))
	}

	p := parseLine(reg, rest)
	// The tracker and attempt journal see the line as typed, sudo included.
	p.Raw = line
	out := sess.Run(p)
	if msg := out.Message(); msg != "" {
		fmt.Println(msg)
	}
	if out.Status == session.StatusExecuted && out.Result != nil && len(out.Result.Delta) > 0 {
		for _, w := range out.Result.Delta {
			fmt.Printf("  %s.%s = %v\n", w.Domain, w.Field, w.Value)
		}
	}
}

func runBuiltin(sess *session.Session, line string) {
	switch line {
	case ":state":
		printState(sess.State())
	case ":whoami":
		if sess.Context().Elevated() {
			fmt.Println("root")
		} else {
			fmt.Println("operator")
		}
	case ":history":
		for _, c := range sess.Tracker().Executed() {
			fmt.Println(c)
		}
	default:
		fmt.Printf("unknown builtin %q\n", line)
	}
}

func printState(snap simstate.Snapshot) {
	domains := snap.Domains()
	sort.Strings(domains)
	if len(domains) == 0 {
		fmt.Println("(no state domains set)")
		return
	}
	for _, domain := range domains {
		fmt.Printf("%s:\n", domain)
		fields, _ := snap.Domain(domain)
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("  %s: %v\n", k, fields[k])
		}
	}
}
