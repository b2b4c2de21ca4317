// Package privilege answers one question: can this process run privileged
// capture commands on the host right now?
package privilege

import (
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout bounds the probe; the command is trivial, so anything slower
// than this means an interactive prompt or a wedged escalation helper.
const DefaultTimeout = 2 * time.Second

// Prober checks for elevated capture capability by executing a trivial
// privileged command. It is a pure query and holds no state.
type Prober struct {
	// Command is the probe command and its arguments. Defaults to
	// ["sudo", "-n", "true"]. Non-interactive, so a password prompt fails
	// immediately instead of hanging.
	Command []string
	Timeout time.Duration
	Log     zerolog.Logger
}

// Probe returns true iff the probe command completes with a success exit
// status within the timeout. It never returns an error: a missing binary,
// denied escalation, timeout, or spawn failure are all just "not privileged".
func (p *Prober) Probe(ctx context.Context) bool {
	if os.Geteuid() == 0 {
		return true
	}

	cmd := p.Command
	if len(cmd) == 0 {
		cmd = []string{"sudo", "-n", "true"}
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := exec.CommandContext(ctx, cmd[0], cmd[1:]...).Run()
	if err != nil {
		p.Log.Debug().Err(err).Strs("command", cmd).Msg("Privilege probe failed")
		return false
	}
	return true
}
