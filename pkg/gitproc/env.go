package gitproc

import (
	"os"

	"github.com/google/uuid"
)

// PipeNamespaceVar names the environment variable carrying the fresh
// per-process pipe namespace identifier. Engine launchers that route
// stdio through named pipes key their pipe names off this value, so
// every spawn gets its own namespace and never collides with, or holds
// hostage, another process's pipes.
const PipeNamespaceVar = "GITPIPE_PIPE_NS"

// buildEnv assembles a child environment: the parent environment, the
// fixed engine contract, a fresh pipe namespace, then caller extras
// (last wins for duplicate keys).
//
// LC_ALL=C pins the engine to untranslated output so the byte-exact
// line parsers stay valid; GIT_TERMINAL_PROMPT=0 turns interactive
// credential prompts into hard failures instead of a hung child.
func buildEnv(extra []string) []string {
	env := os.Environ()
	env = append(env,
		"LC_ALL=C",
		"GIT_TERMINAL_PROMPT=0",
		PipeNamespaceVar+"="+uuid.NewString(),
	)
	return append(env, extra...)
}
