package gitrepo

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	commonerr "github.com/utkarsh5026/gitpipe/pkg/common/err"
	"github.com/utkarsh5026/gitpipe/pkg/gitcmd"
)

// IgnoreDecision is the engine's verdict for one path, including the
// pattern that decided it when one matched.
type IgnoreDecision struct {
	Path    string
	Ignored bool

	// Pattern is the matching ignore pattern, empty when nothing
	// matched. A negation pattern ("!kept.log") appears here with
	// Ignored false.
	Pattern string

	// Source is the file the pattern came from.
	Source string

	// Line is the pattern's line number within Source.
	Line int
}

// ignoreSession is a long-lived check-ignore subprocess speaking the
// NUL-delimited stdin protocol, one spawn serving many queries. Same
// lifecycle discipline as the object-database sessions: spawn lazily,
// kill and respawn after any protocol irregularity.
type ignoreSession struct {
	exec     *gitcmd.Execution
	in       io.Writer
	out      *bufio.Reader
	poisoned bool
}

func (r *Repository) ignoreSpec() gitcmd.Spec {
	spec := r.spec(gitcmd.OpCheckIgnore,
		"check-ignore", "--stdin", "-z", "--verbose", "--non-matching")
	spec.SafeCodes = []int{1}
	return spec
}

func newIgnoreSession(spec gitcmd.Spec) (*ignoreSession, error) {
	exec, serr := gitcmd.Start(spec)
	if serr != nil {
		return nil, serr
	}
	return &ignoreSession{
		exec: exec,
		in:   exec.Stdin(),
		out:  bufio.NewReader(exec.Stdout()),
	}, nil
}

// query writes one path and reads the four-field NUL-terminated
// verdict: source, line, pattern, path.
func (s *ignoreSession) query(path string) (IgnoreDecision, error) {
	if path == "" || strings.ContainsRune(path, '\x00') {
		return IgnoreDecision{}, commonerr.New(pkgName, commonerr.CodeInvalidInput, "check_ignore",
			"path must be non-empty and free of NUL", nil)
	}

	if _, werr := io.WriteString(s.in, path+"\x00"); werr != nil {
		s.poisoned = true
		return IgnoreDecision{}, commonerr.New(pkgName, commonerr.CodeProcess, "check_ignore",
			"ignore probe process rejected the query", werr).WithContext("path", path)
	}

	fields := make([]string, 4)
	for i := range fields {
		field, rerr := s.out.ReadString('\x00')
		if rerr != nil {
			s.poisoned = true
			return IgnoreDecision{}, commonerr.New(pkgName, commonerr.CodeProtocol, "check_ignore",
				"ignore probe stream ended mid-verdict", rerr).WithContext("path", path)
		}
		fields[i] = strings.TrimSuffix(field, "\x00")
	}

	line := 0
	if fields[1] != "" {
		n, cerr := strconv.Atoi(fields[1])
		if cerr != nil {
			s.poisoned = true
			return IgnoreDecision{}, commonerr.New(pkgName, commonerr.CodeProtocol, "check_ignore",
				"malformed line number in verdict", cerr).WithContext("field", fields[1])
		}
		line = n
	}

	pattern := fields[2]
	return IgnoreDecision{
		Path:    fields[3],
		Ignored: pattern != "" && !strings.HasPrefix(pattern, "!"),
		Pattern: pattern,
		Source:  fields[0],
		Line:    line,
	}, nil
}

// ignoreCloseTimeout bounds the orderly shutdown of the probe process.
const ignoreCloseTimeout = 3 * time.Second

func (s *ignoreSession) close() error {
	if s.poisoned {
		s.exec.Stop()
		return s.exec.Close()
	}
	ctx, cancel := context.WithTimeout(context.Background(), ignoreCloseTimeout)
	defer cancel()
	_, ferr := s.exec.Finish(ctx, "")
	return ferr
}

// ignoreProbe returns the live session, spawning or respawning as
// needed. Callers hold r.mu.
func (r *Repository) ignoreProbe() (*ignoreSession, error) {
	if r.ignore != nil && (r.ignore.poisoned || !r.ignore.exec.Alive()) {
		r.ignore.exec.Stop()
		r.ignore.exec.Close()
		r.ignore = nil
	}
	if r.ignore == nil {
		session, serr := newIgnoreSession(r.ignoreSpec())
		if serr != nil {
			return nil, serr
		}
		r.ignore = session
	}
	return r.ignore, nil
}

// CheckIgnore reports the ignore verdict for each path, preserving
// input order. The probe subprocess is shared and reused across calls.
func (r *Repository) CheckIgnore(ctx context.Context, paths []string) ([]IgnoreDecision, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if cerr := ctx.Err(); cerr != nil {
		return nil, commonerr.New(pkgName, commonerr.CodeCancelled, "check_ignore",
			"check-ignore cancelled", cerr)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, commonerr.New(pkgName, commonerr.CodeClosed, "check_ignore",
			"repository is closed", nil)
	}

	session, serr := r.ignoreProbe()
	if serr != nil {
		return nil, serr
	}

	decisions := make([]IgnoreDecision, 0, len(paths))
	for _, path := range paths {
		decision, qerr := session.query(path)
		if qerr != nil {
			return nil, qerr
		}
		decisions = append(decisions, decision)
	}
	return decisions, nil
}

// IsIgnored is the single-path convenience over CheckIgnore.
func (r *Repository) IsIgnored(ctx context.Context, path string) (bool, error) {
	decisions, derr := r.CheckIgnore(ctx, []string{path})
	if derr != nil {
		return false, derr
	}
	return decisions[0].Ignored, nil
}
