package progress

import "github.com/utkarsh5026/gitpipe/pkg/gitcmd"

// Fatal-line tables: patterns that mark an operation as unrecoverable
// the moment they appear in a stream, so the engine is killed instead
// of being left to grind on. Lines that merely describe a bad outcome
// (conflicts, rejections) are not here; those surface as events and
// through exit-code mapping.

var baseFatalRules = []gitcmd.ErrorRule{
	{Kind: gitcmd.KindNotARepository, Prefix: "fatal: not a git repository"},
	{Kind: gitcmd.KindAuthenticationFail, Prefix: "fatal: Authentication failed"},
}

// remoteFatalRules cover the network operations, where a dead remote
// can otherwise stall a transfer until some distant TCP timeout.
var remoteFatalRules = []gitcmd.ErrorRule{
	{Kind: gitcmd.KindRemoteNotFound, Prefix: "fatal: repository ", Suffix: " not found"},
	{Kind: gitcmd.KindRemoteNotFound, Prefix: "fatal: ", Suffix: " does not appear to be a git repository"},
	{Kind: gitcmd.KindRemoteUnavailable, Prefix: "fatal: unable to access "},
	{Kind: gitcmd.KindRemoteUnavailable, Prefix: "fatal: Could not read from remote repository"},
	{Kind: gitcmd.KindRemoteUnavailable, Prefix: "fatal: the remote end hung up unexpectedly"},
	{Kind: gitcmd.KindRemoteUnavailable, Prefix: "fatal: The remote end hung up unexpectedly"},
	{Kind: gitcmd.KindRemoteUnavailable, Prefix: "ssh: connect to host "},
	{Kind: gitcmd.KindRemoteUnavailable, Prefix: "ssh: Could not resolve hostname "},
	{Kind: gitcmd.KindAuthenticationFail, Prefix: "remote: Invalid username or password"},
}

func fatalRulesFor(op gitcmd.Op) []gitcmd.ErrorRule {
	switch op {
	case gitcmd.OpClone, gitcmd.OpFetch, gitcmd.OpPull, gitcmd.OpPush:
		rules := make([]gitcmd.ErrorRule, 0, len(remoteFatalRules)+len(baseFatalRules))
		rules = append(rules, remoteFatalRules...)
		return append(rules, baseFatalRules...)
	default:
		return baseFatalRules
	}
}
