package gitcmd

// Op identifies a logical engine subcommand family. Error-rule tables
// and progress line-parser tables are registered per Op.
type Op int

const (
	OpGeneric Op = iota
	OpCatFile
	OpCommit
	OpMerge
	OpCheckout
	OpBranch
	OpTag
	OpStash
	OpCherryPick
	OpRevert
	OpClone
	OpFetch
	OpPull
	OpPush
	OpRemote
	OpDiff
	OpLog
	OpRevParse
	OpReset
	OpCheckIgnore
)

func (o Op) String() string {
	switch o {
	case OpCatFile:
		return "cat-file"
	case OpCommit:
		return "commit"
	case OpMerge:
		return "merge"
	case OpCheckout:
		return "checkout"
	case OpBranch:
		return "branch"
	case OpTag:
		return "tag"
	case OpStash:
		return "stash"
	case OpCherryPick:
		return "cherry-pick"
	case OpRevert:
		return "revert"
	case OpClone:
		return "clone"
	case OpFetch:
		return "fetch"
	case OpPull:
		return "pull"
	case OpPush:
		return "push"
	case OpRemote:
		return "remote"
	case OpDiff:
		return "diff"
	case OpLog:
		return "log"
	case OpRevParse:
		return "rev-parse"
	case OpReset:
		return "reset"
	case OpCheckIgnore:
		return "check-ignore"
	default:
		return "generic"
	}
}

// baseRules are tested after any command-specific rules. They cover
// failures every subcommand can produce. Patterns are the engine's
// exact untranslated wording; a changed message falls through to exit
// classification rather than mis-matching.
var baseRules = []ErrorRule{
	{Kind: KindNotARepository, Prefix: "fatal: not a git repository"},
	{Kind: KindBadObject, Prefix: "fatal: bad object"},
	{Kind: KindMissingObject, Prefix: "fatal: Not a valid object name"},
	{Kind: KindAmbiguousArgument, Prefix: "fatal: ambiguous argument"},
	{Kind: KindAuthenticationFail, Prefix: "fatal: Authentication failed"},
}

// opRules holds the command-specific tables, ordered; first match wins
// before baseRules get their turn. Plain static data, assembled once.
var opRules = map[Op][]ErrorRule{
	OpCommit: {
		{Kind: KindUnmergedFiles, Prefix: "error: Committing is not possible because you have unmerged files"},
		{Kind: KindUnmergedFiles, Prefix: "fatal: Exiting because of an unresolved conflict"},
		// The clean-tree report lands on stdout, after an "On branch"
		// line, so these scan the whole capture.
		{Kind: KindNothingToCommit, Prefix: "nothing to commit", AnyLine: true},
		{Kind: KindNothingToCommit, Prefix: "nothing added to commit", AnyLine: true},
	},
	OpMerge: {
		{Kind: KindUnmergedFiles, Prefix: "error: Merging is not possible because you have unmerged files"},
		{Kind: KindUncommittedChanges, Prefix: "error: Your local changes to the following files would be overwritten by merge", AnyLine: true},
		{Kind: KindNotFastForward, Prefix: "fatal: Not possible to fast-forward"},
		{Kind: KindMergeConflict, Prefix: "Automatic merge failed"},
	},
	OpCheckout: {
		{Kind: KindUncommittedChanges, Prefix: "error: Your local changes to the following files would be overwritten by checkout", AnyLine: true},
		{Kind: KindPathspecNoMatch, Prefix: "error: pathspec"},
	},
	OpBranch: {
		{Kind: KindBranchExists, Prefix: "fatal: a branch named", Suffix: "already exists"},
		{Kind: KindBranchExists, Prefix: "fatal: A branch named", Suffix: "already exists."},
		{Kind: KindBranchNotMerged, Prefix: "error: the branch", Suffix: "is not fully merged"},
		{Kind: KindBranchNotMerged, Prefix: "error: The branch", Suffix: "is not fully merged."},
		{Kind: KindBranchNotFound, Prefix: "error: branch", Suffix: "not found"},
		{Kind: KindBranchNotFound, Prefix: "error: branch", Suffix: "not found."},
	},
	OpTag: {
		{Kind: KindTagExists, Prefix: "fatal: tag", Suffix: "already exists"},
		{Kind: KindTagNotFound, Prefix: "error: tag", Suffix: "not found."},
	},
	OpStash: {
		{Kind: KindNoStashEntries, Prefix: "No stash entries found"},
		{Kind: KindNoStashEntries, Prefix: "fatal: log for 'refs/stash' is empty"},
		{Kind: KindNoStashEntries, Prefix: "fatal: log for 'refs/stash' only has"},
		// Conflict lines from a restore land on stdout mid-report.
		{Kind: KindMergeConflict, Prefix: "CONFLICT", AnyLine: true},
	},
	OpCherryPick: {
		{Kind: KindCherryPickEmpty, Prefix: "The previous cherry-pick is now empty"},
		{Kind: KindMergeConflict, Prefix: "error: could not apply"},
	},
	OpRevert: {
		{Kind: KindMergeConflict, Prefix: "error: could not revert"},
	},
	OpClone: {
		{Kind: KindRemoteNotFound, Prefix: "fatal: repository", Suffix: "does not exist"},
		{Kind: KindRemoteNotFound, Prefix: "fatal: ", Suffix: "does not appear to be a git repository"},
	},
	OpFetch: {
		{Kind: KindRemoteNotFound, Prefix: "fatal: ", Suffix: "does not appear to be a git repository"},
	},
	OpPull: {
		{Kind: KindUncommittedChanges, Prefix: "error: Your local changes to the following files would be overwritten by merge", AnyLine: true},
		{Kind: KindNotFastForward, Prefix: "fatal: Not possible to fast-forward"},
		{Kind: KindNoUpstream, Prefix: "fatal: The current branch", Suffix: "has no upstream branch."},
		{Kind: KindDetachedHead, Prefix: "fatal: You are not currently on a branch"},
	},
	OpPush: {
		{Kind: KindNoUpstream, Prefix: "fatal: The current branch", Suffix: "has no upstream branch."},
		{Kind: KindNotFastForward, Prefix: "hint: Updates were rejected", AnyLine: true},
		{Kind: KindNotFastForward, Prefix: " ! [rejected]", AnyLine: true},
		{Kind: KindRemoteRejected, Prefix: " ! [remote rejected]", AnyLine: true},
	},
	OpRemote: {
		{Kind: KindRemoteNotFound, Prefix: "error: No such remote"},
		{Kind: KindRemoteNotFound, Prefix: "fatal: No such remote"},
	},
	OpReset: {
		{Kind: KindMissingObject, Prefix: "fatal: Could not parse object"},
	},
}

// RulesFor returns the ordered rule list for op: command-specific
// rules first, base rules last.
func RulesFor(op Op) []ErrorRule {
	specific := opRules[op]
	rules := make([]ErrorRule, 0, len(specific)+len(baseRules))
	rules = append(rules, specific...)
	return append(rules, baseRules...)
}
