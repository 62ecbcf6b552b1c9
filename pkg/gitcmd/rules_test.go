package gitcmd

import (
	"errors"
	"testing"

	commonerr "github.com/utkarsh5026/gitpipe/pkg/common/err"
	"github.com/utkarsh5026/gitpipe/pkg/gitproc"
)

func TestRulesForOrdering(t *testing.T) {
	rules := RulesFor(OpMerge)

	wantLen := len(opRules[OpMerge]) + len(baseRules)
	if len(rules) != wantLen {
		t.Fatalf("len(rules) = %d, want %d", len(rules), wantLen)
	}
	if rules[0].Kind != opRules[OpMerge][0].Kind {
		t.Error("command-specific rules must come before base rules")
	}
	last := rules[len(rules)-1]
	if last.Kind != baseRules[len(baseRules)-1].Kind {
		t.Error("base rules must come last")
	}
}

func TestRulesForGenericOp(t *testing.T) {
	rules := RulesFor(OpGeneric)
	if len(rules) != len(baseRules) {
		t.Errorf("generic op should carry only base rules, got %d", len(rules))
	}
}

func TestSpecRulesExtraFirst(t *testing.T) {
	extra := ErrorRule{Kind: KindDetachedHead, Prefix: "custom:"}
	spec := Spec{Op: OpMerge, ExtraRules: []ErrorRule{extra}}

	rules := spec.rules()
	if rules[0].Kind != KindDetachedHead || rules[0].Prefix != "custom:" {
		t.Error("extra rules must be tested before the registered table")
	}
	if len(rules) != 1+len(opRules[OpMerge])+len(baseRules) {
		t.Errorf("unexpected combined rule count %d", len(rules))
	}
}

func TestBadObjectMapsToMissingObjectClass(t *testing.T) {
	result := &Result{
		ExitCode: gitproc.ExitCodeFatal,
		Class:    gitproc.Classify(gitproc.ExitCodeFatal, nil),
		Stderr:   "fatal: bad object 0123456789abcdef0123456789abcdef01234567\n",
		Command:  "git cat-file --batch",
	}

	mapped := resultError(result, Spec{Op: OpCatFile})
	if mapped == nil {
		t.Fatal("expected a mapped error")
	}
	if !errors.Is(mapped, ErrBadObject) {
		t.Errorf("expected ErrBadObject, got %v", mapped)
	}
	if !commonerr.IsCode(mapped, commonerr.CodeMissingObject) {
		t.Errorf("expected missing-object class, got code %s", commonerr.GetCode(mapped))
	}
}

func TestMergeConflictMapsThroughTable(t *testing.T) {
	result := &Result{
		ExitCode: 1,
		Class:    gitproc.Classify(1, nil),
		Stderr:   "Automatic merge failed; fix conflicts and then commit the result.\n",
		Command:  "git merge topic",
	}

	mapped := resultError(result, Spec{Op: OpMerge})
	if !errors.Is(mapped, ErrMergeConflict) {
		t.Errorf("expected ErrMergeConflict, got %v", mapped)
	}
}

func TestStdoutOutcomeMapsThroughTable(t *testing.T) {
	result := &Result{
		ExitCode: 1,
		Class:    gitproc.Classify(1, nil),
		Stdout:   "On branch main\nnothing to commit, working tree clean\n",
		Command:  "git commit -m x",
	}

	mapped := resultError(result, Spec{Op: OpCommit})
	if !errors.Is(mapped, ErrNothingToCommit) {
		t.Errorf("expected ErrNothingToCommit, got %v", mapped)
	}
}

func TestStderrMatchWinsOverStdout(t *testing.T) {
	result := &Result{
		ExitCode: 1,
		Class:    gitproc.Classify(1, nil),
		Stdout:   "Auto-merging a.txt\nCONFLICT (content): Merge conflict in a.txt\n",
		Stderr:   "No stash entries found.\n",
		Command:  "git stash pop",
	}

	mapped := resultError(result, Spec{Op: OpStash})
	if !errors.Is(mapped, ErrNoStashEntries) {
		t.Errorf("expected stderr rule to win, got %v", mapped)
	}
}

func TestSafeCodeSuppressesError(t *testing.T) {
	result := &Result{
		ExitCode: 1,
		Class:    gitproc.Classify(1, []int{1}),
		Stderr:   "",
		Command:  "git merge-base --is-ancestor a b",
	}

	if mapped := resultError(result, Spec{Op: OpGeneric, SafeCodes: []int{1}}); mapped != nil {
		t.Errorf("declared-safe exit must produce no error, got %v", mapped)
	}
}

func TestUnmatchedFailureFallsBackToExitError(t *testing.T) {
	result := &Result{
		ExitCode: gitproc.ExitCodeUsage,
		Class:    gitproc.Classify(gitproc.ExitCodeUsage, nil),
		Stderr:   "usage: git merge [<options>] [<commit>...]\n",
		Command:  "git merge --bogus",
	}

	mapped := resultError(result, Spec{Op: OpMerge})
	var exitErr *gitproc.ExitError
	if !errors.As(mapped, &exitErr) {
		t.Fatalf("expected *gitproc.ExitError fallback, got %T", mapped)
	}
	if exitErr.Class != gitproc.ExitUsage {
		t.Errorf("Class = %v, want ExitUsage", exitErr.Class)
	}
	if !commonerr.IsCode(mapped, commonerr.CodeUsage) {
		t.Errorf("expected usage code, got %s", commonerr.GetCode(mapped))
	}
}

func TestPushRejectionRules(t *testing.T) {
	stderr := "To github.com:x/y.git\n" +
		" ! [rejected]        main -> main (fetch first)\n" +
		"error: failed to push some refs to 'github.com:x/y.git'\n" +
		"hint: Updates were rejected because the remote contains work that you do\n"

	mapped := MatchRules(RulesFor(OpPush), "git push", stderr)
	if !errors.Is(mapped, ErrNotFastForward) {
		t.Errorf("expected ErrNotFastForward for a rejected push, got %v", mapped)
	}
}

func TestLocalChangesOverwrittenRules(t *testing.T) {
	stderr := "error: Your local changes to the following files would be overwritten by merge:\n" +
		"\tREADME.md\n" +
		"Please commit your changes or stash them before you merge.\n" +
		"Aborting\n"

	mapped := MatchRules(RulesFor(OpMerge), "git merge topic", stderr)
	if !errors.Is(mapped, ErrUncommittedChanges) {
		t.Errorf("expected ErrUncommittedChanges, got %v", mapped)
	}
}

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{OpGeneric, "generic"},
		{OpCatFile, "cat-file"},
		{OpCherryPick, "cherry-pick"},
		{OpCheckIgnore, "check-ignore"},
		{OpRevParse, "rev-parse"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}
