package gitcmd

import (
	"errors"
	"testing"

	commonerr "github.com/utkarsh5026/gitpipe/pkg/common/err"
)

func TestMatchRulesFirstMatchWins(t *testing.T) {
	rules := []ErrorRule{
		{Kind: KindBranchExists, Prefix: "fatal: "},
		{Kind: KindNotARepository, Prefix: "fatal: not a git repository"},
	}

	matched := MatchRules(rules, "git branch x", "fatal: not a git repository\n")
	if matched == nil {
		t.Fatal("expected a match")
	}
	var cmdErr *CommandError
	if !errors.As(matched, &cmdErr) {
		t.Fatalf("expected *CommandError, got %T", matched)
	}
	if cmdErr.Kind != KindBranchExists {
		t.Errorf("expected first declared rule to win, got kind %d", cmdErr.Kind)
	}
}

func TestMatchRulesFirstLineOnly(t *testing.T) {
	rules := []ErrorRule{
		{Kind: KindNotFastForward, Prefix: " ! [rejected]"},
	}

	stderr := "To github.com:x/y.git\n ! [rejected]        main -> main (fetch first)\n"
	if matched := MatchRules(rules, "git push", stderr); matched != nil {
		t.Errorf("rule without AnyLine must only test the first line, got %v", matched)
	}
}

func TestMatchRulesAnyLine(t *testing.T) {
	rules := []ErrorRule{
		{Kind: KindNotFastForward, Prefix: " ! [rejected]", AnyLine: true},
	}

	stderr := "To github.com:x/y.git\n" +
		" ! [rejected]        main -> main (fetch first)\n" +
		"error: failed to push some refs to 'github.com:x/y.git'\n"
	matched := MatchRules(rules, "git push", stderr)
	if matched == nil {
		t.Fatal("AnyLine rule should match a mid-block line")
	}
	if !errors.Is(matched, ErrNotFastForward) {
		t.Errorf("expected ErrNotFastForward, got %v", matched)
	}
}

func TestMatchRulesPrefixAndSuffix(t *testing.T) {
	rules := []ErrorRule{
		{Kind: KindBranchExists, Prefix: "fatal: a branch named", Suffix: "already exists"},
	}

	tests := []struct {
		name   string
		stderr string
		want   bool
	}{
		{"both match", "fatal: a branch named 'dev' already exists\n", true},
		{"prefix only", "fatal: a branch named 'dev' is checked out\n", false},
		{"suffix only", "error: refname 'dev' already exists\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchRules(rules, "git branch dev", tt.stderr) != nil
			if got != tt.want {
				t.Errorf("match = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchRulesEmptyStderr(t *testing.T) {
	rules := []ErrorRule{{Kind: KindMergeConflict}}
	if matched := MatchRules(rules, "git merge", ""); matched != nil {
		t.Errorf("empty stderr must never match, got %v", matched)
	}
}

func TestMatchRulesNoMatch(t *testing.T) {
	rules := RulesFor(OpCommit)
	if matched := MatchRules(rules, "git commit", "some novel diagnostic\n"); matched != nil {
		t.Errorf("unrecognized stderr must fall through to classification, got %v", matched)
	}
}

func TestCommandErrorSentinels(t *testing.T) {
	for kind, sentinel := range sentinels {
		cmdErr := NewCommandError(kind, "git x", "diagnostic\n")
		if !errors.Is(cmdErr, sentinel) {
			t.Errorf("kind %d: errors.Is against its sentinel failed", kind)
		}
	}

	conflict := NewCommandError(KindMergeConflict, "git merge", "Automatic merge failed\n")
	if errors.Is(conflict, ErrTagExists) {
		t.Error("conflict error must not match an unrelated sentinel")
	}
}

func TestCommandErrorCodes(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		code string
	}{
		{KindMergeConflict, commonerr.CodeConflict},
		{KindUncommittedChanges, commonerr.CodeConflict},
		{KindMissingObject, commonerr.CodeMissingObject},
		{KindBadObject, commonerr.CodeMissingObject},
		{KindBranchNotFound, commonerr.CodeNotFound},
		{KindNoStashEntries, commonerr.CodeNotFound},
		{KindTagExists, commonerr.CodeAlreadyExists},
		{KindNotARepository, commonerr.CodeProcess},
	}
	for _, tt := range tests {
		cmdErr := NewCommandError(tt.kind, "git x", "line\n")
		if !commonerr.IsCode(cmdErr, tt.code) {
			t.Errorf("kind %d: expected code %s, got %s", tt.kind, tt.code, commonerr.GetCode(cmdErr))
		}
	}
}

func TestCommandErrorMessageIsFirstLine(t *testing.T) {
	cmdErr := NewCommandError(KindMergeConflict, "git merge topic",
		"Automatic merge failed; fix conflicts and then commit the result.\nextra context\n")
	if cmdErr.Stderr == "" {
		t.Error("full stderr must be preserved on the error")
	}
	got := cmdErr.baseError.Message
	want := "Automatic merge failed; fix conflicts and then commit the result."
	if got != want {
		t.Errorf("message = %q, want first stderr line %q", got, want)
	}
}

func TestFirstStderrLine(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"one line", "one line"},
		{"first\nsecond", "first"},
		{"first\n", "first"},
	}
	for _, tt := range tests {
		if got := firstStderrLine(tt.in); got != tt.want {
			t.Errorf("firstStderrLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
