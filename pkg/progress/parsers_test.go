package progress

import (
	"bufio"
	"reflect"
	"strings"
	"testing"

	"github.com/utkarsh5026/gitpipe/pkg/gitcmd"
)

func TestParseTransfer(t *testing.T) {
	tests := []struct {
		name string
		line string
		want TransferEvent
	}{
		{
			"receiving with rate",
			"Receiving objects:  67% (2010/3000), 4.21 MiB | 8.40 MiB/s",
			TransferEvent{Phase: PhaseReceiving, Percent: 67, Current: 2010, Total: 3000},
		},
		{
			"receiving done",
			"Receiving objects: 100% (3000/3000), 6.11 MiB | 8.40 MiB/s, done.",
			TransferEvent{Phase: PhaseReceiving, Percent: 100, Current: 3000, Total: 3000, Done: true},
		},
		{
			"resolving completed",
			"Resolving deltas: 100% (25/25), completed with 4 local objects.",
			TransferEvent{Phase: PhaseResolving, Percent: 100, Current: 25, Total: 25, Done: true},
		},
		{
			"sideband counting tally",
			"remote: Counting objects: 123, done.",
			TransferEvent{Phase: PhaseCounting, Percent: -1, Current: 123, Total: 123, Done: true, Sideband: true},
		},
		{
			"sideband enumerating",
			"remote: Enumerating objects: 5, done.",
			TransferEvent{Phase: PhaseEnumerating, Percent: -1, Current: 5, Total: 5, Done: true, Sideband: true},
		},
		{
			"sideband compressing percent",
			"remote: Compressing objects:  50% (2/4)",
			TransferEvent{Phase: PhaseCompressing, Percent: 50, Current: 2, Total: 4, Sideband: true},
		},
		{
			"writing objects",
			"Writing objects:  20% (1/5)",
			TransferEvent{Phase: PhaseWriting, Percent: 20, Current: 1, Total: 5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := parseTransfer(tt.line)
			if !ok {
				t.Fatalf("parseTransfer did not claim %q", tt.line)
			}
			if !reflect.DeepEqual(ev, tt.want) {
				t.Errorf("event = %+v, want %+v", ev, tt.want)
			}
		})
	}
}

func TestParseTransferRejects(t *testing.T) {
	lines := []string{
		"Checking out files: 100% (3/3), done.",
		"Auto-merging main.go",
		"some random text",
		"Unknown objects:  50% (1/2)",
	}
	for _, line := range lines {
		if _, ok := parseTransfer(line); ok {
			t.Errorf("parseTransfer claimed %q", line)
		}
	}
}

func TestParseCheckout(t *testing.T) {
	ev, ok := parseCheckout("Checking out files:  33% (1/3)")
	if !ok {
		t.Fatal("parseCheckout did not claim the line")
	}
	want := CheckoutEvent{Percent: 33, Current: 1, Total: 3}
	if !reflect.DeepEqual(ev, want) {
		t.Errorf("event = %+v, want %+v", ev, want)
	}

	ev, ok = parseCheckout("Updating files: 100% (7/7), done.")
	if !ok {
		t.Fatal("parseCheckout did not claim the updating line")
	}
	want = CheckoutEvent{Percent: 100, Current: 7, Total: 7, Done: true}
	if !reflect.DeepEqual(ev, want) {
		t.Errorf("event = %+v, want %+v", ev, want)
	}

	if _, ok := parseCheckout("Receiving objects:  50% (1/2)"); ok {
		t.Error("parseCheckout claimed a transfer line")
	}
}

func TestParseConflict(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantKind string
		wantPath string
	}{
		{
			"content conflict",
			"CONFLICT (content): Merge conflict in cmd/main.go",
			"content", "cmd/main.go",
		},
		{
			"rename delete",
			"CONFLICT (rename/delete): a.txt renamed to b.txt in HEAD, but deleted in theirs.",
			"rename/delete", "",
		},
		{
			"add add",
			"CONFLICT (add/add): Merge conflict in shared.go",
			"add/add", "shared.go",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := parseConflict(tt.line)
			if !ok {
				t.Fatalf("parseConflict did not claim %q", tt.line)
			}
			conflict := ev.(ConflictEvent)
			if conflict.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", conflict.Kind, tt.wantKind)
			}
			if conflict.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", conflict.Path, tt.wantPath)
			}
			if conflict.Text != tt.line {
				t.Errorf("Text = %q, want the raw line", conflict.Text)
			}
		})
	}
}

func TestParseAutoMerging(t *testing.T) {
	ev, ok := parseAutoMerging("Auto-merging pkg/progress/events.go")
	if !ok {
		t.Fatal("parseAutoMerging did not claim the line")
	}
	if ev.(AutoMergingEvent).Path != "pkg/progress/events.go" {
		t.Errorf("Path = %q", ev.(AutoMergingEvent).Path)
	}
}

func TestGenericEvent(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Event
		ok   bool
	}{
		{"warning stripped", "warning: redirecting to https", WarningEvent{Text: "redirecting to https"}, true},
		{"error stripped", "error: cannot lock ref", ErrorEvent{Text: "cannot lock ref"}, true},
		{"fatal stripped", "fatal: early EOF", ErrorEvent{Text: "early EOF"}, true},
		{"usage stripped", "usage: git merge [<options>]", ErrorEvent{Text: "git merge [<options>]"}, true},
		{"hint suppressed", "hint: Pulling without specifying how to reconcile", nil, false},
		{"total rollup suppressed", "Total 3 (delta 0), reused 0 (delta 0)", nil, false},
		{"plain message forwarded", "Switched to branch 'main'", MessageEvent{Text: "Switched to branch 'main'"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := genericEvent(tt.line)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && !reflect.DeepEqual(ev, tt.want) {
				t.Errorf("event = %+v, want %+v", ev, tt.want)
			}
		})
	}
}

func TestParseLineFirstMatchWins(t *testing.T) {
	// A sideband transfer counter must decode as a TransferEvent, not
	// fall through to the plain relay parser behind it.
	ev, ok := parseLine(transferParsers, "remote: Compressing objects: 100% (4/4), done.")
	if !ok {
		t.Fatal("line not claimed")
	}
	if _, isTransfer := ev.(TransferEvent); !isTransfer {
		t.Errorf("event = %T, want TransferEvent", ev)
	}

	ev, ok = parseLine(transferParsers, "remote: this branch is protected")
	if !ok {
		t.Fatal("sideband line not claimed")
	}
	if _, isRemote := ev.(RemoteEvent); !isRemote {
		t.Errorf("event = %T, want RemoteEvent", ev)
	}
}

func TestParsersForTables(t *testing.T) {
	if parsers := parsersFor(gitcmd.OpClone); len(parsers) != len(transferParsers) {
		t.Errorf("clone table has %d parsers, want %d", len(parsers), len(transferParsers))
	}
	if parsers := parsersFor(gitcmd.OpMerge); len(parsers) != len(mergeParsers) {
		t.Errorf("merge table has %d parsers, want %d", len(parsers), len(mergeParsers))
	}
	if parsers := parsersFor(gitcmd.OpGeneric); parsers != nil {
		t.Errorf("generic table = %v, want nil", parsers)
	}
}

func TestScanOutputLines(t *testing.T) {
	input := "plain\rcarriage\r\nwindows\nunix\rlast"
	sc := bufio.NewScanner(strings.NewReader(input))
	sc.Split(scanOutputLines)

	var got []string
	for sc.Scan() {
		got = append(got, sc.Text())
	}
	want := []string{"plain", "carriage", "windows", "unix", "last"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens = %q, want %q", got, want)
	}
}
