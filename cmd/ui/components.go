package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// changeLabels maps the engine's change letters to the words shown in
// status and diff listings.
var changeLabels = map[byte]string{
	'M': "modified",
	'A': "added",
	'D': "deleted",
	'R': "renamed",
	'C': "copied",
	'T': "typechange",
	'U': "conflict",
}

// ChangeLabel returns the word for one change letter, or "changed"
// for letters the listing does not name.
func ChangeLabel(letter byte) string {
	if label, ok := changeLabels[letter]; ok {
		return label
	}
	return "changed"
}

// FormatChange renders one change line from the engine's letter,
// colored by kind.
func FormatChange(letter byte, path string) string {
	label := fmt.Sprintf("%-11s", ChangeLabel(letter)+":")
	switch letter {
	case 'A':
		return fmt.Sprintf("  %s  %s %s", render(stagedStyle, IconAdded), render(stagedStyle, label), path)
	case 'D':
		return fmt.Sprintf("  %s  %s %s", render(deletedStyle, IconDeleted), render(deletedStyle, label), path)
	case 'R', 'C':
		return fmt.Sprintf("  %s  %s %s", render(renamedStyle, IconRenamed), render(renamedStyle, label), path)
	case 'U':
		return fmt.Sprintf("  %s  %s %s", render(conflictStyle, IconConflict), render(conflictStyle, label), path)
	default:
		return fmt.Sprintf("  %s  %s %s", render(modifiedStyle, IconModified), render(modifiedStyle, label), path)
	}
}

// FormatRename renders a rename line with both sides and the
// similarity score.
func FormatRename(from, to string, score int) string {
	arrow := fmt.Sprintf("%s %s %s", from, IconRenamed, to)
	if score > 0 && score < 100 {
		arrow += render(dimStyle, fmt.Sprintf(" (%d%%)", score))
	}
	return fmt.Sprintf("  %s  %s %s", render(renamedStyle, IconRenamed), render(renamedStyle, "renamed:   "), arrow)
}

// FormatUntracked formats an untracked file path.
func FormatUntracked(path string) string {
	return fmt.Sprintf("  %s  %s", render(untrackedStyle, IconUntracked), render(untrackedStyle, path))
}

// FormatConflict formats a conflicted path with its two stage letters.
func FormatConflict(ours, theirs byte, path string) string {
	stages := render(dimStyle, fmt.Sprintf("[%c%c]", ours, theirs))
	return fmt.Sprintf("  %s  %s %s", render(conflictStyle, IconConflict), path, stages)
}

// SuccessMessage creates a success message with a checkmark icon.
func SuccessMessage(message string, details ...string) string {
	parts := []string{Green(IconCheck), Green(message)}
	for _, detail := range details {
		parts = append(parts, Blue(detail))
	}
	return strings.Join(parts, " ")
}

// ErrorMessage and WarningMessage usually land on stderr, which can
// be a terminal even when stdout is piped, so they color through the
// color package's own detection instead of the stdout gate.
func ErrorMessage(message string) string {
	return color.New(color.FgRed, color.Bold).Sprint(message)
}

func WarningMessage(message string) string {
	return color.New(color.FgYellow).Sprint(message)
}

// InfoMessage formats an informational message in blue.
func InfoMessage(message string) string {
	return Blue(message)
}

// BranchInfo formats the current-branch line with an icon.
func BranchInfo(branchName string) string {
	return fmt.Sprintf("%s Branch: %s", Cyan(IconBranch), Blue(branchName))
}

// AheadBehind renders the upstream divergence suffix, empty when the
// branch is level with its upstream.
func AheadBehind(ahead, behind int) string {
	switch {
	case ahead > 0 && behind > 0:
		return render(yellowStyle, fmt.Sprintf("↑%d ↓%d", ahead, behind))
	case ahead > 0:
		return render(greenStyle, fmt.Sprintf("↑%d", ahead))
	case behind > 0:
		return render(redStyle, fmt.Sprintf("↓%d", behind))
	}
	return ""
}

// CommitInfo carries the fields of one rendered commit.
type CommitInfo struct {
	Hash    string
	Author  string
	Date    string
	Message string
}

// FormatCommitDetailed formats a commit with full details in a box.
func FormatCommitDetailed(commit CommitInfo) string {
	var content strings.Builder

	content.WriteString(fmt.Sprintf("%s %s\n", Yellow(IconCommit), render(commitHashStyle, commit.Hash)))
	content.WriteString(fmt.Sprintf("%s %s\n", render(commitAuthorStyle, "author:"), commit.Author))
	content.WriteString(fmt.Sprintf("%s %s\n", render(commitDateStyle, "date:  "), commit.Date))
	content.WriteString("\n")
	content.WriteString(commit.Message)

	return CommitBox(content.String())
}

// FormatCommitSeparator creates a separator between commits.
func FormatCommitSeparator() string {
	return render(dimStyle, "  "+IconSeparator)
}
