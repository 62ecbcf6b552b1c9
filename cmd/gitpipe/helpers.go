package main

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"

	"github.com/utkarsh5026/gitpipe/cmd/ui"
	"github.com/utkarsh5026/gitpipe/pkg/config"
	"github.com/utkarsh5026/gitpipe/pkg/gitrepo"
	"github.com/utkarsh5026/gitpipe/pkg/objects"
	"github.com/utkarsh5026/gitpipe/pkg/progress"
)

// repoOptions builds the engine options for the current settings plus
// the command-line overrides.
func repoOptions() []gitrepo.RepoOption {
	binary := settings.Engine.Binary
	if gitBinary != "" {
		binary = gitBinary
	}
	opts := []gitrepo.RepoOption{gitrepo.WithBinary(binary)}
	if len(settings.Engine.Env) > 0 {
		opts = append(opts, gitrepo.WithEnv(settings.Engine.Env...))
	}
	if settings.Progress.QueueBound > 0 {
		opts = append(opts, gitrepo.WithProgressOptions(
			progress.WithBoundedQueue(settings.Progress.QueueBound, settings.Progress.QueuePolicyValue()),
		))
	}
	return opts
}

// openRepository opens the repository containing the working directory
// and layers its config file over the merged settings. The repository
// file can change the engine binary or environment, so the handle is
// reopened when it does.
func openRepository() (*gitrepo.Repository, error) {
	repo, err := gitrepo.Open(".", repoOptions()...)
	if err != nil {
		return nil, err
	}

	loaded, lerr := config.Load(repo.WorkTree())
	if lerr != nil {
		repo.Close()
		return nil, lerr
	}

	engineChanged := loaded.Settings.Engine.Binary != settings.Engine.Binary ||
		!slices.Equal(loaded.Settings.Engine.Env, settings.Engine.Env)
	settings = loaded.Settings

	if engineChanged {
		repo.Close()
		return gitrepo.Open(".", repoOptions()...)
	}
	return repo, nil
}

// confirm gates a destructive action. --yes bypasses the prompt;
// otherwise an interactive stdin is required.
func confirm(action string) error {
	if assumeYes {
		return nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("%s needs --yes when running without a terminal", action)
	}
	prompt := promptui.Prompt{Label: action, IsConfirm: true}
	if _, err := prompt.Run(); err != nil {
		return fmt.Errorf("aborted")
	}
	return nil
}

// transferProgress builds the renderer the remote verbs stream
// through. Output goes to stderr, where the engine itself would draw
// progress.
func transferProgress() *ui.TransferRenderer {
	return ui.NewTransferRenderer(os.Stderr)
}

func formatSignature(sig objects.Signature) string {
	return fmt.Sprintf("%s <%s>", sig.Name, sig.Email)
}

func shortSubject(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// printMergeResult renders the shared result shape of merge, pull,
// cherry-pick, and revert.
func printMergeResult(out io.Writer, res *gitrepo.MergeResult) {
	if res == nil {
		return
	}

	switch res.Outcome {
	case progress.OutcomeUpToDate:
		fmt.Fprintln(out, "Already up to date.")
	case progress.OutcomeFastForward:
		fmt.Fprintln(out, ui.SuccessMessage("fast-forwarded to", res.Head.Short()))
	case progress.OutcomeMergeCommit:
		fmt.Fprintln(out, ui.SuccessMessage("merged as", res.Head.Short()))
	case progress.OutcomeConflicted:
		fmt.Fprintln(out, ui.ErrorMessage("merge stopped on conflicts"))
	default:
		if !res.Head.IsZero() {
			fmt.Fprintln(out, ui.SuccessMessage("done, head at", res.Head.Short()))
		}
	}

	for _, path := range res.AutoMerged {
		fmt.Fprintf(out, "  auto-merged %s\n", path)
	}
	if len(res.Conflicts) > 0 {
		fmt.Fprintln(out, ui.Section("Conflicted paths:"))
		for _, path := range res.Conflicts {
			fmt.Fprintln(out, ui.FormatChange('U', path))
		}
		fmt.Fprintln(out, ui.InfoMessage("resolve the paths, stage them, then continue or commit"))
	}
}
