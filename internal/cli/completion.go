package cli

import (
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/storyforge/pkg/document"
	"github.com/matzehuels/storyforge/pkg/story"
)

// completionCommand prints shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for storyforge.

Besides commands and flags, the scripts complete event ids and transition
handles from the storyline file given as the first argument.

  bash:        source <(storyforge completion bash)
  zsh:         storyforge completion zsh > "${fpath[1]}/_storyforge"
  fish:        storyforge completion fish | source
  powershell:  storyforge completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// argKind names what a positional argument of an editing command holds.
type argKind int

const (
	argFile argKind = iota
	argEvent
	argHandle
	argOther
)

// completeArgs completes positional arguments laid out as kinds. Event ids
// and handles are read from the storyline file in args[0].
func completeArgs(kinds ...argKind) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
		if len(args) >= len(kinds) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		switch kinds[len(args)] {
		case argFile:
			return []cobra.Completion{"json"}, cobra.ShellCompDirectiveFilterFileExt
		case argOther:
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		s, err := document.Import(args[0])
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		var out []cobra.Completion
		if kinds[len(args)] == argEvent {
			for _, e := range s.Events {
				out = append(out, cobra.CompletionWithDesc(e.ID, e.Name))
			}
			return out, cobra.ShellCompDirectiveNoFileComp
		}

		// Handles belong to the source event, the argument before.
		i := slices.IndexFunc(kinds, func(k argKind) bool { return k == argHandle })
		e, ok := s.Event(args[i-1])
		if !ok {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		for _, t := range story.Slots(e) {
			out = append(out, cobra.CompletionWithDesc(string(t.Handle), t.Label))
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}
