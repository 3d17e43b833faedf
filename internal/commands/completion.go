package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// TableCompleter returns a ShellCompleteFunc that suggests table identities
// as positional completions.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func TableCompleter(flags *Flags) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		// Delegate to default flag completion when typing a flag
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		if flags.Provider == nil {
			return
		}
		items, err := flags.Provider.ListCatalog(ctx)
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, s := range items {
			_, _ = fmt.Fprintln(w, s.TableIdentity)
		}
	}
}
