package cli

import (
	"github.com/spf13/cobra"

	"stackpatch.dev/stackpatch/internal/patch"
	"stackpatch.dev/stackpatch/internal/runtime"
	"stackpatch.dev/stackpatch/internal/utils"
)

// newPatchCmd creates the patch command
func newPatchCmd() *cobra.Command {
	var opts patch.Options

	cmd := &cobra.Command{
		Use:   "patch <revision>",
		Short: "Patch the working tree from a review revision",
		Long: `Patch the working tree from a review revision.

By default stackpatch performs sanity checks, finds the base commit,
creates a new branch, then applies each revision of the dependency stack
as a commit. The revision may be given as a number ("123"), a "D"-prefixed
number ("D123"), or a full revision URL.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := utils.ParseRevisionID(args[0])
			if err != nil {
				return err
			}

			rt, err := runtime.GetContext()
			if err != nil {
				return err
			}
			defer func() { _ = rt.Splog.Close() }()

			opts.RevisionID = id
			return patch.Run(cmd.Context(), rt, opts)
		},
	}

	// Add flags
	cmd.Flags().StringVarP(&opts.ApplyTo, "apply-to", "a", "", "Where to apply the stack: <node>|here|base (default from config)")
	cmd.Flags().BoolVar(&opts.Raw, "raw", false, "Print the raw diffs to stdout instead of patching")
	cmd.Flags().BoolVar(&opts.NoCommit, "no-commit", false, "Apply the changes without creating commits")
	cmd.Flags().BoolVar(&opts.NoBranch, "no-branch", false, "Do not create a branch for the patched stack")
	cmd.Flags().BoolVar(&opts.NoParents, "no-parents", false, "Do not apply parents/ancestors of the revision")
	cmd.Flags().BoolVar(&opts.NoChildren, "no-children", false, "Do not apply children/descendants of the revision")
	cmd.Flags().BoolVar(&opts.NoDependencies, "no-dependencies", false, "Do not apply dependencies (same as --no-parents and --no-children)")
	cmd.Flags().BoolVar(&opts.IncludeAbandoned, "include-abandoned", false, "Apply abandoned revisions")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Patch without confirmation")
	cmd.Flags().BoolVar(&opts.ForceVCS, "force-vcs", false, "Override the VCS compatibility check")
	cmd.MarkFlagsMutuallyExclusive("apply-to", "raw")

	return cmd
}
