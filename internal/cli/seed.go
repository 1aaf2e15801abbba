package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hybrid-blog-api/internal/repository"
	"github.com/hybrid-blog-api/internal/seed"
)

// NewSeedCommand creates the seed command
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := seed.Options{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill both stores with linked sample data",
		Long: `Create --count users, posts, tags and comments. Post i is linked to tag i,
and posts and comments are assigned to users round-robin.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Count <= 0 {
				return fmt.Errorf("--count must be positive, got %d", opts.Count)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Count, "count", "n", seed.DefaultCount, "records per entity")
	cmd.Flags().BoolVar(&opts.Clear, "clear", false, "delete existing rows from both stores first")

	return cmd
}

func runSeed(rootOpts *RootOptions, opts seed.Options, cmd *cobra.Command) error {
	dbA, dbB, err := rootOpts.openBoth()
	if err != nil {
		return err
	}
	defer dbA.Close()
	defer dbB.Close()

	result, err := seed.New(repository.New(dbA, dbB), rootOpts.log).Run(cmd.Context(), opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if rootOpts.Format == "json" {
		return json.NewEncoder(out).Encode(result)
	}
	fmt.Fprintf(out, "Users:     %d\n", result.Users)
	fmt.Fprintf(out, "Posts:     %d\n", result.Posts)
	fmt.Fprintf(out, "Tags:      %d\n", result.Tags)
	fmt.Fprintf(out, "Post tags: %d\n", result.PostTags)
	fmt.Fprintf(out, "Comments:  %d\n", result.Comments)
	return nil
}
