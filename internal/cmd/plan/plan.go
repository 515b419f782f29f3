package plan

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jorgito1167/flintcheck/internal/cmdutil"
	"github.com/jorgito1167/flintcheck/internal/config"
	"github.com/jorgito1167/flintcheck/internal/execx"
	"github.com/jorgito1167/flintcheck/internal/flintrock"
	"github.com/jorgito1167/flintcheck/internal/iostreams"
	"github.com/jorgito1167/flintcheck/internal/suite"
)

// PlanOptions holds options for the plan command.
type PlanOptions struct {
	IOStreams *iostreams.IOStreams
	Config    func() (*config.Config, error)

	Cluster string
	Slaves  int
	Binary  string

	clusterSet bool
	slavesSet  bool
	binarySet  bool
}

// NewCmdPlan creates the plan command.
func NewCmdPlan(f *cmdutil.Factory, runF func(context.Context, *PlanOptions) error) *cobra.Command {
	opts := &PlanOptions{
		IOStreams: f.IOStreams,
		Config:    f.Config,
	}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the lifecycle suite without executing it",
		Long: `Prints every step of the lifecycle suite, the command line it would
run, and the exit code it expects, without invoking the CLI.`,
		Example: `  # Show the plan for the configured cluster
  flintcheck plan

  # Show the plan for a different CLI binary
  flintcheck plan --cli ./flintrock`,
		Args: cmdutil.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.clusterSet = cmd.Flags().Changed("cluster")
			opts.slavesSet = cmd.Flags().Changed("num-slaves")
			opts.binarySet = cmd.Flags().Changed("cli")
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return planRun(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Cluster, "cluster", "", "Cluster name to exercise (default from config)")
	cmd.Flags().IntVar(&opts.Slaves, "num-slaves", 0, "Number of worker nodes to launch (default from config)")
	cmd.Flags().StringVar(&opts.Binary, "cli", "", "Path of the cluster CLI executable (default from config)")

	return cmd
}

func planRun(_ context.Context, opts *PlanOptions) error {
	cfg, err := opts.Config()
	if err != nil {
		return err
	}
	if opts.clusterSet {
		cfg.Cluster.Name = opts.Cluster
	}
	if opts.slavesSet {
		cfg.Cluster.Slaves = opts.Slaves
	}
	if opts.binarySet {
		cfg.CLI.Binary = opts.Binary
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// The client only renders argv here; the binary need not exist.
	client, err := flintrock.NewClient(cfg.CLI.Binary, cfg.CLI.ExtraArgs,
		cfg.CLI.Confirm == config.ConfirmPTY, &execx.Runner{})
	if err != nil {
		return err
	}

	entries := suite.LifecyclePlan(client, cfg.Cluster.Name, cfg.Cluster.Slaves)

	tw := tabwriter.NewWriter(opts.IOStreams.Out, 2, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSTEP\tEXPECT\tCOMMAND")
	for i, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\texit %d\t%s\n", i+1, e.Name, e.ExpectCode, e.Cmd)
	}
	return tw.Flush()
}
