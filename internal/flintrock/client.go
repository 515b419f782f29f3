// Package flintrock binds the external cluster CLI's command surface to
// typed operations. It owns argv construction only; the CLI itself (the
// provisioning, SSH orchestration, and cloud calls behind it) is an
// external collaborator reached solely through its exit code and output.
package flintrock

import (
	"context"
	"fmt"

	"github.com/google/shlex"

	"github.com/jorgito1167/flintcheck/internal/execx"
)

// Client invokes the cluster CLI's subcommands.
type Client struct {
	binary    string
	extraArgs []string
	usePTY    bool
	runner    *execx.Runner
}

// NewClient creates a Client for the CLI at binary.
//
// extraArgs is a shell-style string appended to every invocation (e.g.
// a provider profile flag). When usePTY is true, stop and destroy run
// on a pseudo-terminal with their prompts answered interactively
// instead of being bypassed with --assume-yes.
func NewClient(binary, extraArgs string, usePTY bool, runner *execx.Runner) (*Client, error) {
	extra, err := shlex.Split(extraArgs)
	if err != nil {
		return nil, fmt.Errorf("invalid extra_args %q: %w", extraArgs, err)
	}
	return &Client{
		binary:    binary,
		extraArgs: extra,
		usePTY:    usePTY,
		runner:    runner,
	}, nil
}

// Binary returns the configured CLI executable path.
func (c *Client) Binary() string {
	return c.binary
}

// LaunchArgs returns the argv for launching a cluster, without the binary.
func (c *Client) LaunchArgs(name string, slaves int) []string {
	return c.withExtra("launch", name, "--num-slaves", fmt.Sprintf("%d", slaves))
}

// Launch launches a cluster with the given number of worker nodes.
func (c *Client) Launch(ctx context.Context, name string, slaves int) (*execx.Result, error) {
	return c.runner.Run(ctx, c.command(c.LaunchArgs(name, slaves)))
}

// DescribeArgs returns the argv for describing a cluster. An empty name
// lists all clusters.
func (c *Client) DescribeArgs(name string) []string {
	if name == "" {
		return c.withExtra("describe")
	}
	return c.withExtra("describe", name)
}

// Describe reports on one cluster, or on all clusters when name is empty.
// It works regardless of the cluster's running/stopped state.
func (c *Client) Describe(ctx context.Context, name string) (*execx.Result, error) {
	return c.runner.Run(ctx, c.command(c.DescribeArgs(name)))
}

// StopArgs returns the argv for stopping a cluster.
func (c *Client) StopArgs(name string) []string {
	if c.usePTY {
		return c.withExtra("stop", name)
	}
	return c.withExtra("stop", name, "--assume-yes")
}

// Stop stops a running cluster, auto-confirming the CLI's prompt.
func (c *Client) Stop(ctx context.Context, name string) (*execx.Result, error) {
	return c.confirmed(ctx, c.StopArgs(name))
}

// StartArgs returns the argv for starting a stopped cluster.
func (c *Client) StartArgs(name string) []string {
	return c.withExtra("start", name)
}

// Start starts a stopped cluster.
func (c *Client) Start(ctx context.Context, name string) (*execx.Result, error) {
	return c.runner.Run(ctx, c.command(c.StartArgs(name)))
}

// DestroyArgs returns the argv for destroying a cluster.
func (c *Client) DestroyArgs(name string) []string {
	if c.usePTY {
		return c.withExtra("destroy", name)
	}
	return c.withExtra("destroy", name, "--assume-yes")
}

// Destroy destroys a cluster, auto-confirming the CLI's prompt.
func (c *Client) Destroy(ctx context.Context, name string) (*execx.Result, error) {
	return c.confirmed(ctx, c.DestroyArgs(name))
}

// confirmed runs prompt-bearing subcommands, over a pty when configured.
func (c *Client) confirmed(ctx context.Context, args []string) (*execx.Result, error) {
	cmd := c.command(args)
	if c.usePTY {
		return c.runner.RunPTY(ctx, cmd)
	}
	return c.runner.Run(ctx, cmd)
}

func (c *Client) command(args []string) execx.Command {
	return execx.Command{Path: c.binary, Args: args}
}

func (c *Client) withExtra(args ...string) []string {
	return append(args, c.extraArgs...)
}
