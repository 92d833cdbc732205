/*
Package cascade is an execution engine that walks a prompt tree breadth-first
and drives one generation call per node, level by level, under interactive
operator control.

It separates planning (which nodes run, in what order) from execution (one
in-flight generation at a time) and from observation (snapshots and hooks),
so a UI, an HTTP API, or an MCP client can steer a long-running cascade
without racing the engine.

# Concept

A cascade starts at a root node and targets its descendants: level 0 holds
the root's direct children, level 1 their children, and so on. Within a
level nodes run left to right in tree order. Nodes flagged as excluded are
skipped but their children still run; soft-deleted nodes disappear together
with their sub-trees.

The engine is steered through latched control commands. Pause and Cancel
never interrupt a generation call in flight; they take effect at the next
node boundary. Cancel keeps everything that already finished: the run ends
as Completed with a partial result set.

# Usage

Wire a tree provider and a generator, then start a run and watch it through
hooks or snapshots:

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/oxygn-cloud-ai/cascade"
		"github.com/oxygn-cloud-ai/cascade/pkg/adapters/file"
		"github.com/oxygn-cloud-ai/cascade/pkg/adapters/stub"
		"github.com/oxygn-cloud-ai/cascade/pkg/domain"
	)

	func main() {
		provider, rootID, err := file.Load("./tree.yaml")
		if err != nil {
			log.Fatal(err)
		}

		engine, err := cascade.New(provider, stub.New(),
			cascade.WithHooks(domain.RunHooks{
				OnNodeComplete: func(_ context.Context, ev *domain.NodeEvent) {
					fmt.Printf("done: %s\n", ev.NodeID)
				},
			}),
		)
		if err != nil {
			log.Fatal(err)
		}

		if err := engine.Start(context.Background(), rootID); err != nil {
			log.Fatal(err)
		}
		<-engine.Done()

		snap := engine.Snapshot()
		fmt.Printf("%s: %d completed, %d failed, %d skipped\n",
			snap.Status, snap.CompletedCount(), snap.FailedCount(), snap.SkippedCount())
	}

Swap the stub generator for your own ports.Generator to call a real model.
*/
package cascade
