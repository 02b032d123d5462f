// Package judge obtains one verdict per (run, requirement) pair. All
// requirements of a run are judged in parallel; the cross-run scheduler
// already bounds total subprocess load, so no extra cap is applied here.
package judge

import (
	"context"
	"fmt"
	"sync"

	"quorum/internal/agent"
	"quorum/internal/extract"
	"quorum/internal/unwrap"
	"quorum/internal/verdict"
)

// Result is one (run, requirement) judgment. When the judge call or its
// reply failed, Err is set and Verdict is the default non-pass, so the
// outcome still counts as evidence against the requirement.
type Result struct {
	Requirement extract.Requirement
	Verdict     verdict.Verdict
	Err         error
}

// Run judges one run's output against every requirement of the spec.
// Results are indexed like spec.Requirements regardless of completion
// order. Failed judge calls are absorbed into failed results, never
// propagated, so one bad judgment cannot abort its siblings.
func Run(ctx context.Context, invoker agent.Invoker, base agent.Request, spec extract.TestSpec, output string) []Result {
	results := make([]Result, len(spec.Requirements))
	var wg sync.WaitGroup
	for index, requirement := range spec.Requirements {
		wg.Add(1)
		go func(index int, requirement extract.Requirement) {
			defer wg.Done()
			results[index] = judgeOne(ctx, invoker, base, spec, output, requirement)
		}(index, requirement)
	}
	wg.Wait()
	return results
}

// judgeOne performs a single judge call and parses its reply.
func judgeOne(ctx context.Context, invoker agent.Invoker, base agent.Request, spec extract.TestSpec, output string, requirement extract.Requirement) Result {
	result := Result{Requirement: requirement}
	req := base
	req.Input = BuildPrompt(spec, output, requirement)
	reply, err := invoker.Invoke(ctx, req)
	if err != nil {
		result.Err = fmt.Errorf("judging %q: %w", requirement.Requirement, err)
		return result
	}
	text := reply
	if s, ok := unwrap.Structured(reply).StringValue(); ok {
		text = s
	}
	block, err := verdict.ParseBlock(text)
	if err != nil {
		result.Err = fmt.Errorf("judging %q: %w", requirement.Requirement, err)
		return result
	}
	result.Verdict = verdict.Normalize(block)
	return result
}
