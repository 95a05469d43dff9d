// Package samples holds the workloads microbench ships with: three integer
// power implementations measured over a shared grid of inputs, and an empty
// benchmark that shows the harness overhead.
package samples

import (
	"fmt"
	"math"
	"path"
	"slices"

	"github.com/torosent/microbench/internal/feeder"
	"github.com/torosent/microbench/internal/runner"
)

// PowInput is one (base, exp) pair.
type PowInput struct {
	Base uint64
	Exp  uint32
}

// Benchmark is a named runner ready to Run.
type Benchmark struct {
	runner.Bencher
	Name  string
	close func()
}

// Close releases resources held by the runner, such as a pull iterator.
func (b Benchmark) Close() {
	if b.close != nil {
		b.close()
	}
}

// Grid returns every pair with base in [0, 100) and exp in [1, 100].
func Grid() []PowInput {
	inputs := make([]PowInput, 0, 100*100)
	for base := range uint64(100) {
		for exp := uint32(1); exp <= 100; exp++ {
			inputs = append(inputs, PowInput{Base: base, Exp: exp})
		}
	}
	return inputs
}

// InputsFromSource reads "base" and "exp" fields from every record of src.
func InputsFromSource(src *feeder.Source) ([]PowInput, error) {
	inputs := make([]PowInput, 0, src.Len())
	for record := range src.All() {
		idx := len(inputs)
		base, err := record.Uint("base")
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", idx, err)
		}
		exp, err := record.Uint("exp")
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", idx, err)
		}
		if exp > math.MaxUint32 {
			return nil, fmt.Errorf("input %d: exp %d out of range", idx, exp)
		}
		inputs = append(inputs, PowInput{Base: base, Exp: uint32(exp)})
	}
	return inputs, nil
}

// Suite builds the sample benchmarks. Every pow benchmark cycles through
// inputs and checks each result against the answers LinearPow gives.
func Suite(policy runner.Policy, inputs []PowInput) []Benchmark {
	answers := make(map[uint64]struct{}, len(inputs))
	for _, in := range inputs {
		answers[LinearPow(in.Base, in.Exp)] = struct{}{}
	}

	return []Benchmark{
		powBenchmark("recursive pow", RecursivePow, policy, inputs, answers),
		powBenchmark("linear pow", LinearPow, policy, inputs, answers),
		powBenchmark("square-and-multiply pow", SquarePow, policy, inputs, answers),
		emptyBenchmark(policy),
	}
}

func powBenchmark(name string, pow func(uint64, uint32) uint64, policy runner.Policy, inputs []PowInput, answers map[uint64]struct{}) Benchmark {
	r := runner.NewSeq(
		runner.Cycle(slices.Values(inputs)),
		func(in PowInput) uint64 { return pow(in.Base, in.Exp) },
		runner.Options[uint64]{}.
			WithLabel(name).
			WithPolicy(policy).
			WithConsume(func(got uint64) {
				if _, ok := answers[got]; !ok {
					panic(fmt.Errorf("%s: result %d is not a known answer", name, got))
				}
			}),
	)
	return Benchmark{Bencher: r, Name: name, close: r.Close}
}

func emptyBenchmark(policy runner.Policy) Benchmark {
	const name = "empty"
	r := runner.NewNoSetup(
		func() struct{} { return struct{}{} },
		runner.Options[struct{}]{Label: name, Policy: policy},
	)
	return Benchmark{Bencher: r, Name: name}
}

// Select keeps the benchmarks whose name matches any of patterns (path.Match
// syntax). No patterns keeps everything. Benchmarks left out are closed.
func Select(benchmarks []Benchmark, patterns []string) ([]Benchmark, error) {
	if len(patterns) == 0 {
		return benchmarks, nil
	}
	for _, pattern := range patterns {
		if _, err := path.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("bench pattern %q: %w", pattern, err)
		}
	}

	var selected []Benchmark
	for _, b := range benchmarks {
		if matchesAny(b.Name, patterns) {
			selected = append(selected, b)
		} else {
			b.Close()
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no benchmark matches %v", patterns)
	}
	return selected, nil
}

func matchesAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
