package runner

// Options configure a runner. The zero value is usable: empty label, the
// default policy and a consume hook that discards outputs.
//
// The With methods return a reconfigured copy, so chains never alias:
//
//	opts := runner.Options[int]{}.WithLabel("a").WithPolicy(runner.FixedIterations(10))
type Options[Out any] struct {
	Label   string    // free-form identifier used in reports
	Policy  Policy    // termination strategy (zero means DefaultPolicy)
	Consume func(Out) // untimed hook receiving every output (nil discards)
}

func (o Options[Out]) WithLabel(label string) Options[Out] {
	o.Label = label
	return o
}

func (o Options[Out]) WithPolicy(p Policy) Options[Out] {
	o.Policy = p
	return o
}

func (o Options[Out]) WithConsume(consume func(Out)) Options[Out] {
	o.Consume = consume
	return o
}

func (o *Options[Out]) normalize() {
	if o.Policy.IsZero() {
		o.Policy = DefaultPolicy()
	}
	if o.Consume == nil {
		o.Consume = func(Out) {}
	}
}
