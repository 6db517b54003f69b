// Package pipeline orchestrates one discovery run as a strict linear
// state machine: validate input, collect coeffects, classify, validate
// output, respond. Any stage error short-circuits to Failed, and the
// responder still runs with the all-defaults record so the stack
// operation never hangs waiting on us.
package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"account-discovery/internal/schema"
	"account-discovery/internal/world"
	"account-discovery/pkg/cfn"
)

// State names a pipeline stage boundary.
type State string

const (
	StateStart              State = "start"
	StateInputValidated     State = "input_validated"
	StateCoeffectsCollected State = "coeffects_collected"
	StateClassified         State = "classified"
	StateOutputValidated    State = "output_validated"
	StateResponded          State = "responded"
	StateFailed             State = "failed"
)

// Collector gathers external facts into the snapshot.
type Collector interface {
	Collect(ctx context.Context, w world.World) world.World
}

// Classifier applies the classification rules.
type Classifier interface {
	Run(w world.World) (world.World, error)
}

// Responder delivers the terminal response to the host.
type Responder interface {
	Respond(ctx context.Context, ev cfn.Event, status string, data map[string]any) error
}

// Pipeline wires the stages together for one invocation.
type Pipeline struct {
	collector  Collector
	classifier Classifier
	responder  Responder
	state      State
}

func New(collector Collector, classifier Classifier, responder Responder) *Pipeline {
	return &Pipeline{
		collector:  collector,
		classifier: classifier,
		responder:  responder,
		state:      StateStart,
	}
}

// State reports the stage the pipeline last completed.
func (p *Pipeline) State() State {
	return p.state
}

// Run executes the pipeline for one event and always hands a response
// to the responder: the validated output on success, the all-defaults
// record with FAILED status on any fatal error. The returned error is
// the first fatal error, or the delivery error if responding itself
// failed.
func (p *Pipeline) Run(ctx context.Context, ev cfn.Event) (world.Output, error) {
	out, err := p.classify(ctx, ev)
	status := cfn.StatusSuccess
	if err != nil {
		p.state = StateFailed
		status = cfn.StatusFailed
		out = world.DefaultOutput()
		log.Error().Err(err).Str("state", string(p.state)).Msg("discovery failed, responding with defaults")
	}

	log.Info().Str("status", status).Interface("output", out).Msg("sending response")
	if rErr := p.responder.Respond(ctx, ev, status, out); rErr != nil {
		p.state = StateFailed
		return out, fmt.Errorf("deliver response: %w", rErr)
	}
	if err == nil {
		p.state = StateResponded
	}
	return out, err
}

func (p *Pipeline) classify(ctx context.Context, ev cfn.Event) (world.Output, error) {
	log.Info().Str("request_type", ev.RequestType).Str("stack_id", ev.StackId).Msg("processing event")

	in, err := schema.ValidateInput(ev)
	if err != nil {
		return nil, fmt.Errorf("validate input: %w", err)
	}
	p.state = StateInputValidated

	w := p.collector.Collect(ctx, world.New(in))
	p.state = StateCoeffectsCollected

	w, err = p.classifier.Run(w)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	p.state = StateClassified

	if err := schema.ValidateOutput(w.Output); err != nil {
		return nil, fmt.Errorf("validate output: %w", err)
	}
	p.state = StateOutputValidated

	return w.Output, nil
}
