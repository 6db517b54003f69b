// discovery - AWS account-role classification for CloudFormation onboarding
//
// Usage:
//
//	discovery lambda
//	discovery invoke --event event.json [--dry-run] [--pretty]
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"account-discovery/internal/classify"
	"account-discovery/internal/cloud"
	"account-discovery/internal/coeffect"
	"account-discovery/internal/pipeline"
	"account-discovery/internal/world"
	"account-discovery/pkg/cfn"
	"account-discovery/pkg/platform"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	app := &cli.App{
		Name:    "discovery",
		Usage:   "Classify an AWS account's role (audit, connected, cloudtrail, master payer) for onboarding",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"DISCOVERY_LOG_LEVEL"},
			},
			&cli.IntFlag{
				Name:    "response-timeout",
				Value:   10,
				Usage:   "Per-attempt timeout in seconds for response delivery",
				EnvVars: []string{"DISCOVERY_RESPONSE_TIMEOUT"},
			},
			&cli.IntFlag{
				Name:    "response-retries",
				Value:   3,
				Usage:   "Retry count for response delivery",
				EnvVars: []string{"DISCOVERY_RESPONSE_RETRIES"},
			},
		},

		Commands: []*cli.Command{
			lambdaCommand(),
			invokeCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// LAMBDA COMMAND
// =============================================================================

func lambdaCommand() *cli.Command {
	return &cli.Command{
		Name:  "lambda",
		Usage: "Run as the Lambda behind the CloudFormation custom resource",
		Action: func(c *cli.Context) error {
			platform.InitLogger(c.String("log-level"), false)
			sender := newSender(c)

			lambda.Start(func(ctx context.Context, ev cfn.Event) error {
				if lc, ok := lambdacontext.FromContext(ctx); ok {
					log.Info().Str("aws_request_id", lc.AwsRequestID).Str("stack_id", ev.StackId).Msg("event received")
				}
				return handle(ctx, ev, sender)
			})
			return nil
		},
	}
}

// =============================================================================
// INVOKE COMMAND (local development)
// =============================================================================

func invokeCommand() *cli.Command {
	return &cli.Command{
		Name:  "invoke",
		Usage: "Run the pipeline locally against an event file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "event",
				Aliases: []string{"e"},
				Usage:   "Path to a custom-resource event JSON file (- for stdin)",
				Value:   "-",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Print the response instead of PUTting it to the ResponseURL",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Human-readable console logging",
			},
		},
		Action: func(c *cli.Context) error {
			platform.InitLogger(c.String("log-level"), c.Bool("pretty"))

			ev, err := readEvent(c.String("event"))
			if err != nil {
				return err
			}

			var responder pipeline.Responder = newSender(c)
			if c.Bool("dry-run") {
				responder = printResponder{}
			}
			return handle(c.Context, ev, responder)
		},
	}
}

func newSender(c *cli.Context) *cfn.Sender {
	return cfn.NewSender(
		c.Int("response-retries"),
		time.Duration(c.Int("response-timeout"))*time.Second,
	)
}

func readEvent(path string) (cfn.Event, error) {
	var ev cfn.Event
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return ev, fmt.Errorf("read event: %w", err)
	}
	if err := json.Unmarshal(raw, &ev); err != nil {
		return ev, fmt.Errorf("decode event: %w", err)
	}
	return ev, nil
}

// handle runs one full discovery for the event. Client construction
// failure is still answered with a FAILED response so the stack
// operation is never left hanging.
func handle(ctx context.Context, ev cfn.Event, responder pipeline.Responder) error {
	clients, err := cloud.NewClients(ctx)
	if err != nil {
		log.Error().Err(err).Msg("aws client setup failed")
		if rErr := responder.Respond(ctx, ev, cfn.StatusFailed, world.DefaultOutput()); rErr != nil {
			return fmt.Errorf("deliver response: %w", rErr)
		}
		return err
	}

	p := pipeline.New(
		coeffect.NewCollector(clients.CloudTrail, clients.S3, clients.CUR),
		classify.NewEngine(),
		responder,
	)
	_, err = p.Run(ctx, ev)
	return err
}

// printResponder writes the would-be response to stdout for dry runs.
type printResponder struct{}

func (printResponder) Respond(_ context.Context, ev cfn.Event, status string, data map[string]any) error {
	resp := cfn.NewResponse(ev, status, data)
	body, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(body))
	return nil
}
