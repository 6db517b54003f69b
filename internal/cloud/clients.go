// Package cloud constructs the AWS SDK clients backing the coeffect
// sources.
package cloud

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudtrail"
	cur "github.com/aws/aws-sdk-go-v2/service/costandusagereportservice"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"account-discovery/pkg/platform"
)

// Clients bundles the three service clients discovery reads from.
type Clients struct {
	CloudTrail *cloudtrail.Client
	S3         *s3.Client
	CUR        *cur.Client
}

// NewClients loads the ambient AWS configuration (Lambda execution
// role, env vars, shared config for local runs) and builds the
// service clients from it.
func NewClients(ctx context.Context) (*Clients, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Clients{
		CloudTrail: cloudtrail.NewFromConfig(cfg),
		S3:         s3.NewFromConfig(cfg),
		// The Cost & Usage Report API is only served out of us-east-1.
		CUR: cur.NewFromConfig(cfg, func(o *cur.Options) {
			o.Region = platform.GetEnv("DISCOVERY_CUR_REGION", "us-east-1")
		}),
	}, nil
}
