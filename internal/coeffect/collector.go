// Package coeffect gathers the external facts classification depends
// on: the account's CloudTrail trails, S3 buckets, and Cost & Usage
// Report definitions. Each category is fetched independently; a failed
// fetch becomes an empty category, never an error, so one broken API
// cannot blind the other classifications.
package coeffect

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudtrail"
	cur "github.com/aws/aws-sdk-go-v2/service/costandusagereportservice"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog/log"

	"account-discovery/internal/world"
)

// CloudTrailAPI is the slice of the CloudTrail client the collector uses.
type CloudTrailAPI interface {
	DescribeTrails(ctx context.Context, params *cloudtrail.DescribeTrailsInput, optFns ...func(*cloudtrail.Options)) (*cloudtrail.DescribeTrailsOutput, error)
}

// S3API is the slice of the S3 client the collector uses.
type S3API interface {
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
}

// CURAPI is the slice of the Cost & Usage Report client the collector
// uses. It matches the SDK paginator's client interface.
type CURAPI interface {
	DescribeReportDefinitions(ctx context.Context, params *cur.DescribeReportDefinitionsInput, optFns ...func(*cur.Options)) (*cur.DescribeReportDefinitionsOutput, error)
}

// Collector fetches all three coeffect categories into a world
// snapshot. It holds no cache; every invocation observes live state.
type Collector struct {
	cloudtrail CloudTrailAPI
	s3         S3API
	cur        CURAPI
}

func NewCollector(ct CloudTrailAPI, s3c S3API, curc CURAPI) *Collector {
	return &Collector{cloudtrail: ct, s3: s3c, cur: curc}
}

// Collect runs the three fetches in sequence and returns the augmented
// snapshot. Only the fields classification reads survive projection;
// the rest of each response is discarded.
func (c *Collector) Collect(ctx context.Context, w world.World) world.World {
	w = c.collectTrails(ctx, w)
	w = c.collectBuckets(ctx, w)
	w = c.collectReports(ctx, w)
	return w
}

func (c *Collector) collectTrails(ctx context.Context, w world.World) world.World {
	resp, err := c.cloudtrail.DescribeTrails(ctx, &cloudtrail.DescribeTrailsInput{})
	if err != nil {
		warnFetchFailed("cloudtrail", err)
		return w.WithTrails(nil)
	}
	trails := make([]world.Trail, 0, len(resp.TrailList))
	for _, t := range resp.TrailList {
		trails = append(trails, world.Trail{
			S3BucketName:        t.S3BucketName,
			SnsTopicName:        t.SnsTopicName,
			SnsTopicARN:         t.SnsTopicARN,
			IsMultiRegionTrail:  t.IsMultiRegionTrail,
			TrailARN:            t.TrailARN,
			IsOrganizationTrail: t.IsOrganizationTrail,
		})
	}
	return w.WithTrails(trails)
}

func (c *Collector) collectBuckets(ctx context.Context, w world.World) world.World {
	resp, err := c.s3.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		warnFetchFailed("s3", err)
		return w.WithBuckets(nil)
	}
	buckets := make([]world.Bucket, 0, len(resp.Buckets))
	for _, b := range resp.Buckets {
		buckets = append(buckets, world.Bucket{Name: aws.ToString(b.Name)})
	}
	return w.WithBuckets(buckets)
}

func (c *Collector) collectReports(ctx context.Context, w world.World) world.World {
	var reports []world.ReportDefinition
	pager := cur.NewDescribeReportDefinitionsPaginator(c.cur, &cur.DescribeReportDefinitionsInput{})
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			warnFetchFailed("cur", err)
			return w.WithReports(nil)
		}
		for _, rd := range page.ReportDefinitions {
			elements := make([]string, 0, len(rd.AdditionalSchemaElements))
			for _, el := range rd.AdditionalSchemaElements {
				elements = append(elements, string(el))
			}
			reports = append(reports, world.ReportDefinition{
				TimeUnit:                 string(rd.TimeUnit),
				Format:                   string(rd.Format),
				Compression:              string(rd.Compression),
				AdditionalSchemaElements: elements,
				S3Bucket:                 rd.S3Bucket,
				S3Prefix:                 rd.S3Prefix,
				S3Region:                 nullableRegion(string(rd.S3Region)),
				ReportVersioning:         string(rd.ReportVersioning),
				RefreshClosedReports:     rd.RefreshClosedReports,
			})
		}
	}
	return w.WithReports(reports)
}

// nullableRegion maps the SDK's enum-typed region to the descriptor's
// optional field: the zero enum means the field was absent.
func nullableRegion(region string) *string {
	if region == "" {
		return nil
	}
	return &region
}

func warnFetchFailed(category string, err error) {
	evt := log.Warn().Err(err).Str("category", category)
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		evt = evt.Str("code", apiErr.ErrorCode())
	}
	evt.Msg("failed to collect coeffect, treating category as empty")
}
