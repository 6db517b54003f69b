package schema

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"account-discovery/internal/world"
)

func minimumTrail() world.Trail {
	return world.Trail{
		S3BucketName:       aws.String("trail-bucket"),
		SnsTopicName:       aws.String("trail-topic"),
		SnsTopicARN:        aws.String("arn:aws:sns:us-east-1:111111111111:trail-topic"),
		IsMultiRegionTrail: aws.Bool(true),
		TrailARN:           aws.String("arn:aws:cloudtrail:us-east-1:111111111111:trail/org"),
	}
}

func idealTrail() world.Trail {
	t := minimumTrail()
	t.IsOrganizationTrail = aws.Bool(true)
	return t
}

func validReport() world.ReportDefinition {
	return world.ReportDefinition{
		TimeUnit:                 "HOURLY",
		Format:                   "textORcsv",
		Compression:              "GZIP",
		AdditionalSchemaElements: []string{"RESOURCES"},
		S3Bucket:                 aws.String("billing-bucket"),
		S3Prefix:                 aws.String("cur/"),
		S3Region:                 aws.String("us-east-1"),
		ReportVersioning:         "CREATE_NEW_REPORT",
		RefreshClosedReports:     aws.Bool(true),
	}
}

func TestCheckMinimumTrail(t *testing.T) {
	assert.NoError(t, CheckMinimumTrail(minimumTrail()))

	tests := []struct {
		name   string
		mutate func(*world.Trail)
	}{
		{"missing bucket", func(tr *world.Trail) { tr.S3BucketName = nil }},
		{"missing topic name", func(tr *world.Trail) { tr.SnsTopicName = nil }},
		{"missing topic arn", func(tr *world.Trail) { tr.SnsTopicARN = nil }},
		{"missing trail arn", func(tr *world.Trail) { tr.TrailARN = nil }},
		{"single region", func(tr *world.Trail) { tr.IsMultiRegionTrail = aws.Bool(false) }},
		{"multi region unset", func(tr *world.Trail) { tr.IsMultiRegionTrail = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := minimumTrail()
			tt.mutate(&tr)
			assert.Error(t, CheckMinimumTrail(tr))
		})
	}
}

func TestCheckIdealTrail(t *testing.T) {
	assert.NoError(t, CheckIdealTrail(idealTrail()))

	t.Run("minimum-only trail fails ideal", func(t *testing.T) {
		assert.Error(t, CheckIdealTrail(minimumTrail()))
	})
	t.Run("organization flag false fails ideal", func(t *testing.T) {
		tr := minimumTrail()
		tr.IsOrganizationTrail = aws.Bool(false)
		assert.Error(t, CheckIdealTrail(tr))
	})
	t.Run("ideal still requires the minimum fields", func(t *testing.T) {
		tr := idealTrail()
		tr.SnsTopicARN = nil
		assert.Error(t, CheckIdealTrail(tr))
	})
}

func TestCheckReport(t *testing.T) {
	assert.NoError(t, CheckReport(validReport()))

	tests := []struct {
		name   string
		mutate func(*world.ReportDefinition)
	}{
		{"daily granularity", func(r *world.ReportDefinition) { r.TimeUnit = "DAILY" }},
		{"parquet format", func(r *world.ReportDefinition) { r.Format = "Parquet" }},
		{"zip compression", func(r *world.ReportDefinition) { r.Compression = "ZIP" }},
		{"no schema elements", func(r *world.ReportDefinition) { r.AdditionalSchemaElements = nil }},
		{"extra schema element", func(r *world.ReportDefinition) {
			r.AdditionalSchemaElements = []string{"RESOURCES", "SPLIT_COST_ALLOCATION_DATA"}
		}},
		{"missing bucket", func(r *world.ReportDefinition) { r.S3Bucket = nil }},
		{"missing prefix", func(r *world.ReportDefinition) { r.S3Prefix = nil }},
		{"missing region", func(r *world.ReportDefinition) { r.S3Region = nil }},
		{"overwrite versioning", func(r *world.ReportDefinition) { r.ReportVersioning = "OVERWRITE_REPORT" }},
		{"no closed-report refresh", func(r *world.ReportDefinition) { r.RefreshClosedReports = aws.Bool(false) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validReport()
			tt.mutate(&r)
			assert.Error(t, CheckReport(r))
		})
	}
}

func TestKeepValidDropsOnlyInvalid(t *testing.T) {
	broken := minimumTrail()
	broken.SnsTopicARN = nil

	valid := KeepValid("trail", CheckMinimumTrail, []world.Trail{broken, minimumTrail(), broken})
	require.Len(t, valid, 1)
	assert.Equal(t, "trail-bucket", aws.ToString(valid[0].S3BucketName))
}

func TestKeepValidEmptyInput(t *testing.T) {
	assert.Empty(t, KeepValid("report", CheckReport, nil))
}

func TestTrailCascade(t *testing.T) {
	t.Run("ideal subset wins even when a minimum trail lists first", func(t *testing.T) {
		minOnly := minimumTrail()
		minOnly.SnsTopicARN = aws.String("arn:aws:sns:us-east-1:222222222222:member-topic")

		valid := TrailCascade([]world.Trail{minOnly, idealTrail()})
		require.Len(t, valid, 1)
		assert.Equal(t, "arn:aws:sns:us-east-1:111111111111:trail-topic", aws.ToString(valid[0].SnsTopicARN))
	})

	t.Run("falls back to minimum when no trail is ideal", func(t *testing.T) {
		valid := TrailCascade([]world.Trail{minimumTrail()})
		require.Len(t, valid, 1)
	})

	t.Run("nil when every trail fails both schemas", func(t *testing.T) {
		single := minimumTrail()
		single.IsMultiRegionTrail = aws.Bool(false)
		assert.Nil(t, TrailCascade([]world.Trail{single}))
	})

	t.Run("nil on empty list", func(t *testing.T) {
		assert.Nil(t, TrailCascade(nil))
	})
}
