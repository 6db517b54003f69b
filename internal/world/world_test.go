package world

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeOutputDoesNotAliasPriorSnapshot(t *testing.T) {
	base := New(Input{AccountID: "111111111111"})
	first := base.MergeOutput(Output{FieldIsConnectedAccount: true})
	second := first.MergeOutput(Output{FieldIsAuditAccount: true})

	second.Output[FieldIsConnectedAccount] = false

	assert.Equal(t, true, first.Output[FieldIsConnectedAccount], "earlier snapshot must not see later writes")
	_, ok := base.Output[FieldIsConnectedAccount]
	assert.False(t, ok, "base snapshot must stay empty")
}

func TestMergeOutputPreservesPriorKeys(t *testing.T) {
	w := New(Input{}).
		MergeOutput(Output{FieldIsAuditAccount: true, FieldAuditCloudTrailBucketName: "b"}).
		MergeOutput(Output{FieldIsConnectedAccount: true})

	assert.Equal(t, true, w.Output[FieldIsAuditAccount])
	assert.Equal(t, "b", w.Output[FieldAuditCloudTrailBucketName])
	assert.Equal(t, true, w.Output[FieldIsConnectedAccount])
}

func TestDefaultOutputIsFresh(t *testing.T) {
	a := DefaultOutput()
	a[FieldIsAuditAccount] = true
	b := DefaultOutput()
	assert.Equal(t, false, b[FieldIsAuditAccount])

	require.Len(t, b, 7)
	assert.Nil(t, b[FieldAuditCloudTrailBucketName])
	assert.Nil(t, b[FieldCloudTrailSNSTopicArn])
	assert.Nil(t, b[FieldMasterPayerBillingBucketName])
}

func TestLocalBucketNames(t *testing.T) {
	w := New(Input{}).WithBuckets([]Bucket{{Name: "one"}, {Name: "two"}})
	names := w.LocalBucketNames()
	assert.True(t, names["one"])
	assert.True(t, names["two"])
	assert.False(t, names["three"])
}

func TestWithCoeffectsReturnsAugmentedCopy(t *testing.T) {
	base := New(Input{})
	trails := base.WithTrails([]Trail{{S3BucketName: aws.String("b")}})
	assert.Empty(t, base.Coeffects.Trails)
	require.Len(t, trails.Coeffects.Trails, 1)

	reports := trails.WithReports([]ReportDefinition{{TimeUnit: "HOURLY"}})
	assert.Empty(t, trails.Coeffects.Reports)
	assert.Len(t, reports.Coeffects.Reports, 1)
	assert.Len(t, reports.Coeffects.Trails, 1, "earlier coeffects carry forward")
}
