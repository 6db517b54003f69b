// Package world holds the immutable snapshot threaded through a
// discovery run: the validated input, the externally observed facts
// (coeffects), and the classification output accumulated by the rules.
//
// Snapshots are value types. Every update method returns a new World;
// the output map is copied on merge so earlier stages never see later
// writes.
package world

// Input is the validated request: which account to classify and where
// to deliver the result.
type Input struct {
	RequestType string
	AccountID   string
	ResponseURL string
	StackID     string
}

// Trail is a candidate CloudTrail configuration projected from the
// DescribeTrails response. Fields are pointers because presence is part
// of the validity schema.
type Trail struct {
	S3BucketName        *string
	SnsTopicName        *string
	SnsTopicARN         *string
	IsMultiRegionTrail  *bool
	TrailARN            *string
	IsOrganizationTrail *bool
}

// Bucket is an S3 bucket owned by the account under classification.
type Bucket struct {
	Name string
}

// ReportDefinition is a candidate Cost & Usage Report definition
// projected from the DescribeReportDefinitions response.
type ReportDefinition struct {
	TimeUnit                 string
	Format                   string
	Compression              string
	AdditionalSchemaElements []string
	S3Bucket                 *string
	S3Prefix                 *string
	S3Region                 *string
	ReportVersioning         string
	RefreshClosedReports     *bool
}

// Coeffects are the three categories of external state the classifier
// reads. A category whose fetch failed is left empty; absence of data
// is never an error at this layer.
type Coeffects struct {
	Trails  []Trail
	Buckets []Bucket
	Reports []ReportDefinition
}

// Output field names. The seven below are required on every successful
// response; extra diagnostic fields may ride along.
const (
	FieldIsAuditAccount               = "IsAuditAccount"
	FieldAuditCloudTrailBucketName    = "AuditCloudTrailBucketName"
	FieldIsConnectedAccount           = "IsConnectedAccount"
	FieldIsCloudTrailAccount          = "IsCloudTrailAccount"
	FieldCloudTrailSNSTopicArn        = "CloudTrailSNSTopicArn"
	FieldIsMasterPayerAccount         = "IsMasterPayerAccount"
	FieldMasterPayerBillingBucketName = "MasterPayerBillingBucketName"
)

// Output is the classification record. Boolean fields carry bool
// values; nullable name fields carry string or nil.
type Output map[string]any

// DefaultOutput is the all-false, all-null record sent on any fatal
// failure. A fresh map is returned each call.
func DefaultOutput() Output {
	return Output{
		FieldIsAuditAccount:               false,
		FieldAuditCloudTrailBucketName:    nil,
		FieldIsConnectedAccount:           false,
		FieldIsCloudTrailAccount:          false,
		FieldCloudTrailSNSTopicArn:        nil,
		FieldIsMasterPayerAccount:         false,
		FieldMasterPayerBillingBucketName: nil,
	}
}

// World is the accumulated snapshot for one discovery run.
type World struct {
	Input     Input
	Coeffects Coeffects
	Output    Output
}

// New starts a snapshot from a validated input with no coeffects and
// an empty output.
func New(in Input) World {
	return World{Input: in, Output: Output{}}
}

// WithTrails returns a snapshot with the cloudtrail coeffect set.
func (w World) WithTrails(trails []Trail) World {
	w.Coeffects.Trails = trails
	return w
}

// WithBuckets returns a snapshot with the s3 coeffect set.
func (w World) WithBuckets(buckets []Bucket) World {
	w.Coeffects.Buckets = buckets
	return w
}

// WithReports returns a snapshot with the cur coeffect set.
func (w World) WithReports(reports []ReportDefinition) World {
	w.Coeffects.Reports = reports
	return w
}

// MergeOutput returns a snapshot whose output is the previous output
// plus the given fields. The underlying map is copied, never shared.
func (w World) MergeOutput(fields Output) World {
	merged := make(Output, len(w.Output)+len(fields))
	for k, v := range w.Output {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	w.Output = merged
	return w
}

// LocalBucketNames is the set of bucket names owned by this account,
// used by the audit and master-payer rules for locality checks.
func (w World) LocalBucketNames() map[string]bool {
	names := make(map[string]bool, len(w.Coeffects.Buckets))
	for _, b := range w.Coeffects.Buckets {
		names[b.Name] = true
	}
	return names
}
