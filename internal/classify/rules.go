// Package classify turns a collected world snapshot into the account
// classification record. Four rules run in fixed order; each reads the
// input and coeffects, merges its own output fields, and never touches
// fields written by another rule.
package classify

import (
	"account-discovery/internal/schema"
	"account-discovery/internal/world"
)

// Rule is one classification step. Apply is pure given the snapshot:
// identical input and coeffects produce identical output.
type Rule struct {
	Name  string
	Apply func(world.World) (world.World, error)
}

// DefaultRules returns the four account classifications in their fixed
// order. Later rules may read earlier output but none does.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "audit_account", Apply: discoverAuditAccount},
		{Name: "connected_account", Apply: discoverConnectedAccount},
		{Name: "cloudtrail_account", Apply: discoverCloudTrailAccount},
		{Name: "master_payer_account", Apply: discoverMasterPayerAccount},
	}
}

// discoverAuditAccount checks whether the first listed trail logs into
// a bucket this account owns. The bucket name is surfaced regardless of
// ownership.
func discoverAuditAccount(w world.World) (world.World, error) {
	var trailBucket *string
	if len(w.Coeffects.Trails) > 0 {
		trailBucket = w.Coeffects.Trails[0].S3BucketName
	}
	local := w.LocalBucketNames()
	return w.MergeOutput(world.Output{
		world.FieldIsAuditAccount:            trailBucket != nil && local[*trailBucket],
		world.FieldAuditCloudTrailBucketName: nullableName(trailBucket),
	}), nil
}

// discoverConnectedAccount is trivially true: any account running this
// discovery has been onboarded.
func discoverConnectedAccount(w world.World) (world.World, error) {
	return w.MergeOutput(world.Output{
		world.FieldIsConnectedAccount: true,
	}), nil
}

// discoverCloudTrailAccount finds the account owning the organization
// trail. Trails are filtered through the ideal/minimum schema cascade;
// the first survivor's SNS topic ARN names the owning account.
func discoverCloudTrailAccount(w world.World) (world.World, error) {
	valid := schema.TrailCascade(w.Coeffects.Trails)

	var topicARN *string
	if len(valid) > 0 {
		topicARN = valid[0].SnsTopicARN
	}

	isOwner := false
	if topicARN != nil {
		accountID, err := accountIDFromARN(*topicARN)
		if err != nil {
			return w, err
		}
		isOwner = accountID == w.Input.AccountID
	}

	return w.MergeOutput(world.Output{
		world.FieldIsCloudTrailAccount:   isOwner,
		world.FieldCloudTrailSNSTopicArn: nullableName(topicARN),
	}), nil
}

// discoverMasterPayerAccount checks whether a conforming Cost & Usage
// Report lands in a locally owned bucket. A conforming report whose
// bucket lives elsewhere still surfaces its bucket name, so the payer
// relationship is visible from the member side too.
func discoverMasterPayerAccount(w world.World) (world.World, error) {
	valid := schema.KeepValid("report", schema.CheckReport, w.Coeffects.Reports)

	var defaultBucket *string
	if len(valid) > 0 {
		defaultBucket = valid[0].S3Bucket
	}

	local := w.LocalBucketNames()
	var localValid []world.ReportDefinition
	for _, r := range valid {
		if local[*r.S3Bucket] {
			localValid = append(localValid, r)
		}
	}

	bucket := defaultBucket
	if len(localValid) > 0 {
		bucket = localValid[0].S3Bucket
	}

	return w.MergeOutput(world.Output{
		world.FieldIsMasterPayerAccount:         len(localValid) > 0,
		world.FieldMasterPayerBillingBucketName: nullableName(bucket),
	}), nil
}

// nullableName widens an optional string to the output value space:
// string when set, JSON null when absent.
func nullableName(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
