package schema

import (
	"github.com/rs/zerolog/log"

	"account-discovery/internal/world"
)

// Candidate validity is data, not control flow: a trail or report that
// fails its schema is dropped from the valid subset and logged at
// debug, never raised.

// CheckMinimumTrail accepts any multi-region trail with the bucket and
// SNS wiring present.
func CheckMinimumTrail(t world.Trail) error {
	if t.S3BucketName == nil {
		return errMissing("S3BucketName")
	}
	if t.SnsTopicName == nil {
		return errMissing("SnsTopicName")
	}
	if t.SnsTopicARN == nil {
		return errMissing("SnsTopicARN")
	}
	if t.TrailARN == nil {
		return errMissing("TrailARN")
	}
	if t.IsMultiRegionTrail == nil || !*t.IsMultiRegionTrail {
		return errValue("IsMultiRegionTrail", "true")
	}
	return nil
}

// CheckIdealTrail additionally requires the trail to be the
// organization trail.
func CheckIdealTrail(t world.Trail) error {
	if err := CheckMinimumTrail(t); err != nil {
		return err
	}
	if t.IsOrganizationTrail == nil || !*t.IsOrganizationTrail {
		return errValue("IsOrganizationTrail", "true")
	}
	return nil
}

// CheckReport accepts only the exact report configuration discovery
// provisions: hourly, resource-level, gzip csv, versioned reports
// with closed-report refresh, landing in a known bucket.
func CheckReport(r world.ReportDefinition) error {
	if r.TimeUnit != "HOURLY" {
		return errValue("TimeUnit", `"HOURLY"`)
	}
	if r.Format != "textORcsv" {
		return errValue("Format", `"textORcsv"`)
	}
	if r.Compression != "GZIP" {
		return errValue("Compression", `"GZIP"`)
	}
	if len(r.AdditionalSchemaElements) != 1 || r.AdditionalSchemaElements[0] != "RESOURCES" {
		return errValue("AdditionalSchemaElements", `["RESOURCES"]`)
	}
	if r.S3Bucket == nil {
		return errMissing("S3Bucket")
	}
	if r.S3Prefix == nil {
		return errMissing("S3Prefix")
	}
	if r.S3Region == nil {
		return errMissing("S3Region")
	}
	if r.ReportVersioning != "CREATE_NEW_REPORT" {
		return errValue("ReportVersioning", `"CREATE_NEW_REPORT"`)
	}
	if r.RefreshClosedReports == nil || !*r.RefreshClosedReports {
		return errValue("RefreshClosedReports", "true")
	}
	return nil
}

// KeepValid filters candidates down to those passing the check.
// Rejected candidates are logged and discarded; they neither count
// toward nor block classification.
func KeepValid[T any](kind string, check func(T) error, candidates []T) []T {
	var valid []T
	for _, c := range candidates {
		if err := check(c); err != nil {
			log.Debug().Err(err).Str("kind", kind).Msg("candidate rejected")
			continue
		}
		valid = append(valid, c)
	}
	return valid
}

// TrailCascade tries the trail schemas in priority order and returns
// the first non-empty valid subset. One ideal trail makes all
// minimum-only trails irrelevant.
func TrailCascade(trails []world.Trail) []world.Trail {
	checks := []func(world.Trail) error{CheckIdealTrail, CheckMinimumTrail}
	for _, check := range checks {
		if valid := KeepValid("trail", check, trails); len(valid) > 0 {
			return valid
		}
	}
	return nil
}
