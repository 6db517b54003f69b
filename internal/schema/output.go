package schema

import "account-discovery/internal/world"

var outputBoolFields = []string{
	world.FieldIsAuditAccount,
	world.FieldIsConnectedAccount,
	world.FieldIsCloudTrailAccount,
	world.FieldIsMasterPayerAccount,
}

var outputNameFields = []string{
	world.FieldAuditCloudTrailBucketName,
	world.FieldCloudTrailSNSTopicArn,
	world.FieldMasterPayerBillingBucketName,
}

// ValidateOutput checks that every required classification field is
// present with the right type. Name fields are nullable. Keys beyond
// the required seven are allowed through untouched, so rules may attach
// diagnostic extras without breaking the response contract.
func ValidateOutput(out world.Output) error {
	for _, field := range outputBoolFields {
		v, ok := out[field]
		if !ok {
			return errMissing(field)
		}
		if _, ok := v.(bool); !ok {
			return errType(field, "bool")
		}
	}
	for _, field := range outputNameFields {
		v, ok := out[field]
		if !ok {
			return errMissing(field)
		}
		if v == nil {
			continue
		}
		if _, ok := v.(string); !ok {
			return errType(field, "string or null")
		}
	}
	return nil
}
