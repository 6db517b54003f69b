package schema

import (
	"account-discovery/internal/world"
	"account-discovery/pkg/cfn"
)

// ValidateInput checks the inbound event against the request contract
// and projects it down to the fields discovery needs. Anything else on
// the envelope is dropped.
func ValidateInput(ev cfn.Event) (world.Input, error) {
	switch ev.RequestType {
	case cfn.RequestCreate, cfn.RequestUpdate, cfn.RequestDelete:
	default:
		return world.Input{}, errValue("RequestType", "Create, Update, or Delete")
	}

	raw, ok := ev.ResourceProperties["AccountId"]
	if !ok {
		return world.Input{}, errMissing("ResourceProperties.AccountId")
	}
	accountID, ok := raw.(string)
	if !ok {
		return world.Input{}, errType("ResourceProperties.AccountId", "string")
	}

	if ev.ResponseURL == "" {
		return world.Input{}, errMissing("ResponseURL")
	}
	if ev.StackId == "" {
		return world.Input{}, errMissing("StackId")
	}

	return world.Input{
		RequestType: ev.RequestType,
		AccountID:   accountID,
		ResponseURL: ev.ResponseURL,
		StackID:     ev.StackId,
	}, nil
}
