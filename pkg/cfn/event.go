// Package cfn implements the CloudFormation custom-resource wire
// protocol: the inbound event envelope, the response envelope, and the
// signed-URL delivery of the response.
package cfn

import "github.com/google/uuid"

// Request types CloudFormation sends to a custom resource.
const (
	RequestCreate = "Create"
	RequestUpdate = "Update"
	RequestDelete = "Delete"
)

// Event is the custom-resource request envelope. Unknown fields in the
// raw JSON are dropped by the typed unmarshal; ResourceProperties keys
// other than AccountId are carried but ignored.
type Event struct {
	RequestType        string         `json:"RequestType"`
	ResponseURL        string         `json:"ResponseURL"`
	StackId            string         `json:"StackId"`
	RequestId          string         `json:"RequestId"`
	ResourceType       string         `json:"ResourceType"`
	LogicalResourceId  string         `json:"LogicalResourceId"`
	PhysicalResourceId string         `json:"PhysicalResourceId,omitempty"`
	ResourceProperties map[string]any `json:"ResourceProperties"`
}

// PhysicalID returns the physical resource id to echo back. Update and
// Delete events always carry one; on an initial Create none exists yet,
// so a fresh id is minted. Echoing the same id on later events matters:
// CloudFormation treats a changed id as a resource replacement.
func (e Event) PhysicalID() string {
	if e.PhysicalResourceId != "" {
		return e.PhysicalResourceId
	}
	return "discovery-" + uuid.NewString()
}
