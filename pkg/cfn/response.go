package cfn

// Response statuses understood by CloudFormation.
const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// Response is the envelope PUT back to the pre-signed ResponseURL.
type Response struct {
	Status             string         `json:"Status"`
	Reason             string         `json:"Reason,omitempty"`
	PhysicalResourceId string         `json:"PhysicalResourceId"`
	StackId            string         `json:"StackId"`
	RequestId          string         `json:"RequestId"`
	LogicalResourceId  string         `json:"LogicalResourceId"`
	NoEcho             bool           `json:"NoEcho,omitempty"`
	Data               map[string]any `json:"Data,omitempty"`
}

// NewResponse builds a response correlated to the event, carrying the
// classification record in Data.
func NewResponse(ev Event, status string, data map[string]any) Response {
	return Response{
		Status:             status,
		PhysicalResourceId: ev.PhysicalID(),
		StackId:            ev.StackId,
		RequestId:          ev.RequestId,
		LogicalResourceId:  ev.LogicalResourceId,
		Data:               data,
	}
}
