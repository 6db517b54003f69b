package classify

import (
	"fmt"
	"strings"
)

// accountIDFromARN extracts the account id embedded in an ARN, the
// fifth colon-delimited segment (arn:partition:service:region:account-id:resource).
func accountIDFromARN(arn string) (string, error) {
	parts := strings.SplitN(arn, ":", 6)
	if len(parts) < 5 {
		return "", fmt.Errorf("malformed arn %q", arn)
	}
	return parts[4], nil
}
