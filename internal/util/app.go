package util

import (
	"fmt"
	"runtime"
)

func GetAppName() string {
	return "AutoSign"
}

// Link a signer follows to view and sign a contract.
func GetSigningLink(frontURL, contractId, contractSignerId string) string {
	return fmt.Sprintf("%s/sign/%s?signer=%s", frontURL, contractId, contractSignerId)
}

func DetermineWorkers(jobCount int) int {
	if jobCount <= 0 {
		return max(runtime.GOMAXPROCS(0), 1)
	}

	return min(max(runtime.GOMAXPROCS(0)*2, 1), jobCount)
}
