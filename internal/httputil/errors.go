// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"fmt"
	"strings"
)

// ConnectivityError reports that every configured route to a service
// failed. Attempts records one line per route tried, in order.
type ConnectivityError struct {
	Service  string
	Attempts []string
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("all routes to %s failed: %s", e.Service, strings.Join(e.Attempts, "; "))
}
