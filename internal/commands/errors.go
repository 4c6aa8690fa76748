package commands

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"mytasks/internal/apiclient"
	"mytasks/internal/exitcode"
	"mytasks/internal/service"
)

// reportError prints err and returns the matching exit code.
func reportError(errOut io.Writer, err error) int {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		for _, is := range verr.Issues {
			fmt.Fprintf(errOut, "error: %s %s\n", is.Field, is.Message)
		}
		return exitcode.UserError
	}

	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	switch {
	case apiErr.Status == http.StatusUnauthorized:
		fmt.Fprintf(errOut, "error: auth error: %s (run: mytasks login)\n", apiErr)
		return exitcode.AuthError
	case apiErr.Status == http.StatusNotFound:
		fmt.Fprintf(errOut, "error: not found: %s\n", apiErr)
		return exitcode.UserError
	case apiErr.Status >= 400 && apiErr.Status < 500:
		fmt.Fprintf(errOut, "error: %s\n", apiErr)
		return exitcode.UserError
	default:
		fmt.Fprintf(errOut, "error: backend error: %s\n", apiErr)
		return exitcode.BackendError
	}
}
