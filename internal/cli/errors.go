package cli

import (
	"errors"
	"fmt"
	"net/http"

	"casedesk/internal/remote"
)

type usageError struct {
	flag string
	msg  string
}

func (e usageError) Error() string {
	return fmt.Sprintf("%s: %s", e.flag, e.msg)
}

func errUsage(flag, msg string) error {
	return usageError{flag: flag, msg: msg}
}

// describeErr adds a hint for the backend failures a user can act on.
func describeErr(err error) error {
	var se *remote.StatusError
	if errors.As(err, &se) && (se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden) {
		return fmt.Errorf("%w (set CASEDESK_SESSION_COOKIE to a logged-in session)", err)
	}
	return err
}
