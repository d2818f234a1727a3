package util

import (
	"github.com/rs/xid"
)

// GenRunID generates a run ID string for a submission.
// IDs are globally unique and sortable.
func GenRunID() string {
	return xid.New().String()
}
