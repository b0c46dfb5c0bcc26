package sweeparchiveexpiry

import (
	"time"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/penalty"
)

const commandType = "SweepArchiveExpiry"

// Command represents one run of the retention sweep.
type Command struct {
	OccurredAt core.OccurredAtTS
	Today      time.Time
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command. now must be in the library's time zone.
func BuildCommand(now time.Time) Command {
	return Command{
		OccurredAt: core.ToOccurredAt(now),
		Today:      penalty.CivilDate(now),
	}
}
