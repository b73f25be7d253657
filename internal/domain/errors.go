package domain

import "errors"

// ErrDuplicateJob is returned by the registry when a job id is already
// tracked. Submission ids are random uuids, so hitting this means a caller
// bug rather than a race worth retrying.
var ErrDuplicateJob = errors.New("job id already exists")
