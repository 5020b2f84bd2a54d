package eligibility

import (
	"encoding/json"

	id "schemeteller/pkg/domain"
	dErrors "schemeteller/pkg/domain-errors"
)

// Snapshot is the persisted form of an evaluation: the vector plus the
// matched scheme IDs, stored as one JSON document on the user record for
// fast reads. It is replaced atomically on every recompute.
type Snapshot struct {
	Vector
	MatchedSchemeIDs []id.SchemeID `json:"matchedSchemeIds"`
}

// MarshalSnapshot encodes a vector and its match result for storage.
func MarshalSnapshot(v Vector, matchedIDs []id.SchemeID) (json.RawMessage, error) {
	if matchedIDs == nil {
		matchedIDs = []id.SchemeID{}
	}
	raw, err := json.Marshal(Snapshot{Vector: v, MatchedSchemeIDs: matchedIDs})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "encode eligibility snapshot")
	}
	return raw, nil
}

// UnmarshalSnapshot decodes a stored snapshot. nil input yields nil: the
// user has never been evaluated.
func UnmarshalSnapshot(raw json.RawMessage) (*Snapshot, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "decode eligibility snapshot")
	}
	return &snap, nil
}
