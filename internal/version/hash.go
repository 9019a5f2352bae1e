package version

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/appdotbuilder/ai-dev-assistant/internal/domain"
	"golang.org/x/crypto/blake2b"
)

// ComputeCommitHash derives a short advisory hash over the change payload,
// the creation timestamp and the project id. Eight hex chars; collisions are
// tolerable since versions are keyed by id, not by hash.
func ComputeCommitHash(changes []domain.FileChange, at time.Time, projectID string) string {
	payload, err := json.Marshal(changes)
	if err != nil {
		// FileChange has no unmarshalable fields; keep the hash deterministic anyway
		payload = []byte(fmt.Sprintf("%v", changes))
	}

	digest, _ := blake2b.New256(nil)
	digest.Write(payload)
	digest.Write([]byte(fmt.Sprintf("%d", at.UnixNano())))
	digest.Write([]byte(projectID))

	return hex.EncodeToString(digest.Sum(nil))[:8]
}
