package research

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Checkpoint step names. Each pipeline step persists its output under the
// session directory as <name>.json so a run can be inspected midway.
const (
	checkpointPapers     = "step_1_papers"
	checkpointIdeas      = "step_2_new_ideas"
	checkpointExperiment = "step_3_experiment"
	checkpointResults    = "step_4_results"
	checkpointNarrative  = "step_5_narrative"
)

// checkpointStore writes intermediate pipeline output as JSON files.
// Checkpoint failures are logged and swallowed; they never stop a run.
type checkpointStore struct {
	dir    string
	logger *zerolog.Logger
}

func newCheckpointStore(dir string, logger *zerolog.Logger) (*checkpointStore, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}

	return &checkpointStore{dir: dir, logger: logger}, nil
}

func (s *checkpointStore) save(name string, data any) {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		s.logger.Error().Err(err).Str("checkpoint", name).Msg("failed to encode checkpoint")

		return
	}

	path := filepath.Join(s.dir, name+".json")
	if err := os.WriteFile(path, encoded, filePerm); err != nil {
		s.logger.Error().Err(err).Str("checkpoint", name).Msg("failed to save checkpoint")
	}
}
