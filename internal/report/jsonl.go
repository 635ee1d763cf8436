package report

import (
	"os"

	"github.com/gagliardetto/streamject"
	"github.com/pkg/errors"

	"github.com/gagliardetto/solana-latency/internal/log"
	"github.com/gagliardetto/solana-latency/internal/models"
)

// WriteJSONLines overwrites path with one JSON object per validator.
func WriteJSONLines(path string, validators []models.Validator) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove previous results")
	}
	stj, err := streamject.New(path)
	if err != nil {
		return errors.Wrap(err, "open results file")
	}
	for i := range validators {
		if err := stj.Append(validators[i]); err != nil {
			return errors.Wrapf(err, "append %s", validators[i].VotePubkey)
		}
	}
	log.Logger.Report.Debugf("wrote %d json lines to %s", len(validators), path)

	return nil
}
